package mesher

import (
	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/edit"
	"github.com/nathanial/geist-sub002/internal/lighting"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

// BlockSource answers block and light lookups for one chunk's mesh build,
// folding together the chunk's own buffer, the persistent edit overlay, and
// (for coordinates outside the chunk) the world generator's fallback
// sampling — so the mesher's face-visibility check never needs to know
// whether a neighbor cell came from a loaded chunk, an edit, or raw
// generation (§4.5 point 1: "the neighbor is read from the edit snapshot or
// the world generator").
type BlockSource struct {
	Buf    *voxel.ChunkBuf
	Edits  *edit.Store
	World  *voxel.World
	Ctx    *voxel.GenCtx
	Light  *lighting.Grid
	Border *lighting.NeighborBorders
}

func (s *BlockSource) worldCoord(x, y, z int) (int32, int32, int32) {
	bx, by, bz := s.Buf.Base()
	return bx + int32(x), by + int32(y), bz + int32(z)
}

// Block returns the effective block at local coordinates (x,y,z), which may
// lie outside the chunk's own extent (a neighbor lookup).
func (s *BlockSource) Block(x, y, z int) blocks.Block {
	wx, wy, wz := s.worldCoord(x, y, z)
	if s.Edits != nil {
		if b, ok := s.Edits.Get(wx, wy, wz); ok {
			return b
		}
	}
	if s.Buf.InBounds(x, y, z) {
		return s.Buf.GetLocal(x, y, z)
	}
	if s.World == nil {
		return blocks.AirBlock
	}
	if s.Ctx != nil {
		return s.World.BlockAtRuntimeWith(s.Ctx, wx, wy, wz)
	}
	return s.World.BlockAtRuntime(wx, wy, wz)
}

// Combined returns the baked light byte for the interior cell at (x,y,z):
// max(block-light, sky-brightness-scaled skylight), with an optional visual
// floor so fully-dark faces never render
// pitch black (§4.5 point 5). skyBrightness is in [0,1] (e.g. time-of-day
// driven elsewhere; this core treats it as an input, never derives it).
// The beacon channel is not read: lighting.Grid carries no beacon light.
func (s *BlockSource) Combined(x, y, z int, skyBrightness float64, floor uint8) uint8 {
	if s.Light == nil || !s.Buf.InBounds(x, y, z) {
		return floor
	}
	block := s.Light.BlockAt(x, y, z)
	sky := uint8(float64(s.Light.SkyAt(x, y, z)) * skyBrightness)
	level := block
	if sky > level {
		level = sky
	}
	scaled := uint8((float64(level) / float64(lighting.MaxLight)) * 255)
	if scaled < floor {
		scaled = floor
	}
	return scaled
}

// FaceLight returns the baked light a visible face should carry, sampled
// from the open cell on the far side of that face at local (x,y,z) —
// "there", not the solid cell emitting the face — since that's the cell
// light actually flows through. When (x,y,z) falls outside this chunk's
// own grid, it reads the exchanged neighbor border plane instead of
// falling back to the world generator, so chunk-edge brightness matches
// what the neighbor chunk itself computed rather than a resampled guess
// (§4.5 point 5, §4.4).
func (s *BlockSource) FaceLight(face blocks.Face, x, y, z int, skyBrightness float64, floor uint8) uint8 {
	if s.Buf.InBounds(x, y, z) {
		return s.Combined(x, y, z, skyBrightness, floor)
	}
	var planeIdx int
	switch face {
	case blocks.FaceTop, blocks.FaceBottom:
		planeIdx = x*s.Buf.SZ + z
	case blocks.FaceEast, blocks.FaceWest:
		planeIdx = y*s.Buf.SZ + z
	default: // FaceNorth, FaceSouth
		planeIdx = x*s.Buf.SY + y
	}
	if v, ok := s.BorderCombined(face, planeIdx, skyBrightness, floor); ok {
		return v
	}
	return floor
}

// BorderCombined returns the baked light for a neighbor cell one step past
// the chunk edge, reading from the exchanged NeighborBorders plane rather
// than the world generator (so chunk-edge brightness matches what the
// neighbor chunk itself actually computed, not a resampled guess).
func (s *BlockSource) BorderCombined(face blocks.Face, planeIdx int, skyBrightness float64, floor uint8) (uint8, bool) {
	if s.Border == nil {
		return 0, false
	}
	blockPlane := s.Border.Block[face]
	skyPlane := s.Border.Sky[face]
	if blockPlane == nil && skyPlane == nil {
		return 0, false
	}
	var block, sky uint8
	if blockPlane != nil && planeIdx < len(blockPlane) {
		block = blockPlane[planeIdx]
	}
	if skyPlane != nil && planeIdx < len(skyPlane) {
		sky = uint8(float64(skyPlane[planeIdx]) * skyBrightness)
	}
	level := block
	if sky > level {
		level = sky
	}
	scaled := uint8((float64(level) / float64(lighting.MaxLight)) * 255)
	if scaled < floor {
		scaled = floor
	}
	return scaled, true
}
