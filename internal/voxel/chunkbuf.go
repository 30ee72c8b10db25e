package voxel

import "github.com/nathanial/geist-sub002/internal/blocks"

// Occupancy classifies a ChunkBuf as entirely air or carrying at least one
// non-air block, letting the streamer and mesher skip empty chunks cheaply.
type Occupancy uint8

const (
	OccupancyEmpty Occupancy = iota
	OccupancyPopulated
)

// ChunkBuf is a dense flat array of blocks for one chunk. Index formula is
// (y*sz+z)*sx+x, matching the data model's §3 definition.
type ChunkBuf struct {
	Coord      ChunkCoord
	SX, SY, SZ int
	blocks     []blocks.Block
	occupancy  Occupancy
}

// NewChunkBuf allocates an all-air buffer of the given shape.
func NewChunkBuf(coord ChunkCoord, sx, sy, sz int) *ChunkBuf {
	return &ChunkBuf{
		Coord: coord, SX: sx, SY: sy, SZ: sz,
		blocks:    make([]blocks.Block, sx*sy*sz),
		occupancy: OccupancyEmpty,
	}
}

// FromBlocksLocal builds a buffer from a flat local-space slice, normalizing
// its length to exactly sx*sy*sz regardless of the input length (§8 property
// 5): short inputs are zero-padded (air), long inputs are truncated.
func FromBlocksLocal(coord ChunkCoord, sx, sy, sz int, in []blocks.Block) *ChunkBuf {
	buf := NewChunkBuf(coord, sx, sy, sz)
	n := len(buf.blocks)
	if len(in) < n {
		n = len(in)
	}
	copy(buf.blocks, in[:n])
	for _, b := range buf.blocks {
		if !b.IsAir() {
			buf.occupancy = OccupancyPopulated
			break
		}
	}
	return buf
}

// idx computes the flat index for local coordinates; callers are expected to
// have already range-checked against SX/SY/SZ (§8 property 3: bijection over
// the valid range).
func (c *ChunkBuf) idx(x, y, z int) int {
	return (y*c.SZ+z)*c.SX + x
}

// InBounds reports whether (x,y,z) is a valid local coordinate.
func (c *ChunkBuf) InBounds(x, y, z int) bool {
	return x >= 0 && x < c.SX && y >= 0 && y < c.SY && z >= 0 && z < c.SZ
}

// GetLocal returns the block at local coordinates, or air if out of bounds.
func (c *ChunkBuf) GetLocal(x, y, z int) blocks.Block {
	if !c.InBounds(x, y, z) {
		return blocks.AirBlock
	}
	return c.blocks[c.idx(x, y, z)]
}

// SetLocal writes the block at local coordinates; out-of-bounds writes are a
// silent no-op (mirrors the edit store's no-operation-fails error model).
func (c *ChunkBuf) SetLocal(x, y, z int, b blocks.Block) {
	if !c.InBounds(x, y, z) {
		return
	}
	c.blocks[c.idx(x, y, z)] = b
	if !b.IsAir() {
		c.occupancy = OccupancyPopulated
	}
}

// GetOccupancy reports whether the buffer is entirely air.
func (c *ChunkBuf) GetOccupancy() Occupancy { return c.occupancy }

// Base returns the world-space origin of local (0,0,0) for this chunk.
func (c *ChunkBuf) Base() (wx, wy, wz int32) {
	return c.Coord.CX * int32(c.SX), c.Coord.CY * int32(c.SY), c.Coord.CZ * int32(c.SZ)
}

// LocalFromWorld translates a world coordinate into this chunk's local
// space; ok is false if the coordinate falls outside this chunk.
func (c *ChunkBuf) LocalFromWorld(wx, wy, wz int32) (x, y, z int, ok bool) {
	bx, by, bz := c.Base()
	x, y, z = int(wx-bx), int(wy-by), int(wz-bz)
	return x, y, z, c.InBounds(x, y, z)
}
