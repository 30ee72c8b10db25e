package mesher

import (
	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/geom"
	"github.com/nathanial/geist-sub002/internal/microgrid"
)

// buildMicro emits geometry for non-cube, non-pane-excluded shapes (slab,
// stairs, pane) by decomposing each cell's 2x2x2 micro-occupancy into its
// precomputed box cover and emitting each box's faces individually (§4.5
// point 3): a face on the cell boundary is culled when the neighbor block
// occludes it; a face inside the cell is always emitted, including where
// two boxes of the same cell touch. Unlike the cube pass, these quads are never greedily
// merged across cells — the box decomposition itself is already the
// minimal cover within one cell, and merging across cells would require
// re-deriving adjacency the decomposition doesn't track.
func buildMicro(reg *blocks.BlockRegistry, src *BlockSource, sink BuildSink, sx, sy, sz int, skyBrightness float64, floor uint8) {
	for x := 0; x < sx; x++ {
		for y := 0; y < sy; y++ {
			for z := 0; z < sz; z++ {
				here := src.Block(x, y, z)
				if here.IsAir() {
					continue
				}
				bt := reg.Get(here.ID)
				if bt == nil || isCubeLike(bt) || bt.Shape == blocks.ShapeNone {
					continue
				}
				light := src.Combined(x, y, z, skyBrightness, floor)
				emitMicroCell(reg, src, sink, bt, here, x, y, z, light)
			}
		}
	}
}

// halfStep converts a micro-grid coordinate in {0,1,2} to a world-local
// offset in {0, 0.5, 1.0} blocks from the cell's origin.
func halfStep(v uint8) float32 { return float32(v) * 0.5 }

type microFace struct {
	face       blocks.Face
	dx, dy, dz int
}

var microFaces = [6]microFace{
	{face: blocks.FaceEast, dx: 1},
	{face: blocks.FaceWest, dx: -1},
	{face: blocks.FaceTop, dy: 1},
	{face: blocks.FaceBottom, dy: -1},
	{face: blocks.FaceNorth, dz: 1},
	{face: blocks.FaceSouth, dz: -1},
}

func emitMicroCell(reg *blocks.BlockRegistry, src *BlockSource, sink BuildSink, bt *blocks.BlockType, here blocks.Block, x, y, z int, light uint8) {
	boxes := microgrid.BoxDecomposition(bt.Occupancy(here.State))
	ox, oy, oz := float32(x), float32(y), float32(z)

	for _, box := range boxes {
		// World-space AABB for this box at half-step resolution, mirroring
		// the reference mesher's microgrid_boxes conversion.
		aabb := geom.NewAABB(
			geom.Vec3{ox + halfStep(box.X0), oy + halfStep(box.Y0), oz + halfStep(box.Z0)},
			geom.Vec3{ox + halfStep(box.X1), oy + halfStep(box.Y1), oz + halfStep(box.Z1)},
		)
		for _, mf := range microFaces {
			var atBoundary bool
			switch {
			case mf.dx > 0:
				atBoundary = box.X1 == 2
			case mf.dx < 0:
				atBoundary = box.X0 == 0
			case mf.dy > 0:
				atBoundary = box.Y1 == 2
			case mf.dy < 0:
				atBoundary = box.Y0 == 0
			case mf.dz > 0:
				atBoundary = box.Z1 == 2
			case mf.dz < 0:
				atBoundary = box.Z0 == 0
			}
			if atBoundary {
				there := src.Block(x+mf.dx, y+mf.dy, z+mf.dz)
				if blocks.IsOccluding(reg, here, there, mf.face) {
					continue
				}
			}
			material := bt.MaterialFor(here.State, mf.face)
			emitMicroQuad(sink, material, aabb, mf, light)
		}
	}
}

func emitMicroQuad(sink BuildSink, material blocks.MaterialID, aabb geom.AABB, mf microFace, light uint8) {
	x0, y0, z0 := aabb.Min[0], aabb.Min[1], aabb.Min[2]
	x1, y1, z1 := aabb.Max[0], aabb.Max[1], aabb.Max[2]
	normal := normalFor(mf.face)
	rgba := lightRGBA(light)

	var a, b, c, d Vertex
	switch {
	case mf.dx != 0:
		fx := x0
		if mf.dx > 0 {
			fx = x1
		}
		a = Vertex{Pos: geom.Vec3{fx, y0, z0}, Normal: normal, RGBA: rgba}
		b = Vertex{Pos: geom.Vec3{fx, y1, z0}, Normal: normal, RGBA: rgba}
		c = Vertex{Pos: geom.Vec3{fx, y1, z1}, Normal: normal, RGBA: rgba}
		d = Vertex{Pos: geom.Vec3{fx, y0, z1}, Normal: normal, RGBA: rgba}
		if mf.dx < 0 {
			a, b, c, d = a, d, c, b
		}
	case mf.dy != 0:
		fy := y0
		if mf.dy > 0 {
			fy = y1
		}
		a = Vertex{Pos: geom.Vec3{x0, fy, z0}, Normal: normal, RGBA: rgba}
		b = Vertex{Pos: geom.Vec3{x0, fy, z1}, Normal: normal, RGBA: rgba}
		c = Vertex{Pos: geom.Vec3{x1, fy, z1}, Normal: normal, RGBA: rgba}
		d = Vertex{Pos: geom.Vec3{x1, fy, z0}, Normal: normal, RGBA: rgba}
		if mf.dy < 0 {
			a, b, c, d = a, d, c, b
		}
	default:
		fz := z0
		if mf.dz > 0 {
			fz = z1
		}
		a = Vertex{Pos: geom.Vec3{x0, y0, fz}, Normal: normal, RGBA: rgba}
		b = Vertex{Pos: geom.Vec3{x1, y0, fz}, Normal: normal, RGBA: rgba}
		c = Vertex{Pos: geom.Vec3{x1, y1, fz}, Normal: normal, RGBA: rgba}
		d = Vertex{Pos: geom.Vec3{x0, y1, fz}, Normal: normal, RGBA: rgba}
		if mf.dz < 0 {
			a, b, c, d = a, d, c, b
		}
	}
	sink.Quad(material, a, b, c, d)
}
