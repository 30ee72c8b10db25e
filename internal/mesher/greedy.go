package mesher

import (
	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/geom"
)

// maskCell is one cell of a face-direction mask: which material (and
// baked light) a visible face at that cell carries, or absent.
type maskCell struct {
	Material blocks.MaterialID
	Light    uint8
	Present  bool
}

func (c maskCell) sameKey(o maskCell) bool {
	return c.Present && o.Present && c.Material == o.Material && c.Light == o.Light
}

// BuildMesh runs the full §4.5 contract for one chunk: greedy rectangle
// merging for cube-shaped geometry on all six face directions, plus
// micro-grid box emission (buildMicro, micro.go) for non-cube shapes.
// Emitted quads are routed into sink, bucketed by material ID.
func BuildMesh(reg *blocks.BlockRegistry, src *BlockSource, sink BuildSink, skyBrightness float64, lightFloor uint8) {
	sx, sy, sz := src.Buf.SX, src.Buf.SY, src.Buf.SZ

	for _, sign := range [2]int{1, -1} {
		buildAxisX(reg, src, sink, sx, sy, sz, sign, skyBrightness, lightFloor)
		buildAxisY(reg, src, sink, sx, sy, sz, sign, skyBrightness, lightFloor)
		buildAxisZ(reg, src, sink, sx, sy, sz, sign, skyBrightness, lightFloor)
	}

	buildMicro(reg, src, sink, sx, sy, sz, skyBrightness, lightFloor)
}

func isCubeLike(bt *blocks.BlockType) bool {
	return bt != nil && (bt.Shape == blocks.ShapeCube || bt.Shape == blocks.ShapeAxisCube)
}

func faceFor(axis int, sign int) blocks.Face {
	switch axis {
	case 0: // X
		if sign > 0 {
			return blocks.FaceEast
		}
		return blocks.FaceWest
	case 1: // Y
		if sign > 0 {
			return blocks.FaceTop
		}
		return blocks.FaceBottom
	default: // Z
		if sign > 0 {
			return blocks.FaceNorth
		}
		return blocks.FaceSouth
	}
}

func normalFor(face blocks.Face) geom.Vec3 {
	switch face {
	case blocks.FaceTop:
		return geom.Vec3{0, 1, 0}
	case blocks.FaceBottom:
		return geom.Vec3{0, -1, 0}
	case blocks.FaceEast:
		return geom.Vec3{1, 0, 0}
	case blocks.FaceWest:
		return geom.Vec3{-1, 0, 0}
	case blocks.FaceNorth:
		return geom.Vec3{0, 0, 1}
	default:
		return geom.Vec3{0, 0, -1}
	}
}

// visibleCell checks whether the cube-shaped block at local (x,y,z) shows
// a face in the given direction, and if so returns the material/light key
// for that face (§4.5 point 1).
func visibleCell(reg *blocks.BlockRegistry, src *BlockSource, x, y, z, dx, dy, dz int, face blocks.Face, skyBrightness float64, floor uint8) maskCell {
	here := src.Block(x, y, z)
	if here.IsAir() {
		return maskCell{}
	}
	ht := reg.Get(here.ID)
	if !isCubeLike(ht) {
		return maskCell{}
	}
	there := src.Block(x+dx, y+dy, z+dz)
	if blocks.IsOccluding(reg, here, there, face) {
		return maskCell{}
	}
	material := ht.MaterialFor(here.State, face)
	light := src.FaceLight(face, x+dx, y+dy, z+dz, skyBrightness, floor)
	return maskCell{Material: material, Light: light, Present: true}
}

func buildAxisX(reg *blocks.BlockRegistry, src *BlockSource, sink BuildSink, sx, sy, sz, sign int, skyBrightness float64, floor uint8) {
	face := faceFor(0, sign)
	normal := normalFor(face)
	for x := 0; x < sx; x++ {
		mask := make([]maskCell, sy*sz)
		for y := 0; y < sy; y++ {
			for z := 0; z < sz; z++ {
				mask[y*sz+z] = visibleCell(reg, src, x, y, z, sign, 0, 0, face, skyBrightness, floor)
			}
		}
		fx := float32(x)
		if sign > 0 {
			fx = float32(x + 1)
		}
		greedyMergeYZ(mask, sy, sz, func(y0, z0, h, w int, c maskCell) {
			emitQuadX(sink, c.Material, fx, float32(y0), float32(z0), h, w, normal, sign, c.Light)
		})
	}
}

func buildAxisY(reg *blocks.BlockRegistry, src *BlockSource, sink BuildSink, sx, sy, sz, sign int, skyBrightness float64, floor uint8) {
	face := faceFor(1, sign)
	normal := normalFor(face)
	for y := 0; y < sy; y++ {
		mask := make([]maskCell, sx*sz)
		for x := 0; x < sx; x++ {
			for z := 0; z < sz; z++ {
				mask[x*sz+z] = visibleCell(reg, src, x, y, z, 0, sign, 0, face, skyBrightness, floor)
			}
		}
		fy := float32(y)
		if sign > 0 {
			fy = float32(y + 1)
		}
		greedyMergeXZ(mask, sx, sz, func(x0, z0, h, w int, c maskCell) {
			emitQuadY(sink, c.Material, float32(x0), fy, float32(z0), h, w, normal, sign, c.Light)
		})
	}
}

func buildAxisZ(reg *blocks.BlockRegistry, src *BlockSource, sink BuildSink, sx, sy, sz, sign int, skyBrightness float64, floor uint8) {
	face := faceFor(2, sign)
	normal := normalFor(face)
	for z := 0; z < sz; z++ {
		mask := make([]maskCell, sx*sy)
		for x := 0; x < sx; x++ {
			for y := 0; y < sy; y++ {
				mask[x*sy+y] = visibleCell(reg, src, x, y, z, 0, 0, sign, face, skyBrightness, floor)
			}
		}
		fz := float32(z)
		if sign > 0 {
			fz = float32(z + 1)
		}
		greedyMergeXY(mask, sx, sy, func(x0, y0, h, w int, c maskCell) {
			emitQuadZ(sink, c.Material, float32(x0), float32(y0), fz, h, w, normal, sign, c.Light)
		})
	}
}

// greedyMergeYZ runs the mask-and-merge sweep over a (y,z) mask, same
// tie-break as §4.5 point 2: ascending index, extend +v (z) first while the
// row matches and the cell is unused, then extend +u (y) requiring the
// whole row to match.
func greedyMergeYZ(mask []maskCell, sy, sz int, emit func(y0, z0, h, w int, c maskCell)) {
	for i := 0; i < sy*sz; i++ {
		c := mask[i]
		if !c.Present {
			continue
		}
		y0, z0 := i/sz, i%sz
		w := 1
		for z1 := z0 + 1; z1 < sz && mask[y0*sz+z1].sameKey(c); z1++ {
			w++
		}
		h := 1
	grow:
		for y1 := y0 + 1; y1 < sy; y1++ {
			for z1 := z0; z1 < z0+w; z1++ {
				if !mask[y1*sz+z1].sameKey(c) {
					break grow
				}
			}
			h++
		}
		for yy := y0; yy < y0+h; yy++ {
			for zz := z0; zz < z0+w; zz++ {
				mask[yy*sz+zz] = maskCell{}
			}
		}
		emit(y0, z0, h, w, c)
	}
}

func greedyMergeXZ(mask []maskCell, sx, sz int, emit func(x0, z0, h, w int, c maskCell)) {
	for i := 0; i < sx*sz; i++ {
		c := mask[i]
		if !c.Present {
			continue
		}
		x0, z0 := i/sz, i%sz
		w := 1
		for z1 := z0 + 1; z1 < sz && mask[x0*sz+z1].sameKey(c); z1++ {
			w++
		}
		h := 1
	grow:
		for x1 := x0 + 1; x1 < sx; x1++ {
			for z1 := z0; z1 < z0+w; z1++ {
				if !mask[x1*sz+z1].sameKey(c) {
					break grow
				}
			}
			h++
		}
		for xx := x0; xx < x0+h; xx++ {
			for zz := z0; zz < z0+w; zz++ {
				mask[xx*sz+zz] = maskCell{}
			}
		}
		emit(x0, z0, h, w, c)
	}
}

func greedyMergeXY(mask []maskCell, sx, sy int, emit func(x0, y0, h, w int, c maskCell)) {
	for i := 0; i < sx*sy; i++ {
		c := mask[i]
		if !c.Present {
			continue
		}
		x0, y0 := i/sy, i%sy
		w := 1
		for y1 := y0 + 1; y1 < sy && mask[x0*sy+y1].sameKey(c); y1++ {
			w++
		}
		h := 1
	grow:
		for x1 := x0 + 1; x1 < sx; x1++ {
			for y1 := y0; y1 < y0+w; y1++ {
				if !mask[x1*sy+y1].sameKey(c) {
					break grow
				}
			}
			h++
		}
		for xx := x0; xx < x0+h; xx++ {
			for yy := y0; yy < y0+w; yy++ {
				mask[xx*sy+yy] = maskCell{}
			}
		}
		emit(x0, y0, h, w, c)
	}
}

func lightRGBA(light uint8) [4]uint8 { return [4]uint8{light, light, light, 255} }

func emitQuadX(sink BuildSink, mat blocks.MaterialID, fx, y0, z0 float32, h, w int, normal geom.Vec3, sign int, light uint8) {
	rgba := lightRGBA(light)
	hf, wf := float32(h), float32(w)
	a := Vertex{Pos: geom.Vec3{fx, y0, z0}, Normal: normal, UV: faceUV(0, 0), RGBA: rgba}
	b := Vertex{Pos: geom.Vec3{fx, y0 + hf, z0}, Normal: normal, UV: faceUV(0, hf), RGBA: rgba}
	c := Vertex{Pos: geom.Vec3{fx, y0 + hf, z0 + wf}, Normal: normal, UV: faceUV(wf, hf), RGBA: rgba}
	d := Vertex{Pos: geom.Vec3{fx, y0, z0 + wf}, Normal: normal, UV: faceUV(wf, 0), RGBA: rgba}
	if sign > 0 {
		sink.Quad(mat, a, b, c, d)
	} else {
		sink.Quad(mat, a, d, c, b)
	}
}

func emitQuadY(sink BuildSink, mat blocks.MaterialID, x0, fy, z0 float32, h, w int, normal geom.Vec3, sign int, light uint8) {
	rgba := lightRGBA(light)
	hf, wf := float32(h), float32(w)
	a := Vertex{Pos: geom.Vec3{x0, fy, z0}, Normal: normal, UV: faceUV(0, 0), RGBA: rgba}
	b := Vertex{Pos: geom.Vec3{x0, fy, z0 + wf}, Normal: normal, UV: faceUV(0, wf), RGBA: rgba}
	c := Vertex{Pos: geom.Vec3{x0 + hf, fy, z0 + wf}, Normal: normal, UV: faceUV(hf, wf), RGBA: rgba}
	d := Vertex{Pos: geom.Vec3{x0 + hf, fy, z0}, Normal: normal, UV: faceUV(hf, 0), RGBA: rgba}
	if sign > 0 {
		sink.Quad(mat, a, b, c, d)
	} else {
		sink.Quad(mat, a, d, c, b)
	}
}

func emitQuadZ(sink BuildSink, mat blocks.MaterialID, x0, y0, fz float32, h, w int, normal geom.Vec3, sign int, light uint8) {
	rgba := lightRGBA(light)
	hf, wf := float32(h), float32(w)
	a := Vertex{Pos: geom.Vec3{x0, y0, fz}, Normal: normal, UV: faceUV(0, 0), RGBA: rgba}
	b := Vertex{Pos: geom.Vec3{x0 + hf, y0, fz}, Normal: normal, UV: faceUV(hf, 0), RGBA: rgba}
	c := Vertex{Pos: geom.Vec3{x0 + hf, y0 + wf, fz}, Normal: normal, UV: faceUV(hf, wf), RGBA: rgba}
	d := Vertex{Pos: geom.Vec3{x0, y0 + wf, fz}, Normal: normal, UV: faceUV(0, wf), RGBA: rgba}
	if sign > 0 {
		sink.Quad(mat, a, b, c, d)
	} else {
		sink.Quad(mat, a, d, c, b)
	}
}
