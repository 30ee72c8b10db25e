// Package microgrid provides the precomputed lookup tables that decompose a
// 2x2x2 micro-occupancy pattern (or a 2x2 face-boundary pattern) into a
// minimal set of axis-aligned boxes/rectangles, built once via idempotent
// initialization (Go's sync.Once standing in for the original source's
// OnceLock) and reused for the process lifetime.
package microgrid

import "sync"

// Box is an axis-aligned box in half-step coordinates (each axis in
// {0,1,2}), covering the micro-cells from (X0,Y0,Z0) up to but excluding
// (X1,Y1,Z1).
type Box struct {
	X0, Y0, Z0 uint8
	X1, Y1, Z1 uint8
}

// Rect is an axis-aligned rectangle in half-step coordinates over a single
// face-boundary plane (each axis in {0,1,2}).
type Rect struct {
	U0, V0 uint8
	U1, V1 uint8
}

// occBit returns the bit index for micro-cell (x,y,z), x,y,z in {0,1}.
func occBit(x, y, z int) int { return ((y & 1) << 2) | ((z & 1) << 1) | (x & 1) }

var (
	boxOnce  sync.Once
	boxTable [256][]Box

	rectOnce  sync.Once
	rectTable [16][]Rect
)

// BoxDecomposition returns the minimal axis-aligned box cover for occupancy
// pattern occ (8-bit, bit layout per occBit). The result is built once on
// first use and shared thereafter; callers must not mutate the slice.
func BoxDecomposition(occ uint8) []Box {
	boxOnce.Do(buildBoxTable)
	return boxTable[occ]
}

// RectDecomposition returns the minimal axis-aligned rectangle cover for a
// 2x2 boundary pattern mask (4-bit, bit layout (v<<1)|u for u,v in {0,1}).
func RectDecomposition(mask uint8) []Rect {
	rectOnce.Do(buildRectTable)
	return rectTable[mask&0x0F]
}

func buildBoxTable() {
	for occ := 0; occ < 256; occ++ {
		boxTable[occ] = decomposeBoxes(uint8(occ))
	}
}

func decomposeBoxes(occ uint8) []Box {
	var cells [2][2][2]bool // [x][y][z]
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				cells[x][y][z] = occ&(1<<uint(occBit(x, y, z))) != 0
			}
		}
	}
	var used [2][2][2]bool
	var boxes []Box

	for y := 0; y < 2; y++ {
		for z := 0; z < 2; z++ {
			for x := 0; x < 2; x++ {
				if !cells[x][y][z] || used[x][y][z] {
					continue
				}
				wx := 1
				for x+wx < 2 && cells[x+wx][y][z] && !used[x+wx][y][z] {
					wx++
				}
				wy := 1
			growY:
				for y+wy < 2 {
					for xx := 0; xx < wx; xx++ {
						if !cells[x+xx][y+wy][z] || used[x+xx][y+wy][z] {
							break growY
						}
					}
					wy++
				}
				wz := 1
			growZ:
				for z+wz < 2 {
					for yy := 0; yy < wy; yy++ {
						for xx := 0; xx < wx; xx++ {
							if !cells[x+xx][y+yy][z+wz] || used[x+xx][y+yy][z+wz] {
								break growZ
							}
						}
					}
					wz++
				}
				for xx := 0; xx < wx; xx++ {
					for yy := 0; yy < wy; yy++ {
						for zz := 0; zz < wz; zz++ {
							used[x+xx][y+yy][z+zz] = true
						}
					}
				}
				boxes = append(boxes, Box{
					X0: uint8(x), Y0: uint8(y), Z0: uint8(z),
					X1: uint8(x + wx), Y1: uint8(y + wy), Z1: uint8(z + wz),
				})
			}
		}
	}
	return boxes
}

func buildRectTable() {
	for mask := 0; mask < 16; mask++ {
		rectTable[mask] = decomposeRects(uint8(mask))
	}
}

func decomposeRects(mask uint8) []Rect {
	var cells [2][2]bool // [u][v]
	for u := 0; u < 2; u++ {
		for v := 0; v < 2; v++ {
			idx := (v << 1) | u
			cells[u][v] = mask&(1<<uint(idx)) != 0
		}
	}
	var used [2][2]bool
	var rects []Rect

	for v := 0; v < 2; v++ {
		for u := 0; u < 2; u++ {
			if !cells[u][v] || used[u][v] {
				continue
			}
			wu := 1
			for u+wu < 2 && cells[u+wu][v] && !used[u+wu][v] {
				wu++
			}
			wv := 1
		growV:
			for v+wv < 2 {
				for uu := 0; uu < wu; uu++ {
					if !cells[u+uu][v+wv] || used[u+uu][v+wv] {
						break growV
					}
				}
				wv++
			}
			for uu := 0; uu < wu; uu++ {
				for vv := 0; vv < wv; vv++ {
					used[u+uu][v+vv] = true
				}
			}
			rects = append(rects, Rect{U0: uint8(u), V0: uint8(v), U1: uint8(u + wu), V1: uint8(v + wv)})
		}
	}
	return rects
}
