package lighting

import (
	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

// MaxLight is the brightest light level a cell can carry (4-bit channel,
// matching the block/sky light convention of the reference engine).
const MaxLight uint8 = 15

// Grid is one chunk's dense block-light and sky-light values, seeded from
// emissive blocks and the open sky and flood-filled through propagating
// neighbors. It is computed per chunk from only that chunk's own contents;
// cross-chunk diffusion is carried by the boundary Plane exchange in Store
// rather than by widening this solver's working set.
type Grid struct {
	SX, SY, SZ int
	Block      []uint8
	Sky        []uint8
}

// NewGrid allocates a zeroed grid for a chunk of the given block dimensions.
func NewGrid(sx, sy, sz int) *Grid {
	n := sx * sy * sz
	return &Grid{SX: sx, SY: sy, SZ: sz, Block: make([]uint8, n), Sky: make([]uint8, n)}
}

func (g *Grid) idx(x, y, z int) int { return (y*g.SZ+z)*g.SX + x }

func (g *Grid) inBounds(x, y, z int) bool {
	return x >= 0 && x < g.SX && y >= 0 && y < g.SY && z >= 0 && z < g.SZ
}

// BlockAt and SkyAt return a cell's light level, or 0 out of bounds.
func (g *Grid) BlockAt(x, y, z int) uint8 {
	if !g.inBounds(x, y, z) {
		return 0
	}
	return g.Block[g.idx(x, y, z)]
}

func (g *Grid) SkyAt(x, y, z int) uint8 {
	if !g.inBounds(x, y, z) {
		return 0
	}
	return g.Sky[g.idx(x, y, z)]
}

type lightQueueEntry struct{ x, y, z int }

// ComputeGrid seeds and flood-fills block-light from emissive blocks and
// sky-light from the open top face downward, then BFS-propagates each
// channel through neighbors that don't block it, attenuating by one level
// per step (§3 LightingStore: "micro-light grid").
func ComputeGrid(buf *voxel.ChunkBuf, reg *blocks.BlockRegistry) *Grid {
	sx, sy, sz := buf.SX, buf.SY, buf.SZ
	g := NewGrid(sx, sy, sz)

	var blockQueue, skyQueue []lightQueueEntry

	for x := 0; x < sx; x++ {
		for z := 0; z < sz; z++ {
			open := true
			for y := sy - 1; y >= 0; y-- {
				b := buf.GetLocal(x, y, z)
				bt := reg.Get(b.ID)
				if open && (bt == nil || !bt.BlocksSkylight) {
					idx := g.idx(x, y, z)
					g.Sky[idx] = MaxLight
					skyQueue = append(skyQueue, lightQueueEntry{x, y, z})
				} else {
					open = false
				}
				if bt != nil && bt.Emission > 0 {
					idx := g.idx(x, y, z)
					if bt.Emission > g.Block[idx] {
						g.Block[idx] = bt.Emission
						blockQueue = append(blockQueue, lightQueueEntry{x, y, z})
					}
				}
			}
		}
	}

	propagate(g, buf, reg, blockQueue, true)
	propagate(g, buf, reg, skyQueue, false)
	return g
}

var neighborOffsets = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

func propagate(g *Grid, buf *voxel.ChunkBuf, reg *blocks.BlockRegistry, queue []lightQueueEntry, isBlockChannel bool) {
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		level := g.BlockAt(e.x, e.y, e.z)
		if !isBlockChannel {
			level = g.SkyAt(e.x, e.y, e.z)
		}
		if level <= 1 {
			continue
		}
		for _, off := range neighborOffsets {
			nx, ny, nz := e.x+off[0], e.y+off[1], e.z+off[2]
			if !g.inBounds(nx, ny, nz) {
				continue
			}
			nb := buf.GetLocal(nx, ny, nz)
			nt := reg.Get(nb.ID)
			if isBlockChannel && nt != nil && !nt.PropagatesBlockLight && nt.Emission == 0 {
				continue
			}
			if !isBlockChannel && nt != nil && nt.BlocksSkylight {
				continue
			}
			idx := g.idx(nx, ny, nz)
			next := level - 1
			if isBlockChannel {
				if next > g.Block[idx] {
					g.Block[idx] = next
					queue = append(queue, lightQueueEntry{nx, ny, nz})
				}
			} else {
				if next > g.Sky[idx] {
					g.Sky[idx] = next
					queue = append(queue, lightQueueEntry{nx, ny, nz})
				}
			}
		}
	}
}

// BordersFrom extracts the six exterior-facing planes of a grid (plus a
// beacon channel, which this solver does not compute and leaves zeroed) for
// publication into a Store (§4.4).
func BordersFrom(g *Grid) *LightBorders {
	lb := NewLightBorders(g.SX, g.SY, g.SZ)
	for x := 0; x < g.SX; x++ {
		for z := 0; z < g.SZ; z++ {
			lb.Block[blocks.FaceTop][x*g.SZ+z] = g.BlockAt(x, g.SY-1, z)
			lb.Sky[blocks.FaceTop][x*g.SZ+z] = g.SkyAt(x, g.SY-1, z)
			lb.Block[blocks.FaceBottom][x*g.SZ+z] = g.BlockAt(x, 0, z)
			lb.Sky[blocks.FaceBottom][x*g.SZ+z] = g.SkyAt(x, 0, z)
		}
	}
	for y := 0; y < g.SY; y++ {
		for z := 0; z < g.SZ; z++ {
			lb.Block[blocks.FaceEast][y*g.SZ+z] = g.BlockAt(g.SX-1, y, z)
			lb.Sky[blocks.FaceEast][y*g.SZ+z] = g.SkyAt(g.SX-1, y, z)
			lb.Block[blocks.FaceWest][y*g.SZ+z] = g.BlockAt(0, y, z)
			lb.Sky[blocks.FaceWest][y*g.SZ+z] = g.SkyAt(0, y, z)
		}
	}
	for x := 0; x < g.SX; x++ {
		for y := 0; y < g.SY; y++ {
			lb.Block[blocks.FaceNorth][x*g.SY+y] = g.BlockAt(x, y, g.SZ-1)
			lb.Sky[blocks.FaceNorth][x*g.SY+y] = g.SkyAt(x, y, g.SZ-1)
			lb.Block[blocks.FaceSouth][x*g.SY+y] = g.BlockAt(x, y, 0)
			lb.Sky[blocks.FaceSouth][x*g.SY+y] = g.SkyAt(x, y, 0)
		}
	}
	return lb
}
