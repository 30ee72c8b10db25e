// Package lighting implements the per-chunk light grids (skylight,
// block-light, beacon-light/direction) and the boundary-plane exchange
// that lets neighboring chunks see each other's edge lighting without
// holding a pointer to one another (§4.4).
package lighting

import (
	"sync"

	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

// Plane is one face's worth of light samples, flattened over the two axes
// orthogonal to that face.
type Plane []uint8

// FacePlanes holds one plane per cube face, indexed by blocks.Face.
type FacePlanes [6]Plane

// LightBorders is one chunk's exterior-facing planes for every light
// channel (§4.4: "block", "sky", "beacon", "beacon-dir"). BeaconDir
// planes carry a packed direction code per cell rather than a float
// vector, since the mesher only needs a discrete direction to orient its
// beacon shading.
type LightBorders struct {
	Block     FacePlanes
	Sky       FacePlanes
	Beacon    FacePlanes
	BeaconDir FacePlanes
}

// NewLightBorders allocates zeroed planes sized for a chunk of the given
// block dimensions.
func NewLightBorders(sx, sy, sz int) *LightBorders {
	mk := func() FacePlanes {
		return FacePlanes{
			blocks.FaceTop:    make(Plane, sx*sz),
			blocks.FaceBottom: make(Plane, sx*sz),
			blocks.FaceEast:   make(Plane, sy*sz),
			blocks.FaceWest:   make(Plane, sy*sz),
			blocks.FaceNorth:  make(Plane, sx*sy),
			blocks.FaceSouth:  make(Plane, sx*sy),
		}
	}
	return &LightBorders{Block: mk(), Sky: mk(), Beacon: mk(), BeaconDir: mk()}
}

func oppositeFace(f blocks.Face) blocks.Face {
	switch f {
	case blocks.FaceTop:
		return blocks.FaceBottom
	case blocks.FaceBottom:
		return blocks.FaceTop
	case blocks.FaceEast:
		return blocks.FaceWest
	case blocks.FaceWest:
		return blocks.FaceEast
	case blocks.FaceNorth:
		return blocks.FaceSouth
	default:
		return blocks.FaceNorth
	}
}

func faceForOffset(dx, dy, dz int32) blocks.Face {
	switch {
	case dx < 0:
		return blocks.FaceWest
	case dx > 0:
		return blocks.FaceEast
	case dy < 0:
		return blocks.FaceBottom
	case dy > 0:
		return blocks.FaceTop
	case dz < 0:
		return blocks.FaceSouth
	default:
		return blocks.FaceNorth
	}
}

// NeighborBorders is the set of planes assembled for one chunk from its
// six neighbors; a nil entry means that neighbor has not yet published
// anything for that face (§4.4).
type NeighborBorders struct {
	Block     [6]Plane
	Sky       [6]Plane
	Beacon    [6]Plane
	BeaconDir [6]Plane
}

// Store is the driver-owned table of per-chunk published light borders.
// Each chunk's published LightBorders is stored once; NeighborBorders are
// assembled on demand per the ownership rule in §4.4 (a neighbor's plane
// facing us is consumed as our opposite face).
type Store struct {
	mu   sync.RWMutex
	sx, sy, sz int

	published map[voxel.ChunkCoord]*LightBorders
}

// NewStore builds an empty lighting store for chunks of the given block
// dimensions.
func NewStore(sx, sy, sz int) *Store {
	return &Store{sx: sx, sy: sy, sz: sz, published: make(map[voxel.ChunkCoord]*LightBorders)}
}

// UpdateBorders publishes owner's computed LightBorders, replacing
// whatever was previously published for that chunk. changed reports
// whether the new planes differ byte-for-byte from the prior publication
// (§4.4: neighbors only need re-meshing when content actually moved).
func (s *Store) UpdateBorders(owner voxel.ChunkCoord, borders *LightBorders) (changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.published[owner]
	s.published[owner] = borders
	if !had {
		return true
	}
	return !facePlanesEqual(prev.Block, borders.Block) ||
		!facePlanesEqual(prev.Sky, borders.Sky) ||
		!facePlanesEqual(prev.Beacon, borders.Beacon) ||
		!facePlanesEqual(prev.BeaconDir, borders.BeaconDir)
}

func facePlanesEqual(a, b FacePlanes) bool {
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// ClearChunk removes a chunk's published borders (called on eviction).
func (s *Store) ClearChunk(c voxel.ChunkCoord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.published, c)
}

// GetNeighborBorders assembles the six opposing planes for coord from its
// six neighbors' published LightBorders; a missing neighbor (not yet
// published, or evicted) yields a nil plane for that face (§4.4).
func (s *Store) GetNeighborBorders(coord voxel.ChunkCoord) *NeighborBorders {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nb := &NeighborBorders{}
	offsets := [6][3]int32{
		{0, 0, -1}, // -Z neighbor: its +Z plane becomes our -Z
		{0, 0, 1},  // +Z neighbor: its -Z plane becomes our +Z
		{-1, 0, 0}, // -X neighbor: its +X plane becomes our -X
		{1, 0, 0},  // +X neighbor: its -X plane becomes our +X
		{0, -1, 0}, // -Y neighbor: its +Y plane becomes our -Y
		{0, 1, 0},  // +Y neighbor: its -Y plane becomes our +Y
	}
	for _, off := range offsets {
		dx, dy, dz := off[0], off[1], off[2]
		ourFace := faceForOffset(dx, dy, dz)
		neighborCoord := coord.Offset(dx, dy, dz)
		pub, ok := s.published[neighborCoord]
		if !ok {
			continue
		}
		neighborFace := oppositeFace(ourFace)
		nb.Block[ourFace] = pub.Block[neighborFace]
		nb.Sky[ourFace] = pub.Sky[neighborFace]
		nb.Beacon[ourFace] = pub.Beacon[neighborFace]
		nb.BeaconDir[ourFace] = pub.BeaconDir[neighborFace]
	}
	return nb
}
