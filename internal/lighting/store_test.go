package lighting

import (
	"testing"

	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

func fillPlane(p Plane, v uint8) {
	for i := range p {
		p[i] = v
	}
}

// TestNeighborBordersMapping covers §8 property 8: each neighbor's plane
// facing us must be consumed as our opposite face, for all four horizontal
// neighbors.
func TestNeighborBordersMapping(t *testing.T) {
	const sx, sy, sz = 2, 2, 2
	s := NewStore(sx, sy, sz)
	center := voxel.ChunkCoord{}

	west := NewLightBorders(sx, sy, sz)
	fillPlane(west.Block[blocks.FaceEast], 11) // west neighbor's +X faces our -X
	s.UpdateBorders(voxel.ChunkCoord{CX: -1}, west)

	east := NewLightBorders(sx, sy, sz)
	fillPlane(east.Block[blocks.FaceWest], 22)
	s.UpdateBorders(voxel.ChunkCoord{CX: 1}, east)

	south := NewLightBorders(sx, sy, sz)
	fillPlane(south.Block[blocks.FaceNorth], 33)
	s.UpdateBorders(voxel.ChunkCoord{CZ: -1}, south)

	north := NewLightBorders(sx, sy, sz)
	fillPlane(north.Block[blocks.FaceSouth], 44)
	s.UpdateBorders(voxel.ChunkCoord{CZ: 1}, north)

	nb := s.GetNeighborBorders(center)
	if nb.Block[blocks.FaceWest][0] != 11 {
		t.Fatalf("our -X should reflect the west neighbor's +X plane, got %d", nb.Block[blocks.FaceWest][0])
	}
	if nb.Block[blocks.FaceEast][0] != 22 {
		t.Fatalf("our +X should reflect the east neighbor's -X plane, got %d", nb.Block[blocks.FaceEast][0])
	}
	if nb.Block[blocks.FaceSouth][0] != 33 {
		t.Fatalf("our -Z should reflect the south neighbor's +Z plane, got %d", nb.Block[blocks.FaceSouth][0])
	}
	if nb.Block[blocks.FaceNorth][0] != 44 {
		t.Fatalf("our +Z should reflect the north neighbor's -Z plane, got %d", nb.Block[blocks.FaceNorth][0])
	}
	if nb.Block[blocks.FaceTop] != nil || nb.Block[blocks.FaceBottom] != nil {
		t.Fatalf("unpublished vertical neighbors must yield nil planes")
	}
}

func TestUpdateBordersReportsChanged(t *testing.T) {
	const sx, sy, sz = 2, 2, 2
	s := NewStore(sx, sy, sz)
	owner := voxel.ChunkCoord{}

	a := NewLightBorders(sx, sy, sz)
	if changed := s.UpdateBorders(owner, a); !changed {
		t.Fatalf("first publication must report changed")
	}

	b := NewLightBorders(sx, sy, sz)
	if changed := s.UpdateBorders(owner, b); changed {
		t.Fatalf("identical all-zero republication must report unchanged")
	}

	fillPlane(b.Sky[blocks.FaceTop], 5)
	if changed := s.UpdateBorders(owner, b); !changed {
		t.Fatalf("content change must report changed")
	}
}

func TestClearChunkDropsPublication(t *testing.T) {
	const sx, sy, sz = 2, 2, 2
	s := NewStore(sx, sy, sz)
	owner := voxel.ChunkCoord{CX: 1}
	s.UpdateBorders(owner, NewLightBorders(sx, sy, sz))
	s.ClearChunk(owner)

	nb := s.GetNeighborBorders(voxel.ChunkCoord{})
	if nb.Block[blocks.FaceEast] != nil {
		t.Fatalf("expected cleared neighbor to yield nil plane")
	}
}
