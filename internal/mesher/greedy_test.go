package mesher

import (
	"testing"

	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/lighting"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

func mesherTestRegistry(t *testing.T) *blocks.BlockRegistry {
	t.Helper()
	mats := blocks.NewMaterialCatalog(map[string]blocks.Material{
		"stone": {TextureCandidates: []string{"stone.png"}},
		"oak":   {TextureCandidates: []string{"oak.png"}},
	})
	slabSchema := blocks.NewPropertySchema().AddProperty("half", []string{"bottom", "top"})
	cfgs := []blocks.BlockTypeConfig{
		{Name: "air", Shape: blocks.ShapeNone, Schema: blocks.NewPropertySchema()},
		{Name: "stone", Shape: blocks.ShapeCube,
			MaterialTop: blocks.MaterialSelector{Literal: "stone"}, MaterialBottom: blocks.MaterialSelector{Literal: "stone"}, MaterialSide: blocks.MaterialSelector{Literal: "stone"},
			Schema: blocks.NewPropertySchema()},
		{Name: "oak_slab", Shape: blocks.ShapeSlab, HalfProp: "half",
			MaterialTop: blocks.MaterialSelector{Literal: "oak"}, MaterialBottom: blocks.MaterialSelector{Literal: "oak"}, MaterialSide: blocks.MaterialSelector{Literal: "oak"},
			Schema: slabSchema},
	}
	reg, err := blocks.BuildRegistry(cfgs, mats, "air")
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	return reg
}

func newTestSource(buf *voxel.ChunkBuf, reg *blocks.BlockRegistry) *BlockSource {
	return &BlockSource{Buf: buf, Light: lighting.ComputeGrid(buf, reg)}
}

// TestGreedyMergesFlatSlab covers §4.5 point 2: a flat slab of identical
// top faces must merge into a single quad, not one per block.
func TestGreedyMergesFlatSlab(t *testing.T) {
	reg := mesherTestRegistry(t)
	stone := reg.ResolveName("stone")
	buf := voxel.NewChunkBuf(voxel.ChunkCoord{}, 4, 1, 4)
	for x := 0; x < 4; x++ {
		for z := 0; z < 4; z++ {
			buf.SetLocal(x, 0, z, stone)
		}
	}
	src := newTestSource(buf, reg)
	sink := NewMapSink()
	BuildMesh(reg, src, sink, 1.0, 0)

	stoneMat, _ := reg.Materials().GetID("stone")
	build := sink.Builds()[stoneMat]
	if build == nil {
		t.Fatalf("expected stone material build")
	}
	topQuads := 0
	for _, v := range build.Vertices {
		if v.Normal == [3]float32{0, 1, 0} {
			topQuads++
		}
	}
	// 4 vertices make one top quad; a fully merged 4x4 top face is one quad.
	if topQuads != 4 {
		t.Fatalf("expected one merged top quad (4 vertices), got %d top-facing vertices", topQuads)
	}
}

// TestSharedFaceBetweenSolidsIsHidden covers §4.5 point 1: two adjacent
// solid cube blocks must not emit the face between them.
func TestSharedFaceBetweenSolidsIsHidden(t *testing.T) {
	reg := mesherTestRegistry(t)
	stone := reg.ResolveName("stone")
	buf := voxel.NewChunkBuf(voxel.ChunkCoord{}, 2, 1, 1)
	buf.SetLocal(0, 0, 0, stone)
	buf.SetLocal(1, 0, 0, stone)
	src := newTestSource(buf, reg)
	sink := NewMapSink()
	BuildMesh(reg, src, sink, 1.0, 0)

	stoneMat, _ := reg.Materials().GetID("stone")
	build := sink.Builds()[stoneMat]
	for _, v := range build.Vertices {
		if v.Normal == [3]float32{1, 0, 0} && v.Pos[0] == 1 {
			t.Fatalf("shared internal face at x=1 must not be emitted")
		}
		if v.Normal == [3]float32{-1, 0, 0} && v.Pos[0] == 1 {
			t.Fatalf("shared internal face at x=1 must not be emitted")
		}
	}
}

// TestMicroEmitsSlabTopFace covers §4.5 point 3: a bottom-half slab must
// emit its top face at y=0.5, not y=1.
func TestMicroEmitsSlabTopFace(t *testing.T) {
	reg := mesherTestRegistry(t)
	slab := reg.ResolveName("oak_slab")
	buf := voxel.NewChunkBuf(voxel.ChunkCoord{}, 1, 1, 1)
	buf.SetLocal(0, 0, 0, slab)
	src := newTestSource(buf, reg)
	sink := NewMapSink()
	BuildMesh(reg, src, sink, 1.0, 0)

	oakMat, _ := reg.Materials().GetID("oak")
	build := sink.Builds()[oakMat]
	if build == nil {
		t.Fatalf("expected oak material build for the slab")
	}
	foundHalfHeightTop := false
	for _, v := range build.Vertices {
		if v.Normal == [3]float32{0, 1, 0} && v.Pos[1] == 0.5 {
			foundHalfHeightTop = true
		}
	}
	if !foundHalfHeightTop {
		t.Fatalf("expected the slab's top face at y=0.5")
	}
}

// TestLightFloorAppliesToDarkFaces covers §4.5 point 5.
func TestLightFloorAppliesToDarkFaces(t *testing.T) {
	reg := mesherTestRegistry(t)
	stone := reg.ResolveName("stone")
	// Sky brightness 0 zeroes the sky channel, and there is no emitter, so
	// block-light is also zero: every face is dark before the floor.
	buf := voxel.NewChunkBuf(voxel.ChunkCoord{}, 3, 3, 1)
	buf.SetLocal(1, 2, 0, stone) // roof
	buf.SetLocal(1, 0, 0, stone) // the block under test
	src := newTestSource(buf, reg)
	sink := NewMapSink()
	BuildMesh(reg, src, sink, 0.0, 18)

	stoneMat, _ := reg.Materials().GetID("stone")
	build := sink.Builds()[stoneMat]
	for _, v := range build.Vertices {
		if v.RGBA[0] < 18 {
			t.Fatalf("expected the visual light floor of 18 applied, got %d", v.RGBA[0])
		}
	}
}
