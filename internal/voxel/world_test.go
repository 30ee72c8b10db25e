package voxel

import (
	"testing"

	"github.com/nathanial/geist-sub002/internal/blocks"
)

func testRegistry(t *testing.T) *blocks.BlockRegistry {
	t.Helper()
	mats := blocks.NewMaterialCatalog(map[string]blocks.Material{
		"stone": {TextureCandidates: []string{"stone.png"}},
		"dirt":  {TextureCandidates: []string{"dirt.png"}},
		"grass": {TextureCandidates: []string{"grass.png"}},
		"sand":  {TextureCandidates: []string{"sand.png"}},
		"water": {TextureCandidates: []string{"water.png"}},
		"snow":  {TextureCandidates: []string{"snow.png"}},
		"glass": {TextureCandidates: []string{"glass.png"}},
		"glow":  {TextureCandidates: []string{"glow.png"}},
	})
	names := []string{"air", "stone", "dirt", "grass", "sand", "water", "snow_block", "glass", "glowstone"}
	cfgs := make([]blocks.BlockTypeConfig, 0, len(names))
	for _, n := range names {
		shape := blocks.ShapeCube
		mat := blocks.MaterialSelector{Literal: "stone"}
		switch n {
		case "air":
			shape = blocks.ShapeNone
		case "dirt":
			mat = blocks.MaterialSelector{Literal: "dirt"}
		case "grass":
			mat = blocks.MaterialSelector{Literal: "grass"}
		case "sand":
			mat = blocks.MaterialSelector{Literal: "sand"}
		case "water":
			mat = blocks.MaterialSelector{Literal: "water"}
		case "snow_block":
			mat = blocks.MaterialSelector{Literal: "snow"}
		case "glass":
			mat = blocks.MaterialSelector{Literal: "glass"}
		case "glowstone":
			mat = blocks.MaterialSelector{Literal: "glow"}
		}
		cfgs = append(cfgs, blocks.BlockTypeConfig{
			Name:           n,
			Shape:          shape,
			MaterialTop:    mat,
			MaterialBottom: mat,
			MaterialSide:   mat,
			Schema:         blocks.NewPropertySchema(),
		})
	}
	reg, err := blocks.BuildRegistry(cfgs, mats, "air")
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	return reg
}

func testParams() *WorldGenParams {
	return &WorldGenParams{
		Seed:              1,
		HeightFreq:        1.0 / 128.0,
		MinYRatio:         0.3,
		MaxYRatio:         0.7,
		WorldHeight:       256,
		SnowAltitude:       220,
		SandAltitude:       70,
		WaterEnabled:       true,
		WaterLevelRatio:    0.25,
		TopsoilThickness:   3,
		SubNearName:        "dirt",
		SubDeepName:        "stone",
		TreeDensity:        0,
		TrunkMinHeight:     4,
		TrunkMaxHeight:     6,
		LeafRadius:         2,
		CaveEnabled:        false,
		CaveThreshold:       0.6,
		CaveMinY:            1,
		CaveSurfaceMargin:   4,
		FlatMode:             false,
		TowerEnabled:         false,
	}
}

func testWorld(t *testing.T) *World {
	t.Helper()
	return NewWorld(testRegistry(t), testParams(), 512, 512, 256, 256, nil)
}

func TestBlockAtRuntimeDeterministic(t *testing.T) {
	w := testWorld(t)
	a := w.BlockAtRuntime(100, 50, 200)
	b := w.BlockAtRuntime(100, 50, 200)
	if a != b {
		t.Fatalf("expected deterministic sampling, got %+v then %+v", a, b)
	}
}

func TestBlockAtRuntimeAirAboveHeight(t *testing.T) {
	w := testWorld(t)
	top := w.BlockAtRuntime(10, 255, 10)
	airID := w.Registry.ResolveName("air").ID
	if top.ID != airID {
		t.Fatalf("expected air at y=255, got id=%d", top.ID)
	}
}

func TestFlatModeOverridesPipeline(t *testing.T) {
	params := testParams()
	params.FlatMode = true
	params.FlatThickness = 5
	reg := testRegistry(t)
	w := NewWorld(reg, params, 512, 512, 256, 256, nil)

	stoneID := reg.ResolveName("stone").ID
	airID := reg.ResolveName("air").ID

	if got := w.BlockAtRuntime(3, 2, 3).ID; got != stoneID {
		t.Fatalf("flat mode below thickness: got id=%d, want stone", got)
	}
	if got := w.BlockAtRuntime(3, 10, 3).ID; got != airID {
		t.Fatalf("flat mode above thickness: got id=%d, want air", got)
	}
}

func TestWaterFillsBelowWaterLevelInAir(t *testing.T) {
	w := testWorld(t)
	waterLevel := w.Params().WaterLevel()
	got := w.applyWaterFill(w.Params(), "air", waterLevel-1, waterLevel)
	if got != "water" {
		t.Fatalf("expected water fill below water level, got %q", got)
	}
	got = w.applyWaterFill(w.Params(), "stone", waterLevel-1, waterLevel)
	if got != "stone" {
		t.Fatalf("water fill must not override solid blocks, got %q", got)
	}
}

// TestSetParamsInvalidatesTileCache covers §8 property 10 end-to-end
// through World.SetParams.
func TestSetParamsInvalidatesTileCache(t *testing.T) {
	w := testWorld(t)
	ctx := NewGenCtx(w.Params())
	w.PrepareHeightTile(ctx, 0, 0, 4, 4)
	if _, ok := w.tiles.Get(ctx.Tile.Key); !ok {
		t.Fatalf("expected tile cached after PrepareHeightTile")
	}

	next := testParams()
	next.Seed = w.Params().Seed + 1
	w.SetParams(next)

	if _, ok := w.tiles.Get(ctx.Tile.Key); ok {
		t.Fatalf("expected tile cache invalidated after SetParams bumped the revision")
	}
}
