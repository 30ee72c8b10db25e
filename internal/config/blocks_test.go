package config

import (
	"testing"

	"github.com/nathanial/geist-sub002/internal/blocks"
)

const testBlocksYAML = `
unknown_block: stone
blocks:
  - name: air
    shape: none
  - name: stone
    material: stone
  - name: oak_slab
    shape: slab
    half_from: half
    material: oak
    state_schema:
      half: [bottom, top]
    state_schema_order: [half]
`

const testMaterialsYAML = `
materials:
  stone:
    textures: [stone.png]
  oak:
    textures: [oak.png]
`

func TestLoadBlocksFileResolvesShapesAndMaterials(t *testing.T) {
	mats, err := LoadMaterialsFile([]byte(testMaterialsYAML))
	if err != nil {
		t.Fatalf("LoadMaterialsFile: %v", err)
	}
	cfgs, unknown, err := LoadBlocksFile([]byte(testBlocksYAML))
	if err != nil {
		t.Fatalf("LoadBlocksFile: %v", err)
	}
	if unknown != "stone" {
		t.Fatalf("unknown_block = %q, want stone", unknown)
	}
	reg, err := blocks.BuildRegistry(cfgs, mats, unknown)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}

	slab := reg.ResolveName("oak_slab")
	bt := reg.Get(slab.ID)
	if bt.Shape != blocks.ShapeSlab {
		t.Fatalf("expected oak_slab to resolve to ShapeSlab, got %v", bt.Shape)
	}
	if bt.HalfProp != "half" {
		t.Fatalf("expected half_from to populate HalfProp, got %q", bt.HalfProp)
	}

	// An unrecognized name should fall back to the configured unknown block.
	missing := reg.ResolveName("does_not_exist")
	if missing.ID != reg.ResolveName("stone").ID {
		t.Fatalf("expected unresolved name to fall back to the unknown block")
	}
}

func TestLoadMaterialsFileAssignsDeterministicIDs(t *testing.T) {
	cat, err := LoadMaterialsFile([]byte(testMaterialsYAML))
	if err != nil {
		t.Fatalf("LoadMaterialsFile: %v", err)
	}
	id, ok := cat.GetID("oak")
	if !ok || id == 0 {
		t.Fatalf("expected oak to resolve to a non-sentinel material ID")
	}
}

const testBareMaterialsYAML = `
materials:
  stone: [stone.png, stone_alt.png]
`

func TestLoadMaterialsFileAcceptsBareTextureList(t *testing.T) {
	cat, err := LoadMaterialsFile([]byte(testBareMaterialsYAML))
	if err != nil {
		t.Fatalf("LoadMaterialsFile: %v", err)
	}
	if _, ok := cat.GetID("stone"); !ok {
		t.Fatalf("expected a bare texture-list material entry to resolve")
	}
}

const testUnorderedSchemaYAML = `
unknown_block: stone
blocks:
  - name: stone
    material: stone
  - name: fence
    material: stone
    state_schema:
      waterlogged: [false, true]
      facing: [north, south, east, west]
`

func TestLoadBlocksFileSortsStateSchemaWhenOrderOmitted(t *testing.T) {
	cfgs, _, err := LoadBlocksFile([]byte(testUnorderedSchemaYAML))
	if err != nil {
		t.Fatalf("LoadBlocksFile: %v", err)
	}
	var fence *blocks.BlockTypeConfig
	for i := range cfgs {
		if cfgs[i].Name == "fence" {
			fence = &cfgs[i]
		}
	}
	if fence == nil {
		t.Fatalf("expected a fence block config")
	}
	got := fence.Schema.Properties()
	want := []string{"facing", "waterlogged"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected sorted property order %v, got %v", want, got)
	}
}
