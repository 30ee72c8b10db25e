// Package config loads the YAML-driven block/material table, world
// generator parameters, and biome table that seed the registry and world
// generator at startup (§6). It mirrors the distinction the reference
// engine's serde config draws between a file's on-disk shape and the
// registry's resolved, validated runtime shape: this package only ever
// produces blocks.BlockTypeConfig/blocks.Material/voxel.WorldGenParams
// values, never touching registry internals directly.
package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/nathanial/geist-sub002/internal/blocks"
)

// BlocksFile is the top-level shape of the blocks YAML table.
type BlocksFile struct {
	UnknownBlock string      `yaml:"unknown_block"`
	Blocks       []BlockDef  `yaml:"blocks"`
}

// BlockDef is one block's on-disk definition: a shape key ("cube", "slab",
// "stairs", "pane", "axis_cube", "none") plus optional per-axis material
// selectors and an optional ordered state schema.
type BlockDef struct {
	Name           string              `yaml:"name"`
	ID             *uint16             `yaml:"id"`
	Solid          *bool               `yaml:"solid"`
	BlocksSkylight bool                `yaml:"blocks_skylight"`
	Propagates     bool                `yaml:"propagates_block_light"`
	Emission       uint8               `yaml:"emission"`
	Shape          string              `yaml:"shape"`
	HalfFrom       string              `yaml:"half_from"`
	FacingFrom     string              `yaml:"facing_from"`
	AxisFrom       string              `yaml:"axis_from"`
	MaterialAll    string              `yaml:"material"`
	MaterialTop    MaterialSelectorDef `yaml:"material_top"`
	MaterialBottom MaterialSelectorDef `yaml:"material_bottom"`
	MaterialSide   MaterialSelectorDef `yaml:"material_side"`
	StateSchema    map[string][]string `yaml:"state_schema"`
	SchemaOrder    []string            `yaml:"state_schema_order"`
	DontOccludeSame bool               `yaml:"dont_occlude_same"`
}

// MaterialSelectorDef is one face's on-disk material selector: either a
// literal key, or a by-property lookup table.
type MaterialSelectorDef struct {
	Literal string            `yaml:"literal"`
	By      string            `yaml:"by"`
	Choices map[string]string `yaml:"choices"`
}

func (d MaterialSelectorDef) resolve(fallback string) blocks.MaterialSelector {
	if d.By != "" {
		return blocks.MaterialSelector{ByProp: d.By, Choices: d.Choices}
	}
	if d.Literal != "" {
		return blocks.MaterialSelector{Literal: d.Literal}
	}
	return blocks.MaterialSelector{Literal: fallback}
}

// LoadBlocksFile parses a blocks YAML table into BlockTypeConfig entries
// plus the configured unknown-block fallback name, ready for
// blocks.BuildRegistry.
func LoadBlocksFile(data []byte) ([]blocks.BlockTypeConfig, string, error) {
	var file BlocksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("config: parse blocks file: %w", err)
	}

	cfgs := make([]blocks.BlockTypeConfig, 0, len(file.Blocks))
	for _, b := range file.Blocks {
		schema := blocks.NewPropertySchema()
		order := b.SchemaOrder
		if len(order) == 0 {
			// state_schema_order wasn't given: fall back to a deterministic
			// (sorted) property order rather than map iteration order, so
			// PackState encodings don't vary run-to-run.
			for name := range b.StateSchema {
				order = append(order, name)
			}
			sort.Strings(order)
		}
		for _, name := range order {
			schema.AddProperty(name, b.StateSchema[name])
		}

		var id *blocks.ID
		if b.ID != nil {
			v := blocks.ID(*b.ID)
			id = &v
		}

		cfg := blocks.BlockTypeConfig{
			ID:             id,
			Name:           b.Name,
			Shape:          shapeFromString(b.Shape),
			HalfProp:       b.HalfFrom,
			FacingProp:     b.FacingFrom,
			BlocksSkylight: b.BlocksSkylight,
			Propagates:     b.Propagates,
			Emission:       b.Emission,
			MaterialTop:    b.MaterialTop.resolve(b.MaterialAll),
			MaterialBottom: b.MaterialBottom.resolve(b.MaterialAll),
			MaterialSide:   b.MaterialSide.resolve(b.MaterialAll),
			Seam:           blocks.SeamPolicy{DontOccludeSame: b.DontOccludeSame},
			Schema:         schema,
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, file.UnknownBlock, nil
}

func shapeFromString(s string) blocks.Shape {
	switch s {
	case "", "cube":
		return blocks.ShapeCube
	case "axis_cube":
		return blocks.ShapeAxisCube
	case "slab":
		return blocks.ShapeSlab
	case "stairs":
		return blocks.ShapeStairs
	case "pane":
		return blocks.ShapePane
	case "none":
		return blocks.ShapeNone
	default:
		return blocks.ShapeCube
	}
}

// MaterialsFile is the top-level shape of the materials YAML table.
type MaterialsFile struct {
	Materials map[string]MaterialDef `yaml:"materials"`
}

// MaterialDef is one material's on-disk definition: either a bare list of
// texture candidates, or the detailed {textures, render_tag} form
// (mirroring the original config's untagged bare-list/detailed material
// entry).
type MaterialDef struct {
	Textures  []string
	RenderTag string
}

// UnmarshalYAML accepts either a bare texture-candidate sequence or the
// detailed mapping form, trying the former first since it has no keys to
// disambiguate on.
func (d *MaterialDef) UnmarshalYAML(value *yaml.Node) error {
	var bare []string
	if err := value.Decode(&bare); err == nil {
		d.Textures = bare
		return nil
	}
	var detailed struct {
		Textures  []string `yaml:"textures"`
		RenderTag string   `yaml:"render_tag"`
	}
	if err := value.Decode(&detailed); err != nil {
		return err
	}
	d.Textures = detailed.Textures
	d.RenderTag = detailed.RenderTag
	return nil
}

// LoadMaterialsFile parses a materials YAML table into a MaterialCatalog.
func LoadMaterialsFile(data []byte) (*blocks.MaterialCatalog, error) {
	var file MaterialsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse materials file: %w", err)
	}
	entries := make(map[string]blocks.Material, len(file.Materials))
	for key, def := range file.Materials {
		entries[key] = blocks.Material{TextureCandidates: def.Textures, RenderTag: def.RenderTag}
	}
	return blocks.NewMaterialCatalog(entries), nil
}
