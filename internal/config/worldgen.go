package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nathanial/geist-sub002/internal/voxel"
)

// WorldGenFile is the on-disk shape of the world generator parameters
// table (§6 "World generator parameters"), plus its nested biome table.
// Field names mirror the teacher's WorldGenSettings naming (caves) where
// the concepts coincide.
type WorldGenFile struct {
	Seed int64 `yaml:"seed"`

	HeightFreq  float64 `yaml:"height_freq"`
	MinYRatio   float64 `yaml:"min_y_ratio"`
	MaxYRatio   float64 `yaml:"max_y_ratio"`
	WorldHeight int32   `yaml:"world_height"`

	SnowAltitude int32 `yaml:"snow_altitude"`
	SandAltitude int32 `yaml:"sand_altitude"`

	WaterEnabled    bool    `yaml:"water_enabled"`
	WaterLevelRatio float64 `yaml:"water_level_ratio"`

	TopsoilThickness int32  `yaml:"topsoil_thickness"`
	SubNearName      string `yaml:"sub_near"`
	SubDeepName      string `yaml:"sub_deep"`

	TreeDensity    float64 `yaml:"tree_density"`
	TrunkMinHeight int32   `yaml:"trunk_min_height"`
	TrunkMaxHeight int32   `yaml:"trunk_max_height"`
	LeafRadius     int32   `yaml:"leaf_radius"`

	CaveEnabled       bool    `yaml:"caves"`
	CaveThreshold     float64 `yaml:"cave_threshold"`
	CaveMinY          int32   `yaml:"cave_min_y"`
	CaveSurfaceMargin int32   `yaml:"cave_surface_margin"`

	FlatMode      bool  `yaml:"flat_mode"`
	FlatThickness int32 `yaml:"flat_thickness"`

	TowerEnabled bool `yaml:"tower_enabled"`

	Biomes BiomeTableFile `yaml:"biomes"`
}

// BiomeTableFile is the on-disk biome classification table.
type BiomeTableFile struct {
	TempFreq      float64        `yaml:"temp_freq"`
	MoistureFreq  float64        `yaml:"moisture_freq"`
	ScaleX        float64        `yaml:"scale_x"`
	ScaleZ        float64        `yaml:"scale_z"`
	DebugPackAll  bool           `yaml:"debug_pack_all"`
	DebugCellSize int32          `yaml:"debug_cell_size"`
	Defs          []BiomeDefFile `yaml:"defs"`
}

// BiomeDefFile is one on-disk biome entry.
type BiomeDefFile struct {
	Name           string             `yaml:"name"`
	TempMin        float64            `yaml:"temp_min"`
	TempMax        float64            `yaml:"temp_max"`
	MoistureMin    float64            `yaml:"moisture_min"`
	MoistureMax    float64            `yaml:"moisture_max"`
	TopBlock       string             `yaml:"top_block"`
	TreeDensity    *float64           `yaml:"tree_density"`
	SpeciesWeights map[string]float64 `yaml:"species_weights"`
}

// LoadWorldGenFile parses a world generator parameters YAML document into
// a voxel.WorldGenParams snapshot, ready for voxel.NewWorld or
// World.SetParams.
func LoadWorldGenFile(data []byte) (*voxel.WorldGenParams, error) {
	var file WorldGenFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse world generator file: %w", err)
	}

	defs := make([]voxel.BiomeDef, 0, len(file.Biomes.Defs))
	for _, d := range file.Biomes.Defs {
		defs = append(defs, voxel.BiomeDef{
			Name:           d.Name,
			TempMin:        d.TempMin,
			TempMax:        d.TempMax,
			MoistureMin:    d.MoistureMin,
			MoistureMax:    d.MoistureMax,
			TopBlock:       d.TopBlock,
			TreeDensity:    d.TreeDensity,
			SpeciesWeights: d.SpeciesWeights,
		})
	}

	return &voxel.WorldGenParams{
		Seed:              file.Seed,
		HeightFreq:        file.HeightFreq,
		MinYRatio:         file.MinYRatio,
		MaxYRatio:         file.MaxYRatio,
		WorldHeight:       file.WorldHeight,
		SnowAltitude:      file.SnowAltitude,
		SandAltitude:      file.SandAltitude,
		WaterEnabled:      file.WaterEnabled,
		WaterLevelRatio:   file.WaterLevelRatio,
		TopsoilThickness:  file.TopsoilThickness,
		SubNearName:       file.SubNearName,
		SubDeepName:       file.SubDeepName,
		TreeDensity:       file.TreeDensity,
		TrunkMinHeight:    file.TrunkMinHeight,
		TrunkMaxHeight:    file.TrunkMaxHeight,
		LeafRadius:        file.LeafRadius,
		CaveEnabled:       file.CaveEnabled,
		CaveThreshold:     file.CaveThreshold,
		CaveMinY:          file.CaveMinY,
		CaveSurfaceMargin: file.CaveSurfaceMargin,
		FlatMode:          file.FlatMode,
		FlatThickness:     file.FlatThickness,
		TowerEnabled:      file.TowerEnabled,
		Biomes: &voxel.BiomeTable{
			TempFreq:      file.Biomes.TempFreq,
			MoistureFreq:  file.Biomes.MoistureFreq,
			ScaleX:        file.Biomes.ScaleX,
			ScaleZ:        file.Biomes.ScaleZ,
			DebugPackAll:  file.Biomes.DebugPackAll,
			DebugCellSize: file.Biomes.DebugCellSize,
			Defs:          defs,
		},
	}, nil
}
