package voxel

// WorldGenParams is the hot-reloadable snapshot of world generator tuning
// (§6 "World generator parameters" table). It is immutable once published;
// readers always see a complete, self-consistent snapshot via pointer-swap
// (see World.Params / World.SetParams).
type WorldGenParams struct {
	Seed int64

	HeightFreq float64
	MinYRatio  float64
	MaxYRatio  float64
	WorldHeight int32

	SnowAltitude int32
	SandAltitude int32

	WaterEnabled bool
	WaterLevelRatio float64

	TopsoilThickness int32
	SubNearName      string
	SubDeepName      string

	TreeDensity    float64
	TrunkMinHeight int32
	TrunkMaxHeight int32
	LeafRadius     int32

	CaveEnabled   bool
	CaveThreshold float64
	CaveMinY      int32
	CaveSurfaceMargin int32

	FlatMode          bool
	FlatThickness     int32

	TowerEnabled bool

	Biomes *BiomeTable
}

// WaterLevel returns the absolute water-level Y for this params snapshot.
func (p *WorldGenParams) WaterLevel() int32 {
	return int32(float64(p.WorldHeight) * p.WaterLevelRatio)
}

// HeightRange returns the absolute min/max Y the height stage may produce.
func (p *WorldGenParams) HeightRange() (minY, maxY int32) {
	return int32(float64(p.WorldHeight) * p.MinYRatio), int32(float64(p.WorldHeight) * p.MaxYRatio)
}

// BiomeDef is one entry of the biome table (§6).
type BiomeDef struct {
	Name             string
	TempMin, TempMax float64
	MoistureMin, MoistureMax float64
	TopBlock         string
	TreeDensity      *float64
	SpeciesWeights   map[string]float64
}

// BiomeTable configures the 2D temperature/moisture biome classification.
type BiomeTable struct {
	TempFreq      float64
	MoistureFreq  float64
	ScaleX, ScaleZ float64
	DebugPackAll  bool
	DebugCellSize int32
	Defs          []BiomeDef
}

// Select returns the first BiomeDef whose temp/moisture ranges contain
// (temp, moisture), or the table's last entry as a catch-all default.
func (t *BiomeTable) Select(temp, moisture float64) *BiomeDef {
	if t == nil || len(t.Defs) == 0 {
		return nil
	}
	for i := range t.Defs {
		d := &t.Defs[i]
		if temp >= d.TempMin && temp <= d.TempMax && moisture >= d.MoistureMin && moisture <= d.MoistureMax {
			return d
		}
	}
	return &t.Defs[len(t.Defs)-1]
}
