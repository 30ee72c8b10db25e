package voxel

import (
	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/geom"
	"github.com/spaolacci/murmur3"
)

const (
	towerOuterRadius = 12
	towerInnerRadius = 7
	towerTop         = 4096
)

// sampleColumn runs one voxel through the full staged pipeline (§4.2):
// block precheck, tower landmark, height, surface, water, caves/features,
// trees. Each stage is timed into ctx.Profiler.
func (w *World) sampleColumn(ctx *GenCtx, wx, wy, wz int32) blocks.Block {
	air := blocks.AirBlock
	params := ctx.Params

	precheckDone := ctx.Profiler.Track(StageBlockPrecheck)
	if wy < 0 {
		precheckDone()
		return air
	}
	mode := WorldGenMode{Flat: params.FlatMode, FlatThickness: params.FlatThickness}
	if mode.Flat {
		precheckDone()
		if wy < mode.FlatThickness {
			return w.resolveBlock("stone")
		}
		return air
	}
	precheckDone()

	if params.TowerEnabled {
		if b, ok := w.evaluateTower(ctx, wx, wy, wz, air); ok {
			return b
		}
	}

	height := w.heightFor(ctx, wx, wz)
	waterLevel := w.waterLevelFor(params)

	name := w.selectSurfaceBlock(ctx, wx, wy, wz, height)
	waterDone := ctx.Profiler.Track(StageWater)
	name = w.applyWaterFill(params, name, wy, waterLevel)
	waterDone()
	name = w.applyCavesAndFeatures(ctx, wx, wy, wz, height, name)
	name = w.applyTreeBlocks(ctx, wx, wy, wz, name)

	return w.resolveBlock(name)
}

// evaluateTower implements the central debug/landmark tower (§4.2
// supplemental), grounded on the reference implementation's world-center
// striped column: solid outer shell banded glowstone/glass/stone, hollow
// core with a floor every 32 blocks.
func (w *World) evaluateTower(ctx *GenCtx, x, y, z int32, air blocks.Block) (blocks.Block, bool) {
	defer ctx.Profiler.Track(StageTowerLandmark)()

	cx, cz := w.WorldSizeX/2, w.WorldSizeZ/2
	center := geom.Vec3{float32(cx), 0, float32(cz)}
	pos := geom.Vec3{float32(x), 0, float32(z)}
	dist2 := float64(pos.Sub(center).LenSqr())
	const outerSq = towerOuterRadius * towerOuterRadius
	const innerSq = towerInnerRadius * towerInnerRadius

	if dist2 > outerSq {
		return blocks.Block{}, false
	}
	if y >= towerTop {
		return air, true
	}
	if dist2 <= innerSq {
		if y%32 == 0 {
			return w.resolveBlock("stone"), true
		}
		return air, true
	}
	band := int32(((y % 128) + 128) % 128)
	switch {
	case band < 6:
		return w.resolveBlock("glowstone"), true
	case band < 24:
		return w.resolveBlock("glass"), true
	default:
		return w.resolveBlock("stone"), true
	}
}

// heightFor resolves the column surface height, preferring a pinned
// height tile over a direct noise sample (§4.2.1).
func (w *World) heightFor(ctx *GenCtx, wx, wz int32) int32 {
	defer ctx.Profiler.Track(StageHeight)()
	if ctx.Tile != nil {
		key := ctx.Tile.Key
		lx, lz := wx-key.BaseX, wz-key.BaseZ
		if lx >= 0 && lx < key.SizeX && lz >= 0 && lz < key.SizeZ {
			return ctx.Tile.HeightAt(lx, lz)
		}
	}
	n := ctx.heightNoise.Sample2D(nil, int(wx), int(wz), 1, 1, 1.0/128.0, 1.0/128.0)[0]
	return remapNoiseToHeight(n, ctx.Params, w.WorldHeight, float64(w.WorldHeight))
}

func (w *World) waterLevelFor(params *WorldGenParams) int32 {
	if !params.WaterEnabled {
		return -1
	}
	return params.WaterLevel()
}

// selectSurfaceBlock picks the top/topsoil/deep-fill block name for one
// voxel given the column's surface height (§4.2).
func (w *World) selectSurfaceBlock(ctx *GenCtx, wx, wy, wz, height int32) string {
	defer ctx.Profiler.Track(StageSurface)()
	params := ctx.Params
	switch {
	case wy >= height:
		return "air"
	case wy == height-1:
		return w.topBlockFor(ctx, wx, wz, height)
	case wy+params.TopsoilThickness >= height:
		return params.SubNearName
	default:
		return params.SubDeepName
	}
}

// topBlockFor selects the biome- or altitude-appropriate top block.
func (w *World) topBlockFor(ctx *GenCtx, wx, wz, height int32) string {
	params := ctx.Params
	if height >= params.SnowAltitude {
		return "snow_block"
	}
	if height <= params.SandAltitude {
		return "sand"
	}
	if def := w.biomeFor(ctx, wx, wz); def != nil && def.TopBlock != "" {
		return def.TopBlock
	}
	return "grass"
}

func (w *World) biomeFor(ctx *GenCtx, wx, wz int32) *BiomeDef {
	table := ctx.Params.Biomes
	if table == nil || len(table.Defs) == 0 {
		return nil
	}
	if table.DebugPackAll {
		cell := table.DebugCellSize
		if cell < 1 {
			cell = 1
		}
		cx, cz := int64(floorDiv(wx, cell)), int64(floorDiv(wz, cell))
		idx := int(((cx*31 + cz*17) % int64(len(table.Defs)) + int64(len(table.Defs))) % int64(len(table.Defs)))
		return &table.Defs[idx]
	}
	temp := ctx.tempNoise.Sample2D(nil, int(wx), int(wz), 1, 1, table.TempFreq, table.TempFreq)[0]
	moisture := ctx.moistureNoise.Sample2D(nil, int(wx), int(wz), 1, 1, table.MoistureFreq, table.MoistureFreq)[0]
	return table.Select(temp, moisture)
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// applyWaterFill replaces an air column entry with water at or below the
// world's configured water level (§4.2).
func (w *World) applyWaterFill(params *WorldGenParams, name string, wy, waterLevel int32) string {
	if name == "air" && params.WaterEnabled && wy <= waterLevel {
		return "water"
	}
	return name
}

// applyCavesAndFeatures carves a 3D gradient-noise tunnel network through
// solid rock, never breaching the surface and never touching a fluid
// block (SPEC_FULL §4.2 supplemental: the original implementation's caves
// module was not present in the retrieved source, so this carving rule is
// derived directly from the specification's description rather than a
// ported file).
func (w *World) applyCavesAndFeatures(ctx *GenCtx, wx, wy, wz, height int32, name string) string {
	defer ctx.Profiler.Track(StageCavesFeatures)()
	params := ctx.Params
	if !params.CaveEnabled || name == "water" || name == "air" {
		return name
	}
	if wy < params.CaveMinY || wy > height-params.CaveSurfaceMargin {
		return name
	}
	// ySize 2 keeps Sample3D on its 3D path; with ySize 1 it takes the
	// column-plane path, which ignores wy. Element 0 is the sample at wy.
	n := ctx.tunnelNoise.Sample3D(nil, int(wx), int(wy), int(wz), 1, 2, 1, 1.0/24.0, 1.0/24.0, 1.0/24.0)[0]
	if n > params.CaveThreshold {
		return "air"
	}
	return name
}

// applyTreeBlocks overlays trunk and leaf blocks on top of an otherwise
// resolved air column entry (§4.2).
func (w *World) applyTreeBlocks(ctx *GenCtx, wx, wy, wz int32, name string) string {
	defer ctx.Profiler.Track(StageTrees)()
	params := ctx.Params
	if params.TreeDensity <= 0 {
		return name
	}
	seed := uint32(ctx.Params.Seed)
	leafR := params.LeafRadius

	if surf, th, sp, ok := w.trunkInfo(ctx, wx, wz, seed); ok {
		if wy > surf && wy <= surf+th {
			return logNameFor(sp)
		}
	}

	if name != "air" {
		return name
	}
	for tx := wx - leafR; tx <= wx+leafR; tx++ {
		for tz := wz - leafR; tz <= wz+leafR; tz++ {
			surf, th, sp, ok := w.trunkInfo(ctx, tx, tz, seed)
			if !ok {
				continue
			}
			topY := surf + th
			dy := wy - topY
			if dy < -2 || dy > 2 {
				continue
			}
			rad := leafR
			if dy <= -2 || dy >= 2 {
				rad = leafR - 1
			}
			dx, dz := wx-tx, wz-tz
			if dx == 0 && dz == 0 && dy >= 0 {
				continue
			}
			man := abs32(dx) + abs32(dz)
			extra := int32(1)
			if dy >= 1 {
				extra = 0
			}
			if man <= rad+extra {
				return leafNameFor(sp)
			}
		}
	}
	return name
}

// trunkInfo reports whether a tree trunk is rooted at column (tx,tz), and
// if so its surface Y, trunk height, and species.
func (w *World) trunkInfo(ctx *GenCtx, tx, tz int32, seed uint32) (surf, th int32, species string, ok bool) {
	params := ctx.Params
	surf = w.heightFor(ctx, tx, tz) - 1
	if w.topBlockFor(ctx, tx, tz, surf+1) != "grass" {
		return 0, 0, "", false
	}
	if rand01(seed, tx, tz, 0xA53F9) >= float32(params.TreeDensity) {
		return 0, 0, "", false
	}
	if surf <= 2 || surf >= w.WorldHeight-6 {
		return 0, 0, "", false
	}
	span := params.TrunkMaxHeight - params.TrunkMinHeight
	if span < 0 {
		span = 0
	}
	hsel := hash2(tx, tz, seed, 0x0051F0A7) % uint32(span+1)
	th = params.TrunkMinHeight + int32(hsel)
	species = w.pickSpecies(ctx, tx, tz, seed)
	return surf, th, species, true
}

func (w *World) pickSpecies(ctx *GenCtx, tx, tz int32, seed uint32) string {
	if def := w.biomeFor(ctx, tx, tz); def != nil && len(def.SpeciesWeights) > 0 {
		var total float64
		for _, wt := range def.SpeciesWeights {
			total += wt
		}
		if total > 0 {
			r := float64(rand01(seed, tx, tz, 0xA11CE)) * total
			acc := 0.0
			for _, key := range []string{"oak", "birch", "spruce", "jungle", "acacia", "dark_oak"} {
				wt, present := def.SpeciesWeights[key]
				if !present {
					continue
				}
				acc += wt
				if r <= acc {
					return key
				}
			}
		}
	}
	t := rand01(seed, tx, tz, 0xBEEF01)
	m := rand01(seed, tx, tz, 0xC0FFEE)
	switch {
	case t < 0.22 && m > 0.65:
		return "spruce"
	case t > 0.78 && m > 0.45:
		return "jungle"
	case t > 0.75 && m < 0.32:
		return "acacia"
	case t > 0.65 && m < 0.25:
		return "dark_oak"
	}
	if (hash2(tx, tz, 0xDEADBEEF, 0)>>20)&1 == 1 {
		return "birch"
	}
	return "oak"
}

func logNameFor(species string) string { return species + "_log" }

func leafNameFor(species string) string {
	if species == "dark_oak" {
		return "oak_leaves"
	}
	return species + "_leaves"
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// hash2 mixes two column coordinates, a world seed, and a per-call salt
// into one 32-bit hash via murmur3, replacing the reference
// implementation's hand-rolled SplitMix-style mixer (SPEC_FULL §domain
// stack binding).
func hash2(ix, iz int32, seed, salt uint32) uint32 {
	var buf [12]byte
	put32(buf[0:4], uint32(ix))
	put32(buf[4:8], uint32(iz))
	put32(buf[8:12], seed^salt)
	return murmur3.Sum32(buf[:])
}

// rand01 derives a uniform [0,1) float from hash2, used for tree placement
// and species weighting decisions.
func rand01(seed uint32, ix, iz int32, salt uint32) float32 {
	h := hash2(ix, iz, seed^0x9E3779B9, salt)
	return float32(h&0x00FFFFFF) / 16777216.0
}
