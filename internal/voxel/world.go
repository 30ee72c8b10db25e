package voxel

import (
	"sync/atomic"

	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// WorldGenMode selects between full procedural generation and the flat
// debug mode used by tests and tooling (§4.2, §6).
type WorldGenMode struct {
	Flat          bool
	FlatThickness int32
}

// World owns everything the generation pipeline needs that outlives a
// single job: the block registry, the hot-reloadable params snapshot, the
// height-tile cache, and the merged stage metrics. Concurrent generation
// jobs each hold their own GenCtx but share one World.
type World struct {
	Registry *blocks.BlockRegistry

	params atomic.Pointer[WorldGenParams]
	rev    atomic.Uint64

	WorldSizeX, WorldSizeZ int32
	WorldHeight            int32

	tiles   *TerrainTileCache
	metrics *TerrainMetrics

	log *zap.Logger
}

// NewWorld constructs a World with an initial params snapshot and a tile
// cache sized to tileCacheCapacity entries.
func NewWorld(reg *blocks.BlockRegistry, params *WorldGenParams, worldSizeX, worldSizeZ, worldHeight int32, tileCacheCapacity uint32, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		Registry:    reg,
		WorldSizeX:  worldSizeX,
		WorldSizeZ:  worldSizeZ,
		WorldHeight: worldHeight,
		tiles:       NewTerrainTileCache(tileCacheCapacity),
		metrics:     NewTerrainMetrics(),
		log:         log,
	}
	w.params.Store(params)
	return w
}

// Params returns the current immutable params snapshot.
func (w *World) Params() *WorldGenParams { return w.params.Load() }

// SetParams publishes a new params snapshot and bumps the worldgen
// revision, invalidating every cached height tile (§8 property 10).
func (w *World) SetParams(p *WorldGenParams) {
	w.params.Store(p)
	rev := w.rev.Add(1)
	w.tiles.SetRev(rev)
	w.log.Info("worldgen params reloaded", zap.Uint64("worldgen_rev", rev))
}

// CurrentRev returns the worldgen revision counter.
func (w *World) CurrentRev() uint64 { return w.rev.Load() }

// ObserveProfiler merges a completed job's stage timings into the world's
// shared Prometheus histograms. The runtime does not call it: JobOut
// carries no profiler.
func (w *World) ObserveProfiler(p *TerrainProfiler) { w.metrics.Observe(p) }

// Metrics returns the Prometheus collectors this World owns.
func (w *World) Metrics() []prometheus.Collector {
	cs := append([]prometheus.Collector{}, w.tiles.Metrics()...)
	return append(cs, w.metrics.Metrics()...)
}

// resolveBlock looks up a configured block type by name, falling back to
// the registry's unknown sentinel (mirrors World::resolve_block_id).
func (w *World) resolveBlock(name string) blocks.Block {
	return w.Registry.ResolveName(name)
}

// PrepareHeightTile populates ctx.Tile for the (baseX,baseZ,sizeX,sizeZ)
// footprint, reusing a cache hit when available and otherwise sampling and
// inserting a fresh tile (§4.2.1).
func (w *World) PrepareHeightTile(ctx *GenCtx, baseX, baseZ int32, sizeX, sizeZ int) {
	params := ctx.Params
	key := TileKey{BaseX: baseX, BaseZ: baseZ, SizeX: int32(sizeX), SizeZ: int32(sizeZ)}

	if ctx.Tile != nil && ctx.Tile.Key == key && ctx.Tile.WorldgenRev == w.CurrentRev() {
		return
	}
	if tile, ok := w.tiles.Get(key); ok {
		ctx.Tile = tile
		return
	}

	heights := make([]int32, sizeX*sizeZ)
	worldHeight := w.WorldHeight
	worldHeightF := float64(worldHeight)
	for dz := 0; dz < sizeZ; dz++ {
		wz := int(baseZ) + dz
		for dx := 0; dx < sizeX; dx++ {
			wx := int(baseX) + dx
			n := ctx.heightNoise.Sample2D(nil, wx, wz, 1, 1, 1.0/128.0, 1.0/128.0)[0]
			heights[dz*sizeX+dx] = remapNoiseToHeight(n, params, worldHeight, worldHeightF)
		}
	}
	tile := &TerrainTile{Key: key, Heights: heights}
	w.tiles.Insert(tile)
	ctx.Tile = tile
}

func remapNoiseToHeight(noise float64, params *WorldGenParams, worldHeight int32, worldHeightF float64) int32 {
	minH, maxH := params.HeightRange()
	span := float64(maxH - minH)
	hh := int32((noise+1.0)*0.5*span) + minH
	if hh < 1 {
		hh = 1
	}
	if hh > worldHeight-1 {
		hh = worldHeight - 1
	}
	return hh
}

// BlockAtRuntime samples a single world-space voxel through the full
// staged pipeline, using a throwaway GenCtx. Callers generating many
// voxels (chunk fill) should hold their own GenCtx from the runtime's pool
// instead (§4.2).
func (w *World) BlockAtRuntime(wx, wy, wz int32) blocks.Block {
	ctx := NewGenCtx(w.Params())
	return w.BlockAtRuntimeWith(ctx, wx, wy, wz)
}

// BlockAtRuntimeWith is BlockAtRuntime reusing a caller-owned GenCtx and
// the params snapshot it is already bound to.
func (w *World) BlockAtRuntimeWith(ctx *GenCtx, wx, wy, wz int32) blocks.Block {
	return w.sampleColumn(ctx, wx, wy, wz)
}
