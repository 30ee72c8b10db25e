package voxel

import (
	"sync"
	"sync/atomic"

	"github.com/elastic/go-freelru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spaolacci/murmur3"
)

// TileKey identifies one cached height-tile footprint.
type TileKey struct {
	BaseX, BaseZ   int32
	SizeX, SizeZ   int32
}

func hashTileKey(k TileKey) uint32 {
	var buf [16]byte
	put32(buf[0:4], uint32(k.BaseX))
	put32(buf[4:8], uint32(k.BaseZ))
	put32(buf[8:12], uint32(k.SizeX))
	put32(buf[12:16], uint32(k.SizeZ))
	return murmur3.Sum32(buf[:])
}

func put32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// TerrainTile is an immutable cached column profile (§3).
type TerrainTile struct {
	Key        TileKey
	WorldgenRev uint64
	Heights    []int32 // sx*sz, indexed z*SizeX + x (x varies fastest)
}

// HeightAt returns the cached height at local tile coordinates.
func (t *TerrainTile) HeightAt(lx, lz int32) int32 {
	return t.Heights[lz*t.Key.SizeX+lx]
}

// TileCacheStats are the atomic, snapshot-able counters of §4.2.1.
type TileCacheStats struct {
	Hits      atomic.Uint64
	Misses    atomic.Uint64
	Evictions atomic.Uint64
	Entries   atomic.Int64
}

// TerrainTileCache is an LRU of TerrainTile keyed by TileKey, capped at a
// configured entry count and invalidated wholesale by worldgen_rev changes
// (§4.2.1, §8 property 10). Backed by elastic/go-freelru for the actual LRU
// bookkeeping; this type layers the worldgen_rev gate and Prometheus
// counters on top.
type TerrainTileCache struct {
	mu       sync.RWMutex
	lru      *freelru.LRU[TileKey, *TerrainTile]
	rev      atomic.Uint64
	stats    TileCacheStats

	metricHits      prometheus.Counter
	metricMisses    prometheus.Counter
	metricEvictions prometheus.Counter
}

// NewTerrainTileCache builds a cache capped at capacity entries.
func NewTerrainTileCache(capacity uint32) *TerrainTileCache {
	lru, err := freelru.New[TileKey, *TerrainTile](capacity, hashTileKey)
	if err != nil {
		// capacity is always a positive constant supplied by the caller; a
		// construction error here means the runtime is out of memory.
		panic(err)
	}
	c := &TerrainTileCache{
		lru: lru,
		metricHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "terrain_tile_cache_hits_total",
			Help: "Height-tile cache hits.",
		}),
		metricMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "terrain_tile_cache_misses_total",
			Help: "Height-tile cache misses.",
		}),
		metricEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "terrain_tile_cache_evictions_total",
			Help: "Height-tile cache entries evicted for capacity.",
		}),
	}
	lru.SetOnEvict(func(TileKey, *TerrainTile) {
		c.stats.Evictions.Add(1)
		c.metricEvictions.Inc()
		c.stats.Entries.Add(-1)
	})
	return c
}

// Metrics returns this cache's Prometheus counters; registering them is
// left to the caller.
func (c *TerrainTileCache) Metrics() []prometheus.Collector {
	return []prometheus.Collector{c.metricHits, c.metricMisses, c.metricEvictions}
}

// CurrentRev returns the cache's worldgen_rev gate value.
func (c *TerrainTileCache) CurrentRev() uint64 { return c.rev.Load() }

// SetRev advances the worldgen_rev gate; tiles stamped with an older rev
// are treated as misses and evicted lazily on next lookup.
func (c *TerrainTileCache) SetRev(rev uint64) { c.rev.Store(rev) }

// Get returns the tile for key iff its worldgen_rev matches the cache's
// current rev (§4.2.1); a stale-rev hit counts as a miss and evicts the
// entry.
func (c *TerrainTileCache) Get(key TileKey) (*TerrainTile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tile, ok := c.lru.Get(key)
	if !ok {
		c.stats.Misses.Add(1)
		c.metricMisses.Inc()
		return nil, false
	}
	if tile.WorldgenRev != c.rev.Load() {
		c.lru.Remove(key)
		c.stats.Misses.Add(1)
		c.metricMisses.Inc()
		return nil, false
	}
	c.stats.Hits.Add(1)
	c.metricHits.Inc()
	return tile, true
}

// Insert stores tile, stamped with the cache's current rev, requeuing it at
// the MRU end (capacity enforcement and eviction counting happen inside the
// underlying LRU via the OnEvict hook registered at construction).
func (c *TerrainTileCache) Insert(tile *TerrainTile) {
	tile.WorldgenRev = c.rev.Load()
	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := c.lru.Add(tile.Key, tile)
	if !evicted {
		c.stats.Entries.Add(1)
	}
}

// Stats returns a point-in-time snapshot of the atomic counters.
func (c *TerrainTileCache) Stats() (hits, misses, evictions uint64, entries int64) {
	return c.stats.Hits.Load(), c.stats.Misses.Load(), c.stats.Evictions.Load(), c.stats.Entries.Load()
}
