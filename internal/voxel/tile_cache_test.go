package voxel

import "testing"

func tile(key TileKey) *TerrainTile {
	return &TerrainTile{Key: key, Heights: make([]int32, key.SizeX*key.SizeZ)}
}

// TestTileCacheHitMiss covers §8 property 10 (basic LRU hit/miss behavior).
func TestTileCacheHitMiss(t *testing.T) {
	c := NewTerrainTileCache(4)
	key := TileKey{BaseX: 0, BaseZ: 0, SizeX: 8, SizeZ: 8}

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected miss on empty cache")
	}
	c.Insert(tile(key))
	got, ok := c.Get(key)
	if !ok {
		t.Fatalf("expected hit after insert")
	}
	if got.Key != key {
		t.Fatalf("returned tile key mismatch: %+v", got.Key)
	}

	hits, misses, _, entries := c.Stats()
	if hits != 1 || misses != 1 || entries != 1 {
		t.Fatalf("stats = hits=%d misses=%d entries=%d, want 1,1,1", hits, misses, entries)
	}
}

// TestTileCacheRevInvalidation covers §8 property 10: a worldgen_rev bump
// must invalidate previously cached tiles even though they remain resident.
func TestTileCacheRevInvalidation(t *testing.T) {
	c := NewTerrainTileCache(4)
	key := TileKey{BaseX: 0, BaseZ: 0, SizeX: 8, SizeZ: 8}
	c.Insert(tile(key))

	if _, ok := c.Get(key); !ok {
		t.Fatalf("expected hit before rev bump")
	}

	c.SetRev(c.CurrentRev() + 1)
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected miss after rev bump invalidated the tile")
	}
}

// TestTileCacheEvictionAtCapacity covers §8 property 10: inserting beyond
// capacity evicts the least-recently-used entry, not an arbitrary one.
func TestTileCacheEvictionAtCapacity(t *testing.T) {
	c := NewTerrainTileCache(2)
	k1 := TileKey{BaseX: 0, BaseZ: 0, SizeX: 8, SizeZ: 8}
	k2 := TileKey{BaseX: 8, BaseZ: 0, SizeX: 8, SizeZ: 8}
	k3 := TileKey{BaseX: 16, BaseZ: 0, SizeX: 8, SizeZ: 8}

	c.Insert(tile(k1))
	c.Insert(tile(k2))
	c.Get(k1) // touch k1 so k2 becomes the LRU victim
	c.Insert(tile(k3))

	if _, ok := c.Get(k2); ok {
		t.Fatalf("expected k2 evicted as least-recently-used")
	}
	if _, ok := c.Get(k1); !ok {
		t.Fatalf("expected k1 still resident")
	}
	if _, ok := c.Get(k3); !ok {
		t.Fatalf("expected k3 resident after insert")
	}
}
