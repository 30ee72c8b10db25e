// Package edit implements the persistent block-edit overlay and its
// chunk-revision change tracking, layered on top of procedurally
// generated terrain.
package edit

import (
	"sync"

	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

type worldCoord struct{ X, Y, Z int32 }

// Store is a chunk-aware persistent edit overlay with change tracking
// (§4.3). Player/tool edits are recorded here; the generator's output is
// never mutated, so an edit always takes precedence over regenerated
// terrain at the same coordinate.
type Store struct {
	mu sync.RWMutex

	sx, sy, sz int32

	byChunk map[voxel.ChunkCoord]map[worldCoord]blocks.Block
	rev     map[voxel.ChunkCoord]uint64
	built   map[voxel.ChunkCoord]uint64
	counter uint64
}

// NewStore builds an empty edit overlay for a world whose chunks are
// sx*sy*sz blocks.
func NewStore(sx, sy, sz int32) *Store {
	return &Store{
		sx: sx, sy: sy, sz: sz,
		byChunk: make(map[voxel.ChunkCoord]map[worldCoord]blocks.Block),
		rev:     make(map[voxel.ChunkCoord]uint64),
		built:   make(map[voxel.ChunkCoord]uint64),
	}
}

func (s *Store) chunkKey(wx, wy, wz int32) voxel.ChunkCoord {
	return voxel.ChunkCoord{CX: floorDiv(wx, s.sx), CY: floorDiv(wy, s.sy), CZ: floorDiv(wz, s.sz)}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Get returns a previously recorded edit at (wx,wy,wz), if any.
func (s *Store) Get(wx, wy, wz int32) (blocks.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byChunk[s.chunkKey(wx, wy, wz)]
	if !ok {
		return blocks.Block{}, false
	}
	b, ok := m[worldCoord{wx, wy, wz}]
	return b, ok
}

// Set records an edit at (wx,wy,wz). It does not by itself mark any chunk
// dirty; callers call BumpRegionAround for that (mirroring the reference
// store's separation of "record the edit" from "signal a rebuild").
func (s *Store) Set(wx, wy, wz int32, b blocks.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.chunkKey(wx, wy, wz)
	m, ok := s.byChunk[k]
	if !ok {
		m = make(map[worldCoord]blocks.Block)
		s.byChunk[k] = m
	}
	m[worldCoord{wx, wy, wz}] = b
}

// SnapshotForChunk returns every edit recorded for one chunk.
func (s *Store) SnapshotForChunk(c voxel.ChunkCoord) []EditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byChunk[c]
	if !ok {
		return nil
	}
	out := make([]EditEntry, 0, len(m))
	for k, v := range m {
		out = append(out, EditEntry{X: k.X, Y: k.Y, Z: k.Z, Block: v})
	}
	return out
}

// EditEntry is one recorded (position, block) pair returned by a snapshot.
type EditEntry struct {
	X, Y, Z int32
	Block   blocks.Block
}

// SnapshotForRegion returns every edit within an inclusive chunk-unit
// radius of center (radiusXZ horizontally, radiusY vertically).
func (s *Store) SnapshotForRegion(center voxel.ChunkCoord, radiusXZ, radiusY int32) []EditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []EditEntry
	for dy := -radiusY; dy <= radiusY; dy++ {
		for dz := -radiusXZ; dz <= radiusXZ; dz++ {
			for dx := -radiusXZ; dx <= radiusXZ; dx++ {
				k := center.Offset(dx, dy, dz)
				m, ok := s.byChunk[k]
				if !ok {
					continue
				}
				for pos, v := range m {
					out = append(out, EditEntry{X: pos.X, Y: pos.Y, Z: pos.Z, Block: v})
				}
			}
		}
	}
	return out
}

// BumpRegionAround stamps a fresh, monotonically increasing revision on the
// chunk containing (wx,wy,wz), and on each of up to seven neighbors (across
// faces, edges and corners) lying beyond the chunk faces the edited block
// sits on (local coordinate 0 or size-1), so a border-touching edit
// invalidates every chunk mesh that can see it (§4.3, §8 property 9).
func (s *Store) BumpRegionAround(wx, wy, wz int32) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	if s.counter == 0 {
		s.counter = 1
	}
	stamp := s.counter

	c := s.chunkKey(wx, wy, wz)
	x0, y0, z0 := c.CX*s.sx, c.CY*s.sy, c.CZ*s.sz
	lx, ly, lz := wx-x0, wy-y0, wz-z0

	s.rev[c] = stamp

	offsetsX := []int32{0}
	offsetsY := []int32{0}
	offsetsZ := []int32{0}
	if lx == 0 {
		offsetsX = append(offsetsX, -1)
	}
	if lx == s.sx-1 {
		offsetsX = append(offsetsX, 1)
	}
	if ly == 0 {
		offsetsY = append(offsetsY, -1)
	}
	if ly == s.sy-1 {
		offsetsY = append(offsetsY, 1)
	}
	if lz == 0 {
		offsetsZ = append(offsetsZ, -1)
	}
	if lz == s.sz-1 {
		offsetsZ = append(offsetsZ, 1)
	}

	for _, dx := range offsetsX {
		for _, dy := range offsetsY {
			for _, dz := range offsetsZ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				s.rev[c.Offset(dx, dy, dz)] = stamp
			}
		}
	}
	return stamp
}

// AffectedChunks returns every chunk BumpRegionAround would stamp for an
// edit at (wx,wy,wz), without recording anything — used by callers that
// need to know which chunks to enqueue before committing the edit.
func (s *Store) AffectedChunks(wx, wy, wz int32) []voxel.ChunkCoord {
	c := s.chunkKey(wx, wy, wz)
	x0, y0, z0 := c.CX*s.sx, c.CY*s.sy, c.CZ*s.sz
	lx, ly, lz := wx-x0, wy-y0, wz-z0

	affected := []voxel.ChunkCoord{c}
	offsetsX := []int32{0}
	offsetsY := []int32{0}
	offsetsZ := []int32{0}
	if lx == 0 {
		offsetsX = append(offsetsX, -1)
	}
	if lx == s.sx-1 {
		offsetsX = append(offsetsX, 1)
	}
	if ly == 0 {
		offsetsY = append(offsetsY, -1)
	}
	if ly == s.sy-1 {
		offsetsY = append(offsetsY, 1)
	}
	if lz == 0 {
		offsetsZ = append(offsetsZ, -1)
	}
	if lz == s.sz-1 {
		offsetsZ = append(offsetsZ, 1)
	}

	seen := map[voxel.ChunkCoord]bool{c: true}
	for _, dx := range offsetsX {
		for _, dy := range offsetsY {
			for _, dz := range offsetsZ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				k := c.Offset(dx, dy, dz)
				if !seen[k] {
					seen[k] = true
					affected = append(affected, k)
				}
			}
		}
	}
	return affected
}

// GetRev returns the latest requested-change revision for a chunk, or 0.
func (s *Store) GetRev(c voxel.ChunkCoord) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev[c]
}

// MarkBuilt records rev as the last-built revision for c, if rev is newer
// than what's already recorded.
func (s *Store) MarkBuilt(c voxel.ChunkCoord, rev uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rev > s.built[c] {
		s.built[c] = rev
	}
}

// GetBuiltRev returns the last-built revision for a chunk, or 0.
func (s *Store) GetBuiltRev(c voxel.ChunkCoord) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built[c]
}

// NeedsRebuild reports whether c's requested revision is newer than its
// last-built revision (§8 property 9: revision monotonicity drives
// rebuild decisions, never wall-clock time).
func (s *Store) NeedsRebuild(c voxel.ChunkCoord) bool {
	return s.GetRev(c) > s.GetBuiltRev(c)
}
