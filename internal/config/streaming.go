package config

import "sync"

// StreamingSettings holds the hot-adjustable view-center radii that drive
// chunk load/evict decisions (§4.7), mirroring the teacher's
// mutex-guarded global render settings (render_distance -> load/evict
// radius) rather than baking them into the immutable WorldGenParams
// snapshot: these are a live operator knob, not world data.
type StreamingSettings struct {
	mu          sync.RWMutex
	loadRadius  int32
	evictMargin int32
}

// NewStreamingSettings returns settings with the given default load
// radius. The evict radius trails it by a fixed margin — the same
// hysteresis relationship as the teacher's GetChunkEvictRadius, sized to
// match §4.7's load_radius = base+1, evict_radius = base+2 (so evict
// always trails load by exactly one shell, not the teacher's wider +4).
func NewStreamingSettings(loadRadius int32) *StreamingSettings {
	return &StreamingSettings{loadRadius: loadRadius, evictMargin: 1}
}

// LoadRadius returns the current load radius, in chunks.
func (s *StreamingSettings) LoadRadius() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadRadius
}

// SetLoadRadius updates the load radius, clamped to a sane range.
func (s *StreamingSettings) SetLoadRadius(r int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r < 1 {
		r = 1
	}
	if r > 64 {
		r = 64
	}
	s.loadRadius = r
}

// EvictRadius returns the current evict radius: always strictly larger
// than the load radius, so a chunk settles before it's considered for
// eviction (§4.7 hysteresis).
func (s *StreamingSettings) EvictRadius() int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadRadius + s.evictMargin
}
