package mesher

import "github.com/nathanial/geist-sub002/internal/blocks"

// BuildSink accumulates emitted quads keyed by material, either as a
// hash-indexed map or a dense vector indexed by material ID (§4.5: "either
// a hash-indexed map or a dense vector indexed by material ID with lazy
// initial capacity").
type BuildSink interface {
	Quad(material blocks.MaterialID, v0, v1, v2, v3 Vertex)
	Builds() map[blocks.MaterialID]*MeshBuild
}

// MapSink is the general-purpose sink: a plain map, appropriate when the
// registry's material space is sparse relative to what one chunk touches.
type MapSink struct {
	builds map[blocks.MaterialID]*MeshBuild
}

// NewMapSink returns an empty map-backed sink.
func NewMapSink() *MapSink {
	return &MapSink{builds: make(map[blocks.MaterialID]*MeshBuild)}
}

func (s *MapSink) Quad(material blocks.MaterialID, v0, v1, v2, v3 Vertex) {
	b, ok := s.builds[material]
	if !ok {
		b = &MeshBuild{}
		s.builds[material] = b
	}
	b.appendQuad(v0, v1, v2, v3)
}

func (s *MapSink) Builds() map[blocks.MaterialID]*MeshBuild { return s.builds }

// DenseSink is a vector-backed sink indexed directly by material ID,
// lazily grown to fit the highest material ID seen; preferable when most of a
// catalog's materials appear in most chunks (e.g. a small, dense terrain
// palette), trading memory for avoiding map lookups per quad.
type DenseSink struct {
	slots []*MeshBuild
}

// NewDenseSink returns an empty dense sink with no pre-allocated capacity;
// it grows to fit the highest material ID seen.
func NewDenseSink() *DenseSink {
	return &DenseSink{}
}

func (s *DenseSink) Quad(material blocks.MaterialID, v0, v1, v2, v3 Vertex) {
	idx := int(material)
	if idx >= len(s.slots) {
		grown := make([]*MeshBuild, idx+1)
		copy(grown, s.slots)
		s.slots = grown
	}
	if s.slots[idx] == nil {
		s.slots[idx] = &MeshBuild{}
	}
	s.slots[idx].appendQuad(v0, v1, v2, v3)
}

func (s *DenseSink) Builds() map[blocks.MaterialID]*MeshBuild {
	out := make(map[blocks.MaterialID]*MeshBuild, len(s.slots))
	for id, b := range s.slots {
		if b != nil {
			out[blocks.MaterialID(id)] = b
		}
	}
	return out
}
