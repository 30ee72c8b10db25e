// Package mesher implements the CPU greedy mesher: per-direction
// mask-and-merge rectangle emission for cube geometry, micro-grid box
// decomposition for non-cube shapes, seam-aware occlusion against
// neighboring chunks, and baked vertex lighting (§4.5).
package mesher

import (
	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/geom"
)

// Vertex is one emitted mesh vertex: world-independent, chunk-local
// position, a face normal, a UV coordinate within the material's texture,
// and a baked RGBA carrying the sampled light level.
type Vertex struct {
	Pos    geom.Vec3
	Normal geom.Vec3
	UV     [2]float32
	RGBA   [4]uint8
}

// MeshBuild is one material's accumulated geometry: vertices plus a
// triangle-list index buffer into them.
type MeshBuild struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m *MeshBuild) appendQuad(v0, v1, v2, v3 Vertex) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, v0, v1, v2, v3)
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base+2, base+3, base,
	)
}

// faceUV maps a quad's local extent (in the face's u/v axes, in blocks) to
// texture coordinates; one texel per block unit, which is what the
// registry's per-face texture candidates assume.
func faceUV(u, v float32) [2]float32 { return [2]float32{u, v} }

// MaterialID re-exported for callers that only import this package.
type MaterialID = blocks.MaterialID
