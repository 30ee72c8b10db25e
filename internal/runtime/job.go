// Package runtime implements the concurrent worker pool that turns build
// job requests into completed chunk meshes (§4.6): a dispatcher
// round-robins jobs across N workers, each worker checks out a pooled
// GenCtx, regenerates the chunk, applies edits, computes lighting and the
// greedy mesh, and reports the result on a single ordered-per-worker
// result channel.
package runtime

import (
	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/lighting"
	"github.com/nathanial/geist-sub002/internal/mesher"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

// NeighborsLoaded records which of a chunk's six face neighbors were
// resident at submission time. The mesher's BlockSource always falls back
// through World generation for out-of-chunk reads, so these flags aren't
// load-bearing for correctness here; they're carried through the job
// anyway so a future seam-quality heuristic (skip a rebuild until a real
// neighbor is loaded, rather than meshing against freshly regenerated
// terrain) has the same surface the reference engine exposes.
type NeighborsLoaded struct {
	NegX, PosX bool
	NegY, PosY bool
	NegZ, PosZ bool
}

// BuildJob is one request to (re)build a chunk's mesh and lighting.
type BuildJob struct {
	Coord     voxel.ChunkCoord
	Neighbors NeighborsLoaded
	Rev       uint64
	JobID     uint64
}

// JobOut is a completed build: the filled chunk buffer, its per-material
// mesh builds, and the light borders it contributed, tagged with the
// revision and job ID the driver submitted it under.
type JobOut struct {
	Coord        voxel.ChunkCoord
	Builds       map[blocks.MaterialID]*mesher.MeshBuild
	Buf          *voxel.ChunkBuf
	LightBorders *lighting.LightBorders
	Rev          uint64
	JobID        uint64
}
