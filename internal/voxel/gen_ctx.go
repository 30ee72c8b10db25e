package voxel

import "math/rand"

// GenCtx bundles the per-job scratch state a generation worker needs:
// seeded noise stacks, a pinned params snapshot, a working height tile, and
// a profiler. Instances are pooled and reused across jobs by the runtime
// (internal/runtime), not allocated per-chunk, so every field here is
// reset rather than reconstructed between jobs where that's cheaper.
type GenCtx struct {
	Params *WorldGenParams

	heightNoise   *octaveNoise
	warpNoise     *octaveNoise
	tunnelNoise   *octaveNoise
	tempNoise     *octaveNoise
	moistureNoise *octaveNoise

	Tile *TerrainTile

	Profiler TerrainProfiler
}

// NewGenCtx builds a context seeded from params.Seed with independent
// offsets per noise stack (derived via a fixed-stride sub-seed split) so
// the height, warp, tunnel, temperature and moisture fields are
// decorrelated despite sharing one world seed.
func NewGenCtx(params *WorldGenParams) *GenCtx {
	ctx := &GenCtx{Params: params}
	ctx.reseed(params)
	return ctx
}

func (c *GenCtx) reseed(params *WorldGenParams) {
	seed := params.Seed
	c.heightNoise = newOctaveNoise(rand.New(rand.NewSource(seed)), 4)
	c.warpNoise = newOctaveNoise(rand.New(rand.NewSource(seed+1)), 3)
	c.tunnelNoise = newOctaveNoise(rand.New(rand.NewSource(seed+2)), 3)
	c.tempNoise = newOctaveNoise(rand.New(rand.NewSource(seed+3)), 2)
	c.moistureNoise = newOctaveNoise(rand.New(rand.NewSource(seed+4)), 2)
}

// Rebind swaps in a new params snapshot, reseeding the noise stacks only
// when the seed changed (a hot-reload that only tweaks, say, tree density
// must not perturb terrain shape).
func (c *GenCtx) Rebind(params *WorldGenParams) {
	reseed := c.Params == nil || c.Params.Seed != params.Seed
	c.Params = params
	if reseed {
		c.reseed(params)
	}
}

// ResetForJob clears per-job scratch state ahead of reuse out of the pool.
func (c *GenCtx) ResetForJob() {
	c.Tile = nil
	c.Profiler.Reset()
}
