package runtime

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/nathanial/geist-sub002/internal/voxel"
)

// GenCtxPool is a bounded pool of reusable voxel.GenCtx, capacity 2·N for
// N workers (§4.6). Acquire returns a free context, building a new one
// under capacity, and otherwise blocks until a release frees a slot —
// golang.org/x/sync/semaphore.Weighted gives that "block on the return
// channel when at capacity" behavior directly, standing in for the
// reference engine's bounded crossbeam channel.
type GenCtxPool struct {
	sem   *semaphore.Weighted
	world *voxel.World

	mu   sync.Mutex
	free []*voxel.GenCtx
}

// NewGenCtxPool sizes the pool at 2·workerCount (minimum 2).
func NewGenCtxPool(world *voxel.World, workerCount int) *GenCtxPool {
	capacity := int64(workerCount) * 2
	if capacity < 2 {
		capacity = 2
	}
	return &GenCtxPool{sem: semaphore.NewWeighted(capacity), world: world}
}

// Acquire checks out a context, resetting its profiler but leaving its
// height tile intact for opportunistic reuse across consecutive jobs in
// the same worker (§4.2.1, §4.6).
func (p *GenCtxPool) Acquire(ctx context.Context) (*voxel.GenCtx, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	p.mu.Lock()
	n := len(p.free)
	var gc *voxel.GenCtx
	if n > 0 {
		gc = p.free[n-1]
		p.free = p.free[:n-1]
	}
	p.mu.Unlock()

	if gc == nil {
		gc = voxel.NewGenCtx(p.world.Params())
	} else {
		gc.Rebind(p.world.Params())
	}
	gc.Profiler.Reset()
	return gc, nil
}

// Release returns a context to the pool for reuse.
func (p *GenCtxPool) Release(gc *voxel.GenCtx) {
	p.mu.Lock()
	p.free = append(p.free, gc)
	p.mu.Unlock()
	p.sem.Release(1)
}
