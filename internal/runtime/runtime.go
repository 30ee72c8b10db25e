package runtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/edit"
	"github.com/nathanial/geist-sub002/internal/lighting"
	"github.com/nathanial/geist-sub002/internal/mesher"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

// ChunkDims is the block-space size of every chunk the runtime builds.
type ChunkDims struct {
	SX, SY, SZ int
}

// Runtime is the concurrent worker pool (§4.6): a dispatcher round-robins
// BuildJobs across N workers, each of which regenerates a chunk, applies
// edits, computes lighting, meshes it, and reports a JobOut on a shared
// result channel that the driver drains non-blockingly once per tick.
type Runtime struct {
	world *voxel.World
	edits *edit.Store
	light *lighting.Store
	reg   *blocks.BlockRegistry
	dims  ChunkDims
	pool  *GenCtxPool

	skyBrightness float64
	lightFloor    uint8

	jobs    chan BuildJob
	workers []chan BuildJob
	results chan JobOut

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	log *zap.Logger
}

// Options configures a Runtime beyond its required collaborators.
type Options struct {
	Workers       int
	QueueSize     int
	ResultBuffer  int
	SkyBrightness float64
	LightFloor    uint8
	Log           *zap.Logger
}

// New starts a Runtime's dispatcher and worker goroutines. Shutdown must
// be called to release them.
func New(world *voxel.World, edits *edit.Store, light *lighting.Store, reg *blocks.BlockRegistry, dims ChunkDims, opts Options) *Runtime {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 64
	}
	if opts.ResultBuffer < 1 {
		opts.ResultBuffer = 64
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runtime{
		world:         world,
		edits:         edits,
		light:         light,
		reg:           reg,
		dims:          dims,
		pool:          NewGenCtxPool(world, opts.Workers),
		skyBrightness: opts.SkyBrightness,
		lightFloor:    opts.LightFloor,
		jobs:          make(chan BuildJob, opts.QueueSize),
		workers:       make([]chan BuildJob, opts.Workers),
		results:       make(chan JobOut, opts.ResultBuffer),
		ctx:           ctx,
		cancel:        cancel,
		log:           opts.Log,
	}

	for i := range r.workers {
		r.workers[i] = make(chan BuildJob, 4)
	}

	r.wg.Add(1)
	go r.dispatchLoop()
	for i, ch := range r.workers {
		r.wg.Add(1)
		go r.workerLoop(i, ch)
	}

	r.log.Info("runtime started", zap.Int("workers", opts.Workers), zap.Int("queue_size", opts.QueueSize))
	return r
}

// SubmitBuildJob enqueues a job for dispatch, blocking if the dispatcher's
// queue is momentarily full (mirrors the reference engine's unconditional
// mpsc send).
func (r *Runtime) SubmitBuildJob(job BuildJob) {
	select {
	case r.jobs <- job:
	case <-r.ctx.Done():
	}
}

// DrainResults returns every JobOut currently ready without blocking,
// called once per driver tick (§4.6, §5 "driver never blocks").
func (r *Runtime) DrainResults() []JobOut {
	var out []JobOut
	for {
		select {
		case j := <-r.results:
			out = append(out, j)
		default:
			return out
		}
	}
}

// Shutdown cancels all workers and the dispatcher and waits for them to
// exit.
func (r *Runtime) Shutdown() {
	r.cancel()
	r.wg.Wait()
	r.log.Info("runtime shut down")
}

func (r *Runtime) dispatchLoop() {
	defer r.wg.Done()
	i := 0
	for {
		select {
		case job := <-r.jobs:
			if len(r.workers) == 0 {
				continue
			}
			target := r.workers[i%len(r.workers)]
			select {
			case target <- job:
				i++
			case <-r.ctx.Done():
				return
			}
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Runtime) workerLoop(id int, jobs <-chan BuildJob) {
	defer r.wg.Done()
	for {
		select {
		case job := <-jobs:
			r.process(job)
		case <-r.ctx.Done():
			return
		}
	}
}

// stale reports whether the edit store's revision for coord has already
// advanced past job's rev, meaning the job's output would be obsolete the
// moment it completed (§4.6 cancellation, §5 "mismatch discards the
// partial work"). A zero rev never counts as stale (unconditional builds,
// e.g. first load).
func (r *Runtime) stale(job BuildJob) bool {
	return job.Rev > 0 && job.Rev < r.edits.GetRev(job.Coord)
}

func (r *Runtime) process(job BuildJob) {
	if r.stale(job) {
		r.log.Debug("dropping stale job before generation", zap.Uint64("job_id", job.JobID))
		return
	}

	gc, err := r.pool.Acquire(r.ctx)
	if err != nil {
		return
	}
	defer r.pool.Release(gc)

	buf := voxel.GenerateChunkBuffer(r.world, gc, job.Coord, r.dims.SX, r.dims.SY, r.dims.SZ)
	for _, e := range r.edits.SnapshotForChunk(job.Coord) {
		if lx, ly, lz, ok := buf.LocalFromWorld(e.X, e.Y, e.Z); ok {
			buf.SetLocal(lx, ly, lz, e.Block)
		}
	}

	if r.stale(job) {
		r.log.Debug("dropping stale job after edit application", zap.Uint64("job_id", job.JobID))
		return
	}

	grid := lighting.ComputeGrid(buf, r.reg)
	borders := lighting.BordersFrom(grid)
	neighborBorders := r.light.GetNeighborBorders(job.Coord)

	src := &mesher.BlockSource{
		Buf:    buf,
		Edits:  r.edits,
		World:  r.world,
		Ctx:    gc,
		Light:  grid,
		Border: neighborBorders,
	}
	sink := mesher.NewMapSink()
	mesher.BuildMesh(r.reg, src, sink, r.skyBrightness, r.lightFloor)

	if r.stale(job) {
		r.log.Debug("dropping stale job after mesh build", zap.Uint64("job_id", job.JobID))
		return
	}

	out := JobOut{
		Coord:        job.Coord,
		Builds:       sink.Builds(),
		Buf:          buf,
		LightBorders: borders,
		Rev:          job.Rev,
		JobID:        job.JobID,
	}
	select {
	case r.results <- out:
	case <-r.ctx.Done():
	}
}
