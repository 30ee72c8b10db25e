package voxel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TerrainStage enumerates the generation pipeline stages a single column
// sample passes through (§4.2), in pipeline order.
type TerrainStage uint8

const (
	StageBlockPrecheck TerrainStage = iota
	StageTowerLandmark
	StageHeight
	StageSurface
	StageWater
	StageCavesFeatures
	StageTrees
	stageCount
)

func (s TerrainStage) String() string {
	switch s {
	case StageBlockPrecheck:
		return "block_precheck"
	case StageTowerLandmark:
		return "tower_landmark"
	case StageHeight:
		return "height"
	case StageSurface:
		return "surface"
	case StageWater:
		return "water"
	case StageCavesFeatures:
		return "caves_features"
	case StageTrees:
		return "trees"
	default:
		return "unknown"
	}
}

// TerrainProfiler accumulates per-stage elapsed time for a single
// generation job. One instance lives on the job's GenCtx for its duration,
// mirroring the teacher's frame-scoped profiler.Track pattern but keyed by
// a fixed stage enum instead of free-form names, and owned per-job instead
// of as process-global state (concurrent jobs must not share totals).
type TerrainProfiler struct {
	totals [stageCount]time.Duration
	calls  [stageCount]uint32
}

// Track starts timing stage and returns a stop function, used as
// defer ctx.Profiler.Track(StageHeight)().
func (p *TerrainProfiler) Track(stage TerrainStage) func() {
	start := time.Now()
	return func() {
		p.totals[stage] += time.Since(start)
		p.calls[stage]++
	}
}

// Reset clears all accumulated stage totals, for GenCtx reuse across jobs
// out of the ctx pool.
func (p *TerrainProfiler) Reset() {
	for i := range p.totals {
		p.totals[i] = 0
		p.calls[i] = 0
	}
}

// Total returns the sum of every stage's accumulated time.
func (p *TerrainProfiler) Total() time.Duration {
	var sum time.Duration
	for _, d := range p.totals {
		sum += d
	}
	return sum
}

// StageTotal returns the accumulated time and call count for one stage.
func (p *TerrainProfiler) StageTotal(stage TerrainStage) (time.Duration, uint32) {
	return p.totals[stage], p.calls[stage]
}

// TerrainMetrics merges completed jobs' per-stage profiles into Prometheus
// histograms, one per stage, so process-wide stage latency distributions
// are observable without retaining every individual GenCtx (§4.2.1).
type TerrainMetrics struct {
	stageSeconds *prometheus.HistogramVec
}

// NewTerrainMetrics builds a fresh set of stage histograms.
func NewTerrainMetrics() *TerrainMetrics {
	return &TerrainMetrics{
		stageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "terrain_stage_seconds",
			Help:    "Time spent per world generation pipeline stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
	}
}

// Metrics returns the collectors to register with a Prometheus registry.
func (m *TerrainMetrics) Metrics() []prometheus.Collector {
	return []prometheus.Collector{m.stageSeconds}
}

// Observe merges one completed job's profiler into the histograms, called
// on the result-receiving side once a job finishes (§4.2.1).
func (m *TerrainMetrics) Observe(p *TerrainProfiler) {
	for stage := TerrainStage(0); stage < stageCount; stage++ {
		total, calls := p.StageTotal(stage)
		if calls == 0 {
			continue
		}
		m.stageSeconds.WithLabelValues(stage.String()).Observe(total.Seconds())
	}
}
