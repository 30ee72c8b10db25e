// Package streaming implements the driver-owned chunk lifecycle state
// machine (§4.7): view-center-driven load/evict decisions, negative-axis
// neighbor readiness tracking, and the finalization gate that lets a
// chunk's mesh wait until its three negative-axis neighbors have
// published the lighting it reads across the seam.
package streaming

import (
	"go.uber.org/zap"

	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/config"
	"github.com/nathanial/geist-sub002/internal/edit"
	"github.com/nathanial/geist-sub002/internal/event"
	"github.com/nathanial/geist-sub002/internal/lighting"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

// Status is a resident chunk's coarse lifecycle stage.
type Status uint8

const (
	StatusMissing Status = iota
	StatusLoading
	StatusReady
)

// FinalizeState tracks the three negative-axis neighbor-readiness flags a
// chunk needs before it may finalize (§3 "FinalizeState", §8 property 12).
type FinalizeState struct {
	OwnerNegXReady bool
	OwnerNegYReady bool
	OwnerNegZReady bool
	Requested      bool
	Finalized      bool
}

// ReadyToFinalize reports whether all three owner flags are set and the
// chunk hasn't already finalized.
func (f FinalizeState) ReadyToFinalize() bool {
	return f.OwnerNegXReady && f.OwnerNegYReady && f.OwnerNegZReady && !f.Finalized
}

// ChunkRecord is the streamer's per-chunk bookkeeping entry.
type ChunkRecord struct {
	Status        Status
	InflightRev   uint64
	Finalize      FinalizeState
	Cause         event.RebuildCause
	LightingReady bool
}

// Streamer owns the resident chunk table and view-center radii. Per §5's
// scheduling model exactly one driver thread calls into it, so it carries
// no internal synchronization.
type Streamer struct {
	settings *config.StreamingSettings
	queue    *event.Queue
	lights   *lighting.Store
	edits    *edit.Store

	hasCenter bool
	center    voxel.ChunkCoord

	resident map[voxel.ChunkCoord]*ChunkRecord

	log *zap.Logger
}

// NewStreamer builds an empty streamer bound to the given radii settings,
// event queue, lighting store, and edit store.
func NewStreamer(settings *config.StreamingSettings, queue *event.Queue, lights *lighting.Store, edits *edit.Store) *Streamer {
	return &Streamer{
		settings: settings,
		queue:    queue,
		lights:   lights,
		edits:    edits,
		resident: make(map[voxel.ChunkCoord]*ChunkRecord),
		log:      zap.NewNop(),
	}
}

// SetLogger attaches a structured logger for eviction/finalize diagnostics.
func (s *Streamer) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

// Resident returns the bookkeeping record for coord, if any.
func (s *Streamer) Resident(coord voxel.ChunkCoord) (*ChunkRecord, bool) {
	rec, ok := s.resident[coord]
	return rec, ok
}

// ViewCenter returns the current view center and whether one has been set.
func (s *Streamer) ViewCenter() (voxel.ChunkCoord, bool) {
	return s.center, s.hasCenter
}

// SetViewCenter moves the view center, evicting residents that fall
// outside the evict radius and requesting load for every coordinate
// within the load radius's spherical mask that isn't already resident
// (§4.7).
func (s *Streamer) SetViewCenter(center voxel.ChunkCoord) {
	s.log.Debug("view center moved", zap.Int32("cx", center.CX), zap.Int32("cy", center.CY), zap.Int32("cz", center.CZ))
	s.center = center
	s.hasCenter = true

	loadR := int64(s.settings.LoadRadius())
	evictR := int64(s.settings.EvictRadius())
	evictR2 := evictR * evictR

	for coord, rec := range s.resident {
		if rec.Status == StatusMissing {
			continue
		}
		if center.DistanceSq(coord) > evictR2 {
			s.ensureUnloaded(coord)
		}
	}

	loadR2 := loadR * loadR
	r := int32(loadR)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				d2 := int64(dx)*int64(dx) + int64(dy)*int64(dy) + int64(dz)*int64(dz)
				if d2 > loadR2 {
					continue
				}
				coord := center.Offset(dx, dy, dz)
				if rec, ok := s.resident[coord]; ok && rec.Status != StatusMissing {
					continue
				}
				s.ensureLoaded(coord, event.CauseStreamLoad)
			}
		}
	}
}

// ensureLoaded transitions coord to loading, seeding its finalize flags
// from current neighbor state, and emits EnsureChunkLoaded.
func (s *Streamer) ensureLoaded(coord voxel.ChunkCoord, cause event.RebuildCause) {
	rec, ok := s.resident[coord]
	if !ok {
		rec = &ChunkRecord{}
		s.resident[coord] = rec
	}
	rec.Status = StatusLoading
	rec.Cause = cause
	rec.Finalize = FinalizeState{
		OwnerNegXReady: s.negNeighborSatisfied(coord, blocks.FaceWest),
		OwnerNegYReady: s.negNeighborSatisfied(coord, blocks.FaceBottom),
		OwnerNegZReady: s.negNeighborSatisfied(coord, blocks.FaceSouth),
	}
	s.queue.EmitNow(event.KindEnsureChunkLoaded, coord, nil)
}

// ensureUnloaded drops coord's record, its published light borders, and
// emits EnsureChunkUnloaded (§4.7).
func (s *Streamer) ensureUnloaded(coord voxel.ChunkCoord) {
	delete(s.resident, coord)
	s.lights.ClearChunk(coord)
	s.queue.EmitNow(event.KindEnsureChunkUnloaded, coord, nil)
}

// negNeighborSatisfied reports whether coord's neighbor in the direction
// of dirFace (one of the three negative-axis faces) counts as ready: the
// neighbor is either not resident (empty) or already finalized.
func (s *Streamer) negNeighborSatisfied(coord voxel.ChunkCoord, dirFace blocks.Face) bool {
	dx, dy, dz := faceDelta(dirFace)
	neighbor := coord.Offset(dx, dy, dz)
	rec, ok := s.resident[neighbor]
	if !ok {
		return true
	}
	return rec.Finalize.Finalized
}

// OnLightingRecomputed handles a completed lighting computation for
// coord: stale (superseded) and out-of-gate results are discarded; a
// fresh in-gate result marks lighting ready and, if finalization was
// already requested, tries to finalize (§4.7).
func (s *Streamer) OnLightingRecomputed(coord voxel.ChunkCoord, rev uint64) {
	rec, ok := s.resident[coord]
	if !ok {
		return
	}
	if rev < s.edits.GetRev(coord) {
		return
	}
	if !s.withinGate(coord) {
		return
	}
	rec.LightingReady = true
	rec.Status = StatusReady
	if rec.Finalize.Requested {
		s.tryFinalize(coord)
	}
}

// OnLightBordersUpdated reacts to coord publishing new light borders.
// changed is the Store.UpdateBorders result: the store only reports a
// single whole-chunk changed flag rather than a per-face diff, so every
// face is treated as potentially changed when changed is true (a
// deliberately coarser, but safe, simplification — a false positive costs
// an extra finalize-check or rebuild request, never a missed one).
func (s *Streamer) OnLightBordersUpdated(coord voxel.ChunkCoord, changed bool) {
	if !changed {
		return
	}
	for _, f := range sixFaces {
		dx, dy, dz := faceDelta(f)
		neighbor := coord.Offset(dx, dy, dz)
		if isPositiveAxisFace(f) {
			s.markOwnerReady(neighbor, f)
			s.requestFinalize(neighbor)
		} else {
			s.requestRebuild(neighbor, event.CauseLightingBorder)
		}
	}
}

func (s *Streamer) markOwnerReady(neighbor voxel.ChunkCoord, sourceFace blocks.Face) {
	rec, ok := s.resident[neighbor]
	if !ok {
		return
	}
	switch sourceFace {
	case blocks.FaceEast:
		rec.Finalize.OwnerNegXReady = true
	case blocks.FaceTop:
		rec.Finalize.OwnerNegYReady = true
	case blocks.FaceNorth:
		rec.Finalize.OwnerNegZReady = true
	}
}

func (s *Streamer) requestFinalize(coord voxel.ChunkCoord) {
	rec, ok := s.resident[coord]
	if !ok {
		return
	}
	rec.Finalize.Requested = true
	s.tryFinalize(coord)
}

// tryFinalize latches Finalized once all three negative-axis owner flags
// are set, the chunk's lighting is ready, and it's within the gate radius
// (§4.7, §8 property 12).
func (s *Streamer) tryFinalize(coord voxel.ChunkCoord) {
	rec, ok := s.resident[coord]
	if !ok || !rec.LightingReady || !s.withinGate(coord) {
		return
	}
	if rec.Finalize.ReadyToFinalize() {
		rec.Finalize.Finalized = true
		s.log.Debug("chunk finalized", zap.Int32("cx", coord.CX), zap.Int32("cy", coord.CY), zap.Int32("cz", coord.CZ))
	}
}

func (s *Streamer) withinGate(coord voxel.ChunkCoord) bool {
	if !s.hasCenter {
		return true
	}
	evictR := int64(s.settings.EvictRadius())
	return s.center.DistanceSq(coord) <= evictR*evictR
}

func (s *Streamer) requestRebuild(coord voxel.ChunkCoord, cause event.RebuildCause) {
	if _, ok := s.resident[coord]; !ok {
		return
	}
	s.queue.EmitNow(event.KindChunkRebuildRequested, coord, event.ChunkRebuildRequested{Cause: cause})
}

var sixFaces = [6]blocks.Face{
	blocks.FaceTop, blocks.FaceBottom,
	blocks.FaceEast, blocks.FaceWest,
	blocks.FaceNorth, blocks.FaceSouth,
}

func isPositiveAxisFace(f blocks.Face) bool {
	return f == blocks.FaceEast || f == blocks.FaceTop || f == blocks.FaceNorth
}

func faceDelta(f blocks.Face) (dx, dy, dz int32) {
	switch f {
	case blocks.FaceEast:
		return 1, 0, 0
	case blocks.FaceWest:
		return -1, 0, 0
	case blocks.FaceTop:
		return 0, 1, 0
	case blocks.FaceBottom:
		return 0, -1, 0
	case blocks.FaceNorth:
		return 0, 0, 1
	default:
		return 0, 0, -1
	}
}
