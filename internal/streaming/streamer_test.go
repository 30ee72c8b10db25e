package streaming

import (
	"testing"

	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/config"
	"github.com/nathanial/geist-sub002/internal/edit"
	"github.com/nathanial/geist-sub002/internal/event"
	"github.com/nathanial/geist-sub002/internal/lighting"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

func newTestStreamer(loadRadius int32) (*Streamer, *event.Queue) {
	settings := config.NewStreamingSettings(loadRadius)
	q := event.NewQueue()
	lights := lighting.NewStore(4, 4, 4)
	edits := edit.NewStore(4, 4, 4)
	return NewStreamer(settings, q, lights, edits), q
}

func drainAllEvents(q *event.Queue) []event.Envelope {
	var out []event.Envelope
	for {
		e, ok := q.PopReady()
		if !ok {
			break
		}
		out = append(out, e)
	}
	return out
}

// TestFinalizeFlagsDefaultTrueWhenNeighborsAbsent covers §4.7's "the flag
// is set pre-emptively if that neighbor is empty".
func TestFinalizeFlagsDefaultTrueWhenNeighborsAbsent(t *testing.T) {
	s, _ := newTestStreamer(0)
	s.SetViewCenter(voxel.ChunkCoord{})

	rec, ok := s.Resident(voxel.ChunkCoord{})
	if !ok {
		t.Fatalf("expected the view center chunk to be resident")
	}
	if !rec.Finalize.OwnerNegXReady || !rec.Finalize.OwnerNegYReady || !rec.Finalize.OwnerNegZReady {
		t.Fatalf("expected all owner flags pre-set when no neighbors are resident, got %+v", rec.Finalize)
	}
}

// TestFinalizationGateRequiresAllThreeNeighbors covers §8 property 12: a
// chunk may not finalize until all three negative-axis owner flags are
// set, even once its own lighting is ready.
func TestFinalizationGateRequiresAllThreeNeighbors(t *testing.T) {
	s, _ := newTestStreamer(4)

	center := voxel.ChunkCoord{CX: 5, CY: 5, CZ: 5}
	negX := center.Offset(-1, 0, 0)
	negY := center.Offset(0, -1, 0)
	negZ := center.Offset(0, 0, -1)

	s.resident[negX] = &ChunkRecord{Status: StatusLoading}
	s.resident[negY] = &ChunkRecord{Status: StatusLoading}
	s.resident[negZ] = &ChunkRecord{Status: StatusLoading}

	s.ensureLoaded(center, event.CauseStreamLoad)
	rec := s.resident[center]
	if rec.Finalize.OwnerNegXReady || rec.Finalize.OwnerNegYReady || rec.Finalize.OwnerNegZReady {
		t.Fatalf("expected all owner flags false while neighbors are unfinalized, got %+v", rec.Finalize)
	}

	rec.LightingReady = true
	rec.Finalize.Requested = true
	s.tryFinalize(center)
	if rec.Finalize.Finalized {
		t.Fatalf("must not finalize before any owner flag is set")
	}

	s.markOwnerReady(center, blocks.FaceEast)
	s.tryFinalize(center)
	if rec.Finalize.Finalized {
		t.Fatalf("must not finalize with only one of three owner flags set")
	}

	s.markOwnerReady(center, blocks.FaceTop)
	s.tryFinalize(center)
	if rec.Finalize.Finalized {
		t.Fatalf("must not finalize with only two of three owner flags set")
	}

	s.markOwnerReady(center, blocks.FaceNorth)
	s.tryFinalize(center)
	if !rec.Finalize.Finalized {
		t.Fatalf("expected finalize to latch once all three owner flags and lighting are ready")
	}
}

// TestSetViewCenterSingleStepMoveAddsShellWithoutEvicting is §8 scenario
// S4: base radius 2 gives load_radius=3, evict_radius=4. Moving the view
// center by one chunk pulls in the newly-in-range shell but (by the
// triangle inequality, since evict trails load by exactly one) evicts
// nothing yet.
func TestSetViewCenterSingleStepMoveAddsShellWithoutEvicting(t *testing.T) {
	s, q := newTestStreamer(3)

	s.SetViewCenter(voxel.ChunkCoord{})
	drainAllEvents(q)

	s.SetViewCenter(voxel.ChunkCoord{CX: 1})
	events := drainAllEvents(q)

	var unloadedAny, loadedFarShell bool
	for _, e := range events {
		switch e.Kind {
		case event.KindEnsureChunkUnloaded:
			unloadedAny = true
		case event.KindEnsureChunkLoaded:
			if e.Coord == (voxel.ChunkCoord{CX: 4}) {
				loadedFarShell = true
			}
		}
	}
	if unloadedAny {
		t.Fatalf("a single-shell move must not evict any resident chunk, got events %+v", events)
	}
	if !loadedFarShell {
		t.Fatalf("expected the newly-in-range chunk (4,0,0) to receive EnsureChunkLoaded")
	}
}

// TestEnsureChunkUnloadedClearsLightBorders covers §4.7's "EnsureChunkUnloaded
// ... clears its lighting and finalize state".
func TestEnsureChunkUnloadedClearsLightBorders(t *testing.T) {
	s, q := newTestStreamer(0)
	coord := voxel.ChunkCoord{}
	s.SetViewCenter(coord)
	drainAllEvents(q)

	grid := lighting.NewGrid(4, 4, 4)
	s.lights.UpdateBorders(coord, lighting.BordersFrom(grid))

	s.ensureUnloaded(coord)
	if _, ok := s.Resident(coord); ok {
		t.Fatalf("expected coord to no longer be resident after unload")
	}
	if nb := s.lights.GetNeighborBorders(coord.Offset(1, 0, 0)); nb.Block[blocks.FaceWest] != nil {
		t.Fatalf("expected the unloaded chunk's published borders to be cleared")
	}
}

// TestOnLightBordersUpdatedRequestsRebuildForNegativeNeighbor covers
// §4.7's "for each negative-axis neighbor whose face changed, we
// re-request a mesh rebuild".
func TestOnLightBordersUpdatedRequestsRebuildForNegativeNeighbor(t *testing.T) {
	s, q := newTestStreamer(0)
	center := voxel.ChunkCoord{CX: 5}
	negNeighbor := center.Offset(-1, 0, 0)
	s.resident[center] = &ChunkRecord{Status: StatusReady}
	s.resident[negNeighbor] = &ChunkRecord{Status: StatusReady}

	s.OnLightBordersUpdated(center, true)
	events := drainAllEvents(q)

	found := false
	for _, e := range events {
		if e.Kind == event.KindChunkRebuildRequested && e.Coord == negNeighbor {
			payload, ok := e.Payload.(event.ChunkRebuildRequested)
			if !ok || payload.Cause != event.CauseLightingBorder {
				t.Fatalf("unexpected rebuild payload: %+v", e.Payload)
			}
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a ChunkRebuildRequested event for the negative-x neighbor, got %+v", events)
	}
}
