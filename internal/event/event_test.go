package event

import (
	"testing"

	"github.com/nathanial/geist-sub002/internal/voxel"
)

func TestEmitNowDrainsInInsertionOrder(t *testing.T) {
	q := NewQueue()
	idA := q.EmitNow(KindTick, voxel.ChunkCoord{}, nil)
	idB := q.EmitNow(KindTick, voxel.ChunkCoord{}, nil)

	envA, ok := q.PopReady()
	if !ok || envA.ID != idA {
		t.Fatalf("expected first pop to return id %d, got %+v ok=%v", idA, envA, ok)
	}
	envB, ok := q.PopReady()
	if !ok || envB.ID != idB {
		t.Fatalf("expected second pop to return id %d, got %+v ok=%v", idB, envB, ok)
	}
	if _, ok := q.PopReady(); ok {
		t.Fatalf("expected queue to be empty after draining both events")
	}
}

func TestEmitAfterDoesNotSurfaceBeforeItsTick(t *testing.T) {
	q := NewQueue()
	coord := voxel.ChunkCoord{CX: 1, CY: 0, CZ: -2}
	q.EmitAfter(2, KindEnsureChunkLoaded, coord, nil)

	if _, ok := q.PopReady(); ok {
		t.Fatalf("event scheduled 2 ticks out should not be ready at tick 0")
	}
	q.AdvanceTick()
	if _, ok := q.PopReady(); ok {
		t.Fatalf("event scheduled 2 ticks out should not be ready at tick 1")
	}
	q.AdvanceTick()
	env, ok := q.PopReady()
	if !ok {
		t.Fatalf("expected event to be ready at tick 2")
	}
	if env.Kind != KindEnsureChunkLoaded || env.Coord != coord {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestEventIDsAreMonotoneAndNonZero(t *testing.T) {
	q := NewQueue()
	var last uint64
	for i := 0; i < 10; i++ {
		id := q.EmitNow(KindTick, voxel.ChunkCoord{}, nil)
		if id == 0 {
			t.Fatalf("event id must never be zero")
		}
		if id <= last {
			t.Fatalf("expected strictly increasing ids, got %d after %d", id, last)
		}
		last = id
	}
}

func TestAdvanceTickPrunesEmptyBuckets(t *testing.T) {
	q := NewQueue()
	q.EmitNow(KindTick, voxel.ChunkCoord{}, nil)
	env, ok := q.PopReady()
	if !ok {
		t.Fatalf("expected the emitted event to be ready")
	}
	_ = env
	q.AdvanceTick()
	if q.byTick.Len() != 0 {
		t.Fatalf("expected the emptied tick-0 bucket to be pruned, btree len = %d", q.byTick.Len())
	}
}

func TestPayloadsRoundTripThroughEnvelope(t *testing.T) {
	q := NewQueue()
	coord := voxel.ChunkCoord{CX: 3, CY: 0, CZ: 4}
	q.EmitNow(KindChunkRebuildRequested, coord, ChunkRebuildRequested{Cause: CauseLightingBorder})

	env, ok := q.PopReady()
	if !ok {
		t.Fatalf("expected the rebuild event to be ready")
	}
	payload, ok := env.Payload.(ChunkRebuildRequested)
	if !ok {
		t.Fatalf("expected ChunkRebuildRequested payload, got %T", env.Payload)
	}
	if payload.Cause != CauseLightingBorder {
		t.Fatalf("Cause = %v, want CauseLightingBorder", payload.Cause)
	}
}

func TestPopReadyIgnoresFutureTicks(t *testing.T) {
	q := NewQueue()
	q.EmitAfter(5, KindTick, voxel.ChunkCoord{}, nil)
	q.EmitNow(KindViewCenterChanged, voxel.ChunkCoord{CX: 9}, nil)

	env, ok := q.PopReady()
	if !ok || env.Kind != KindViewCenterChanged {
		t.Fatalf("expected the immediate event to pop first, got %+v ok=%v", env, ok)
	}
	if _, ok := q.PopReady(); ok {
		t.Fatalf("the tick+5 event must not be ready yet")
	}
}
