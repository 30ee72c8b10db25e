// Package event implements the driver's tick-indexed FIFO event queue
// (§4.8): a monotone tick counter with one insertion-ordered bucket per
// tick, so delayed events (emit_after) and immediate events (emit_now)
// drain in the same order regardless of how far in advance they were
// scheduled.
package event

import (
	"github.com/google/btree"

	"github.com/nathanial/geist-sub002/internal/blocks"
	"github.com/nathanial/geist-sub002/internal/voxel"
)

// Kind enumerates the queue's event taxonomy (§4.8).
type Kind uint8

const (
	KindTick Kind = iota
	KindMovementRequested
	KindRaycastEditRequested
	KindViewCenterChanged
	KindEnsureChunkLoaded
	KindEnsureChunkUnloaded
	KindChunkRebuildRequested
	KindBuildJobRequested
	KindBuildJobCompleted
	KindLightEmitterAdded
	KindLightEmitterRemoved
	KindLightBordersUpdated
	KindStructurePoseUpdated
	KindUIToggle
)

// RebuildCause tags why a ChunkRebuildRequested event was raised.
type RebuildCause uint8

const (
	CauseEdit RebuildCause = iota
	CauseLightingBorder
	CauseStreamLoad
	CauseHotReload
)

// Payload variants, one per Kind that carries data beyond its coordinate.
type MovementRequested struct {
	DtMs     uint32
	Yaw      float32
	WalkMode bool
}

type RaycastEditRequested struct {
	Place bool
	Block blocks.Block
}

type ChunkRebuildRequested struct {
	Cause RebuildCause
}

type BuildJobRequested struct {
	Rev   uint64
	JobID uint64
}

type BuildJobCompleted struct {
	Rev   uint64
	JobID uint64
}

type LightEmitterAdded struct {
	WX, WY, WZ int32
	Level      uint8
	IsBeacon   bool
}

type LightEmitterRemoved struct {
	WX, WY, WZ int32
}

type StructurePoseUpdated struct {
	StructureID uint64
}

type UIToggle struct {
	Name string
	On   bool
}

// Envelope is one queued event: its allocation-order ID, the tick it's
// filed under, the chunk coordinate it concerns (zero value for
// non-chunk-scoped kinds), and a kind-specific payload.
type Envelope struct {
	ID      uint64
	Tick    uint64
	Kind    Kind
	Coord   voxel.ChunkCoord
	Payload any
}

type bucket struct {
	tick  uint64
	items []Envelope
}

func lessBucket(a, b *bucket) bool { return a.tick < b.tick }

// Queue is the driver-owned tick-indexed FIFO (§4.8). It is not
// internally synchronized: per §5's scheduling model, exactly one driver
// thread owns the event queue, so no lock is needed (mirrors the
// reference engine's single-owner BTreeMap).
type Queue struct {
	byTick *btree.BTreeG[*bucket]
	now    uint64
	nextID uint64
}

// NewQueue returns an empty queue starting at tick 0.
func NewQueue() *Queue {
	return &Queue{byTick: btree.NewG(32, lessBucket), now: 0, nextID: 1}
}

func (q *Queue) allocID() uint64 {
	id := q.nextID
	q.nextID++
	if q.nextID == 0 {
		q.nextID = 1
	}
	return id
}

func (q *Queue) bucketAt(tick uint64, create bool) *bucket {
	probe := &bucket{tick: tick}
	if b, ok := q.byTick.Get(probe); ok {
		return b
	}
	if !create {
		return nil
	}
	b := &bucket{tick: tick}
	q.byTick.ReplaceOrInsert(b)
	return b
}

// EmitNow files kind/payload into the current tick's bucket, returning its
// monotone event ID.
func (q *Queue) EmitNow(kind Kind, coord voxel.ChunkCoord, payload any) uint64 {
	return q.EmitAt(q.now, kind, coord, payload)
}

// EmitAt files an event under an explicit tick (used by EmitNow/EmitAfter,
// and directly by callers replaying a recorded schedule).
func (q *Queue) EmitAt(tick uint64, kind Kind, coord voxel.ChunkCoord, payload any) uint64 {
	id := q.allocID()
	b := q.bucketAt(tick, true)
	b.items = append(b.items, Envelope{ID: id, Tick: tick, Kind: kind, Coord: coord, Payload: payload})
	return id
}

// EmitAfter files kind/payload delta ticks after now.
func (q *Queue) EmitAfter(delta uint64, kind Kind, coord voxel.ChunkCoord, payload any) uint64 {
	return q.EmitAt(q.now+delta, kind, coord, payload)
}

// PopReady drains one event from the current tick's bucket in insertion
// order, or reports ok=false if the current tick has nothing queued.
func (q *Queue) PopReady() (Envelope, bool) {
	b := q.bucketAt(q.now, false)
	if b == nil || len(b.items) == 0 {
		return Envelope{}, false
	}
	env := b.items[0]
	b.items = b.items[1:]
	return env, true
}

// AdvanceTick removes the current tick's bucket if it emptied out, then
// increments now.
func (q *Queue) AdvanceTick() {
	if b := q.bucketAt(q.now, false); b != nil && len(b.items) == 0 {
		q.byTick.Delete(b)
	}
	q.now++
}

// Now returns the queue's current tick.
func (q *Queue) Now() uint64 { return q.now }
