package voxel

import (
	"testing"

	"github.com/nathanial/geist-sub002/internal/blocks"
)

// TestChunkIndexingBijection covers §8 property 3.
func TestChunkIndexingBijection(t *testing.T) {
	sx, sy, sz := 3, 4, 5
	buf := NewChunkBuf(ChunkCoord{}, sx, sy, sz)
	seen := make(map[int]bool)
	for x := 0; x < sx; x++ {
		for y := 0; y < sy; y++ {
			for z := 0; z < sz; z++ {
				idx := buf.idx(x, y, z)
				if idx < 0 || idx >= sx*sy*sz {
					t.Fatalf("idx(%d,%d,%d)=%d out of range [0,%d)", x, y, z, idx, sx*sy*sz)
				}
				if seen[idx] {
					t.Fatalf("idx(%d,%d,%d)=%d collides with a previous cell", x, y, z, idx)
				}
				seen[idx] = true
			}
		}
	}
	if len(seen) != sx*sy*sz {
		t.Fatalf("expected every index touched exactly once, got %d of %d", len(seen), sx*sy*sz)
	}
}

// TestBufferLengthNormalization covers §8 property 5.
func TestBufferLengthNormalization(t *testing.T) {
	sx, sy, sz := 2, 2, 2
	want := sx * sy * sz

	short := FromBlocksLocal(ChunkCoord{}, sx, sy, sz, []blocks.Block{{ID: 1}})
	if len(short.blocks) != want {
		t.Fatalf("short input: len=%d, want %d", len(short.blocks), want)
	}

	long := make([]blocks.Block, want+10)
	for i := range long {
		long[i] = blocks.Block{ID: 7}
	}
	padded := FromBlocksLocal(ChunkCoord{}, sx, sy, sz, long)
	if len(padded.blocks) != want {
		t.Fatalf("long input: len=%d, want %d", len(padded.blocks), want)
	}
}

// TestWorldContainmentConsistency covers §8 property 4 at the ChunkBuf
// level: translating a world coordinate into local space and reading it
// back must match a direct local read.
func TestWorldContainmentConsistency(t *testing.T) {
	coord := ChunkCoord{CX: 1, CY: -2, CZ: 3}
	sx, sy, sz := 4, 4, 4
	buf := NewChunkBuf(coord, sx, sy, sz)
	buf.SetLocal(1, 2, 3, blocks.Block{ID: 9})

	bx, by, bz := buf.Base()
	wx, wy, wz := bx+1, by+2, bz+3

	x, y, z, ok := buf.LocalFromWorld(wx, wy, wz)
	if !ok {
		t.Fatalf("expected world coord inside chunk to translate successfully")
	}
	if got := buf.GetLocal(x, y, z); got != (blocks.Block{ID: 9}) {
		t.Fatalf("GetLocal(%d,%d,%d) = %+v, want id=9", x, y, z, got)
	}

	_, _, _, ok = buf.LocalFromWorld(bx+int32(sx), by, bz)
	if ok {
		t.Fatalf("expected world coord one past the edge to be outside the chunk")
	}
}
