package microgrid

import "testing"

func cellSet(occ uint8) map[[3]int]bool {
	set := make(map[[3]int]bool)
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				if occ&(1<<uint(occBit(x, y, z))) != 0 {
					set[[3]int{x, y, z}] = true
				}
			}
		}
	}
	return set
}

// TestBoxDecompositionExactCover covers §8 property 6 for all 256 occupancy
// patterns: union of boxes covers exactly the set cells, no double coverage.
func TestBoxDecompositionExactCover(t *testing.T) {
	for occ := 0; occ < 256; occ++ {
		want := cellSet(uint8(occ))
		covered := make(map[[3]int]int)
		for _, b := range BoxDecomposition(uint8(occ)) {
			for x := b.X0; x < b.X1; x++ {
				for y := b.Y0; y < b.Y1; y++ {
					for z := b.Z0; z < b.Z1; z++ {
						covered[[3]int{int(x), int(y), int(z)}]++
					}
				}
			}
		}
		for cell, count := range covered {
			if count > 1 {
				t.Fatalf("occ=%08b: cell %v covered %d times", occ, cell, count)
			}
			if !want[cell] {
				t.Fatalf("occ=%08b: covered cell %v that isn't set", occ, cell)
			}
		}
		for cell := range want {
			if covered[cell] == 0 {
				t.Fatalf("occ=%08b: set cell %v not covered", occ, cell)
			}
		}
	}
}

// TestRectDecompositionExactCover is the 2D analogue of property 6 for the
// 16 boundary masks.
func TestRectDecompositionExactCover(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		want := make(map[[2]int]bool)
		for u := 0; u < 2; u++ {
			for v := 0; v < 2; v++ {
				idx := (v << 1) | u
				if mask&(1<<uint(idx)) != 0 {
					want[[2]int{u, v}] = true
				}
			}
		}
		covered := make(map[[2]int]int)
		for _, r := range RectDecomposition(uint8(mask)) {
			for u := r.U0; u < r.U1; u++ {
				for v := r.V0; v < r.V1; v++ {
					covered[[2]int{int(u), int(v)}]++
				}
			}
		}
		for cell, count := range covered {
			if count > 1 {
				t.Fatalf("mask=%04b: cell %v covered %d times", mask, cell, count)
			}
			if !want[cell] {
				t.Fatalf("mask=%04b: covered cell %v that isn't set", mask, cell)
			}
		}
		for cell := range want {
			if covered[cell] == 0 {
				t.Fatalf("mask=%04b: set cell %v not covered", mask, cell)
			}
		}
	}
}

// TestDecompositionMemoized checks the sync.Once-backed tables return a
// stable slice across repeated calls (idempotent lazy init, spec §9).
func TestDecompositionMemoized(t *testing.T) {
	a := BoxDecomposition(0b10100101)
	b := BoxDecomposition(0b10100101)
	if len(a) != len(b) {
		t.Fatalf("expected stable decomposition across calls")
	}
}
