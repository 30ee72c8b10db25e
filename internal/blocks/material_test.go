package blocks

import "testing"

// TestMaterialIDDeterminism covers §8 property 2: re-parsing the same table
// produces identical ID assignments regardless of map iteration order.
func TestMaterialIDDeterminism(t *testing.T) {
	entries := map[string]Material{
		"zebra":  {TextureCandidates: []string{"a.png"}},
		"apple":  {TextureCandidates: []string{"b.png"}},
		"mango":  {TextureCandidates: []string{"c.png"}},
	}

	first := NewMaterialCatalog(entries)
	second := NewMaterialCatalog(entries)

	for key := range entries {
		id1, ok1 := first.GetID(key)
		id2, ok2 := second.GetID(key)
		if !ok1 || !ok2 || id1 != id2 {
			t.Fatalf("material %q: ids differ across parses: %v/%v vs %v/%v", key, id1, ok1, id2, ok2)
		}
	}

	// Lexicographic order after the reserved sentinel at 0.
	appleID, _ := first.GetID("apple")
	mangoID, _ := first.GetID("mango")
	zebraID, _ := first.GetID("zebra")
	if !(appleID < mangoID && mangoID < zebraID) {
		t.Fatalf("expected lexicographic id order, got apple=%d mango=%d zebra=%d", appleID, mangoID, zebraID)
	}
	if appleID == 0 || mangoID == 0 || zebraID == 0 {
		t.Fatalf("id 0 must remain the reserved sentinel, not assigned to a configured key")
	}
}

func TestMaterialCatalogUnknownFallsBackToSentinel(t *testing.T) {
	cat := NewMaterialCatalog(map[string]Material{"stone": {}})
	if _, ok := cat.GetID("does-not-exist"); ok {
		t.Fatalf("expected unknown key to report not-found")
	}
	sentinel := cat.Get(9999)
	if sentinel.ID != 0 {
		t.Fatalf("out-of-range Get should return the sentinel, got id=%d", sentinel.ID)
	}
}
