package blocks

import "sort"

// Material is a named texture set resolved to a stable MaterialID.
type Material struct {
	ID                MaterialID
	Key               string
	TextureCandidates []string
	RenderTag         string
}

// MaterialCatalog assigns deterministic IDs to material keys: ID 0 is the
// reserved "unknown fallback" sentinel; remaining keys receive ascending IDs
// in lexicographic order, so re-parsing the same table always reproduces the
// same assignment (§8 property 2).
type MaterialCatalog struct {
	materials []Material
	byKey     map[string]MaterialID
}

// NewMaterialCatalog builds a catalog from a key->entry map, assigning IDs
// lexicographically by key. Entry order in the input is irrelevant.
func NewMaterialCatalog(entries map[string]Material) *MaterialCatalog {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cat := &MaterialCatalog{
		byKey: make(map[string]MaterialID, len(keys)+1),
	}
	// ID 0: reserved sentinel, not tied to any configured key.
	cat.materials = append(cat.materials, Material{ID: 0, Key: "<unknown>"})

	for _, k := range keys {
		m := entries[k]
		m.Key = k
		m.ID = MaterialID(len(cat.materials))
		cat.materials = append(cat.materials, m)
		cat.byKey[k] = m.ID
	}
	return cat
}

// GetID resolves a material key to its ID, or (0, false) if unknown — the
// caller falls back to the sentinel per §7's non-fatal resolution policy.
func (c *MaterialCatalog) GetID(key string) (MaterialID, bool) {
	id, ok := c.byKey[key]
	return id, ok
}

// Get returns the material at id, or the sentinel if id is out of range.
func (c *MaterialCatalog) Get(id MaterialID) Material {
	if int(id) >= len(c.materials) {
		return c.materials[0]
	}
	return c.materials[id]
}

// Len returns the number of materials including the sentinel.
func (c *MaterialCatalog) Len() int { return len(c.materials) }
