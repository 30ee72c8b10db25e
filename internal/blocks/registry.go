package blocks

import "fmt"

// BlockType is the per-ID record loaded from the blocks config table.
type BlockType struct {
	ID   ID
	Name string

	Shape Shape
	// HalfProp/FacingProp name the schema properties that drive slab/stairs
	// shape variants ("half_from"/"facing_from" in the config).
	HalfProp   string
	FacingProp string

	BlocksSkylight       bool
	PropagatesBlockLight bool
	Emission             uint8

	// SolidProp/SolidValues override the shape-derived solidity predicate
	// when set; otherwise solidity follows Shape (everything but ShapeNone
	// is solid).
	SolidProp   string
	SolidValues map[string]bool

	MaterialTop    MaterialSelector
	MaterialBottom MaterialSelector
	MaterialSide   MaterialSelector

	Seam SeamPolicy

	Schema *PropertySchema

	numStates       int
	occlusionCache  []uint8
	occupancyCache  []uint8
	materialCache   [][3]MaterialID // indexed by FaceRole
}

// IsSolid reports whether a block in this state occupies its cell.
func (t *BlockType) IsSolid(state State) bool {
	if t.SolidProp != "" {
		val, ok := t.Schema.StatePropValue(state, t.SolidProp)
		if ok {
			return t.SolidValues[val]
		}
	}
	return t.Shape != ShapeNone
}

// OcclusionMask returns the cached 6-bit face occlusion mask for state.
func (t *BlockType) OcclusionMask(state State) uint8 {
	if int(state) < len(t.occlusionCache) {
		return t.occlusionCache[state]
	}
	return occlusionMaskFor(t, state)
}

// Occupancy returns the cached 8-bit micro-occupancy for state.
func (t *BlockType) Occupancy(state State) uint8 {
	if int(state) < len(t.occupancyCache) {
		return t.occupancyCache[state]
	}
	return occupancyFor(t, state)
}

// MaterialFor returns the cached material ID for the given state and face.
func (t *BlockType) MaterialFor(state State, face Face) MaterialID {
	role := RoleForFace(face)
	if int(state) < len(t.materialCache) {
		return t.materialCache[state][role]
	}
	return 0
}

// RegistryError is the config-load error taxonomy for §7's fatal,
// non-recoverable config-error class.
type RegistryError struct {
	Kind RegistryErrorKind
	Type string
	Key  string
}

// RegistryErrorKind enumerates the ways a config table can fail to resolve.
type RegistryErrorKind int

const (
	ErrUnknownMaterial RegistryErrorKind = iota
	ErrDuplicateID
	ErrUnknownProperty
)

func (e *RegistryError) Error() string {
	switch e.Kind {
	case ErrUnknownMaterial:
		return fmt.Sprintf("block %q references unknown material %q", e.Type, e.Key)
	case ErrDuplicateID:
		return fmt.Sprintf("block %q claims id already used by another type (id=%s)", e.Type, e.Key)
	case ErrUnknownProperty:
		return fmt.Sprintf("block %q references unknown property %q", e.Type, e.Key)
	default:
		return "unknown registry error"
	}
}

// BlockTypeConfig is the declarative input for one block type, as produced
// by the config loader (see package config) before registry-side validation
// and cache precomputation.
type BlockTypeConfig struct {
	ID             *ID // nil: assign next free ID
	Name           string
	Shape          Shape
	HalfProp       string
	FacingProp     string
	BlocksSkylight bool
	Propagates     bool
	Emission       uint8
	SolidProp      string
	SolidValues    map[string]bool
	MaterialTop    MaterialSelector
	MaterialBottom MaterialSelector
	MaterialSide   MaterialSelector
	Seam           SeamPolicy
	Schema         *PropertySchema
}

// BlockRegistry is the immutable, fully-resolved block/material table.
type BlockRegistry struct {
	types       map[ID]*BlockType
	byName      map[string]ID
	materials   *MaterialCatalog
	unknownID   ID
	maxAssigned ID
}

// BuildRegistry validates and compiles block configs against a material
// catalog, producing an immutable registry with all per-state caches
// precomputed. unknownBlockName, if non-empty, must name one of the
// configured types and becomes the fallback for unresolved block names.
func BuildRegistry(cfgs []BlockTypeConfig, materials *MaterialCatalog, unknownBlockName string) (*BlockRegistry, error) {
	reg := &BlockRegistry{
		types:     make(map[ID]*BlockType),
		byName:    make(map[string]ID),
		materials: materials,
	}

	// First pass: assign IDs (explicit ids claim their slot; id 0 is always
	// reserved for air, so a config explicitly claiming it fails as a
	// duplicate).
	nextFree := ID(1)
	assigned := make(map[ID]bool)
	assigned[0] = true // air

	resolvedIDs := make([]ID, len(cfgs))
	for i, c := range cfgs {
		if c.ID != nil {
			if assigned[*c.ID] {
				return nil, &RegistryError{Kind: ErrDuplicateID, Type: c.Name, Key: fmt.Sprintf("%d", *c.ID)}
			}
			assigned[*c.ID] = true
			resolvedIDs[i] = *c.ID
		}
	}
	for i := range cfgs {
		if cfgs[i].ID != nil {
			continue
		}
		for assigned[nextFree] {
			nextFree++
		}
		assigned[nextFree] = true
		resolvedIDs[i] = nextFree
	}

	for i, c := range cfgs {
		id := resolvedIDs[i]
		schema := c.Schema
		if schema == nil {
			schema = NewPropertySchema()
		}

		if err := validateSelector(c.MaterialTop, schema, materials, c.Name); err != nil {
			return nil, err
		}
		if err := validateSelector(c.MaterialBottom, schema, materials, c.Name); err != nil {
			return nil, err
		}
		if err := validateSelector(c.MaterialSide, schema, materials, c.Name); err != nil {
			return nil, err
		}

		bt := &BlockType{
			ID:             id,
			Name:           c.Name,
			Shape:          c.Shape,
			HalfProp:       c.HalfProp,
			FacingProp:     c.FacingProp,
			BlocksSkylight: c.BlocksSkylight,
			PropagatesBlockLight: c.Propagates,
			Emission:       c.Emission,
			SolidProp:      c.SolidProp,
			SolidValues:    c.SolidValues,
			MaterialTop:    c.MaterialTop,
			MaterialBottom: c.MaterialBottom,
			MaterialSide:   c.MaterialSide,
			Seam:           c.Seam,
			Schema:         schema,
		}

		numStates := 1
		for _, radix := range schema.radices() {
			numStates *= radix
		}
		if numStates == 0 {
			numStates = 1
		}
		bt.numStates = numStates
		bt.occlusionCache = make([]uint8, numStates)
		bt.occupancyCache = make([]uint8, numStates)
		bt.materialCache = make([][3]MaterialID, numStates)
		for s := 0; s < numStates; s++ {
			st := State(s)
			bt.occlusionCache[s] = occlusionMaskFor(bt, st)
			bt.occupancyCache[s] = occupancyFor(bt, st)
			bt.materialCache[s] = [3]MaterialID{
				resolveMaterialID(c.MaterialTop, schema, st, materials),
				resolveMaterialID(c.MaterialBottom, schema, st, materials),
				resolveMaterialID(c.MaterialSide, schema, st, materials),
			}
		}

		reg.types[id] = bt
		reg.byName[c.Name] = id
		if id > reg.maxAssigned {
			reg.maxAssigned = id
		}
	}

	reg.unknownID = 0
	if unknownBlockName != "" {
		id, ok := reg.byName[unknownBlockName]
		if !ok {
			return nil, &RegistryError{Kind: ErrUnknownProperty, Type: unknownBlockName, Key: "unknown_block"}
		}
		reg.unknownID = id
	}

	return reg, nil
}

func validateSelector(sel MaterialSelector, schema *PropertySchema, materials *MaterialCatalog, typeName string) error {
	if sel.ByProp != "" {
		found := false
		for _, p := range schema.Properties() {
			if p == sel.ByProp {
				found = true
				break
			}
		}
		if !found {
			return &RegistryError{Kind: ErrUnknownProperty, Type: typeName, Key: sel.ByProp}
		}
		for _, key := range sel.Choices {
			if _, ok := materials.GetID(key); !ok {
				return &RegistryError{Kind: ErrUnknownMaterial, Type: typeName, Key: key}
			}
		}
		return nil
	}
	if sel.Literal == "" {
		return nil
	}
	if _, ok := materials.GetID(sel.Literal); !ok {
		return &RegistryError{Kind: ErrUnknownMaterial, Type: typeName, Key: sel.Literal}
	}
	return nil
}

func resolveMaterialID(sel MaterialSelector, schema *PropertySchema, state State, materials *MaterialCatalog) MaterialID {
	key := sel.Resolve(schema, state)
	if key == "" {
		return 0
	}
	id, ok := materials.GetID(key)
	if !ok {
		return 0
	}
	return id
}

// Get returns the block type for id, or nil if unregistered.
func (r *BlockRegistry) Get(id ID) *BlockType {
	return r.types[id]
}

// ResolveName maps a configured type name to its Block (state=0), falling
// back to the registry's configured unknown-block ID when name is not
// registered (§7: non-fatal).
func (r *BlockRegistry) ResolveName(name string) Block {
	if id, ok := r.byName[name]; ok {
		return Block{ID: id, State: 0}
	}
	return Block{ID: r.unknownID, State: 0}
}

// Materials returns the registry's material catalog.
func (r *BlockRegistry) Materials() *MaterialCatalog { return r.materials }

// IsOccluding reports whether block `here`'s face `f` is occluded from the
// `there` neighbor's side, honoring the seam policy (§9 open question:
// strictly ID-only comparison, state is never consulted).
func IsOccluding(reg *BlockRegistry, here, there Block, f Face) bool {
	ht := reg.Get(here.ID)
	if ht == nil {
		return false
	}
	if ht.Seam.DontOccludeSame && here.ID == there.ID {
		return false
	}
	tt := reg.Get(there.ID)
	if tt == nil {
		return false
	}
	opposite := oppositeFace(f)
	return tt.OcclusionMask(there.State)&opposite.bit() != 0
}

func oppositeFace(f Face) Face {
	switch f {
	case FaceTop:
		return FaceBottom
	case FaceBottom:
		return FaceTop
	case FaceEast:
		return FaceWest
	case FaceWest:
		return FaceEast
	case FaceNorth:
		return FaceSouth
	case FaceSouth:
		return FaceNorth
	}
	return f
}
