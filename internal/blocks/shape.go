package blocks

// MaterialSelector resolves a face's material key, either as a literal or as
// a lookup keyed by one of the type's state properties (the "by" selector in
// the original config schema).
type MaterialSelector struct {
	Literal string
	ByProp  string
	Choices map[string]string
}

// Resolve returns the material key this selector names for the given state.
func (s MaterialSelector) Resolve(schema *PropertySchema, state State) string {
	if s.ByProp == "" {
		return s.Literal
	}
	val, ok := schema.StatePropValue(state, s.ByProp)
	if !ok {
		return ""
	}
	return s.Choices[val]
}

// occlusionMaskFor computes the 6-bit occlusion mask for one (shape, state)
// combination. Bit order matches Face's iota order: Top,Bottom,East,West,
// North,South.
func occlusionMaskFor(t *BlockType, state State) uint8 {
	switch t.Shape {
	case ShapeCube, ShapeAxisCube:
		return 0x3F
	case ShapeSlab:
		mask := FaceEast.bit() | FaceWest.bit() | FaceNorth.bit() | FaceSouth.bit()
		half, _ := t.Schema.StatePropValue(state, t.HalfProp)
		if half == "top" {
			mask |= FaceTop.bit()
		} else {
			mask |= FaceBottom.bit()
		}
		return mask
	case ShapeStairs:
		// Stairs always occlude the bottom (they rest on a full lower step)
		// and the face opposite their facing (the solid riser back); the two
		// side faces and the leading face are left open for the step cutout.
		mask := FaceBottom.bit()
		facing, _ := t.Schema.StatePropValue(state, t.FacingProp)
		switch facing {
		case "north":
			mask |= FaceSouth.bit()
		case "south":
			mask |= FaceNorth.bit()
		case "east":
			mask |= FaceWest.bit()
		case "west":
			mask |= FaceEast.bit()
		}
		return mask
	case ShapePane, ShapeNone:
		return 0
	default:
		return 0
	}
}

// occupancyFor computes the 8-bit 2x2x2 micro-occupancy for one (shape,
// state) combination. Bit index is ((y&1)<<2)|((z&1)<<1)|(x&1).
func occupancyFor(t *BlockType, state State) uint8 {
	switch t.Shape {
	case ShapeCube, ShapeAxisCube:
		return 0xFF
	case ShapeSlab:
		half, _ := t.Schema.StatePropValue(state, t.HalfProp)
		if half == "top" {
			return 0xF0 // y=1 half
		}
		return 0x0F // y=0 half
	case ShapeStairs:
		half, _ := t.Schema.StatePropValue(state, t.HalfProp)
		facing, _ := t.Schema.StatePropValue(state, t.FacingProp)
		var occ uint8
		if half == "top" {
			occ = 0xF0
		} else {
			occ = 0x0F
		}
		// Add the single step quadrant on the opposite half, at the
		// micro-cell backing the facing direction.
		stepX, stepZ := 0, 0
		switch facing {
		case "east":
			stepX = 1
		case "south":
			stepZ = 1
		}
		stepY := 1
		if half == "top" {
			stepY = 0
		}
		idx := uint8((stepY&1)<<2) | uint8((stepZ&1)<<1) | uint8(stepX&1)
		occ |= 1 << idx
		return occ
	case ShapePane:
		// Thin post approximation: occupies the (x=0,z=0) micro-column.
		return 0x11
	case ShapeNone:
		return 0x00
	default:
		return 0x00
	}
}
