package blocks

// PropertySchema orders a block type's state properties. Each property has a
// name and an ordered list of admissible string values; the first value is
// the default used when a property is omitted from a pack request. State is
// a mixed-radix integer over these properties in the schema's insertion
// order, matching the original source's serde-ordered property maps.
type PropertySchema struct {
	props []property
	index map[string]int
}

type property struct {
	name   string
	values []string
}

// NewPropertySchema returns an empty schema; properties are appended with
// AddProperty. Their order is significant: it fixes the mixed-radix place
// values used by PackState.
func NewPropertySchema() *PropertySchema {
	return &PropertySchema{index: make(map[string]int)}
}

// AddProperty appends a property with its ordered admissible values. The
// first value becomes the default for PackState when the property is
// omitted from the input assignment.
func (s *PropertySchema) AddProperty(name string, values []string) *PropertySchema {
	s.index[name] = len(s.props)
	s.props = append(s.props, property{name: name, values: append([]string(nil), values...)})
	return s
}

// radices returns each property's value-count, in schema order.
func (s *PropertySchema) radices() []int {
	r := make([]int, len(s.props))
	for i, p := range s.props {
		r[i] = len(p.values)
	}
	return r
}

// PackState encodes a partial property assignment into a State. Properties
// absent from assign receive the first (default) admissible value. Unknown
// property names in assign are ignored.
func (s *PropertySchema) PackState(assign map[string]string) State {
	var state uint32
	var multiplier uint32 = 1
	for _, p := range s.props {
		valueIdx := 0
		if v, ok := assign[p.name]; ok {
			for j, candidate := range p.values {
				if candidate == v {
					valueIdx = j
					break
				}
			}
		}
		state += uint32(valueIdx) * multiplier
		multiplier *= uint32(len(p.values))
	}
	return State(state)
}

// StatePropValue recovers the string value of property name encoded in
// state. Returns ("", false) if name is not part of the schema.
func (s *PropertySchema) StatePropValue(state State, name string) (string, bool) {
	i, ok := s.index[name]
	if !ok {
		return "", false
	}
	radices := s.radices()
	rem := uint32(state)
	for j := 0; j < i; j++ {
		rem /= uint32(radices[j])
	}
	valueIdx := int(rem % uint32(radices[i]))
	return s.props[i].values[valueIdx], true
}

// Properties returns the schema's property names in order.
func (s *PropertySchema) Properties() []string {
	names := make([]string, len(s.props))
	for i, p := range s.props {
		names[i] = p.name
	}
	return names
}
