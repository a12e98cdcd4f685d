// Package layout derives shape-only storage layouts from type descriptors.
//
// A Layout mirrors a typedef.Type but is stripped of names: struct fields
// are identified by selectors, enum variants by their zero-based declaration
// index. A layout derived from a descriptor is purely a function of that
// descriptor, so two independently derived layouts for structurally
// identical descriptors are deep-equal.
package layout

// Kind discriminates the shape of a layout node.
type Kind uint8

const (
	KindFixed Kind = iota
	KindStruct
	KindEnum
	KindTuple
	KindArray
	KindFixedArray
	KindByteArray
)

var kindNames = [...]string{
	KindFixed:      "fixed",
	KindStruct:     "struct",
	KindEnum:       "enum",
	KindTuple:      "tuple",
	KindArray:      "array",
	KindFixedArray: "fixed_array",
	KindByteArray:  "byte_array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Layout is a recursive tree describing how a typed value maps to a flat
// run of fixed-width words.
type Layout struct {
	Widths []uint        // Fixed: bit widths of a flat run of primitives
	Fields []FieldLayout // Struct, Enum
	Elems  []*Layout     // Tuple
	Elem   *Layout       // Array, FixedArray element
	Count  int           // FixedArray length
	Kind   Kind
}

// FieldLayout pairs a selector with the field's (or variant's) layout.
// Struct selectors are name hashes; enum selectors are declaration indices.
type FieldLayout struct {
	Layout   *Layout
	Selector uint64
}

// SizeHint returns the number of words a value of this layout serializes
// to, and whether that number is static. Layouts containing dynamic arrays
// or byte arrays, and enums whose variants differ in static size, have no
// static size.
func (l *Layout) SizeHint() (int, bool) {
	switch l.Kind {
	case KindFixed:
		return len(l.Widths), true

	case KindStruct:
		total := 0
		for _, f := range l.Fields {
			n, ok := f.Layout.SizeHint()
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true

	case KindTuple:
		total := 0
		for _, e := range l.Elems {
			n, ok := e.SizeHint()
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true

	case KindEnum:
		if len(l.Fields) == 0 {
			return 1, true
		}
		first, ok := l.Fields[0].Layout.SizeHint()
		if !ok {
			return 0, false
		}
		for _, v := range l.Fields[1:] {
			n, ok := v.Layout.SizeHint()
			if !ok || n != first {
				return 0, false
			}
		}
		return 1 + first, true

	case KindFixedArray:
		n, ok := l.Elem.SizeHint()
		if !ok {
			return 0, false
		}
		return n * l.Count, true

	default: // Array, ByteArray
		return 0, false
	}
}

// Equal reports deep structural equality.
func (l *Layout) Equal(other *Layout) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.Kind != other.Kind || l.Count != other.Count {
		return false
	}
	if len(l.Widths) != len(other.Widths) ||
		len(l.Fields) != len(other.Fields) ||
		len(l.Elems) != len(other.Elems) {
		return false
	}
	for i, w := range l.Widths {
		if w != other.Widths[i] {
			return false
		}
	}
	for i, f := range l.Fields {
		if f.Selector != other.Fields[i].Selector || !f.Layout.Equal(other.Fields[i].Layout) {
			return false
		}
	}
	for i, e := range l.Elems {
		if !e.Equal(other.Elems[i]) {
			return false
		}
	}
	if l.Elem != nil || other.Elem != nil {
		return l.Elem.Equal(other.Elem)
	}
	return true
}

// PackedWidths flattens the layout into the ordered run of primitive bit
// widths used for bit-packing. Only layouts made of fixed runs, structs,
// tuples, and fixed arrays are packable; arrays, byte arrays, and enums
// report false.
func (l *Layout) PackedWidths() ([]uint, bool) {
	var widths []uint
	if !appendPackedWidths(l, &widths) {
		return nil, false
	}
	return widths, true
}

func appendPackedWidths(l *Layout, widths *[]uint) bool {
	switch l.Kind {
	case KindFixed:
		*widths = append(*widths, l.Widths...)
		return true
	case KindStruct:
		for _, f := range l.Fields {
			if !appendPackedWidths(f.Layout, widths) {
				return false
			}
		}
		return true
	case KindTuple:
		for _, e := range l.Elems {
			if !appendPackedWidths(e, widths) {
				return false
			}
		}
		return true
	case KindFixedArray:
		for i := 0; i < l.Count; i++ {
			if !appendPackedWidths(l.Elem, widths) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
