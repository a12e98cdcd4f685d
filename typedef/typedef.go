package typedef

// Kind discriminates the shape of a type descriptor.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindStruct
	KindEnum
	KindTuple
	KindArray
	KindFixedArray
	KindByteArray
	KindUnit
)

var kindNames = [...]string{
	KindPrimitive:  "primitive",
	KindStruct:     "struct",
	KindEnum:       "enum",
	KindTuple:      "tuple",
	KindArray:      "array",
	KindFixedArray: "fixed_array",
	KindByteArray:  "byte_array",
	KindUnit:       "unit",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Type describes a declared value's shape. Descriptors are built once per
// declared type via the constructors below and are immutable afterwards;
// the constructors make cycles impossible.
type Type struct {
	Name     string    // struct and enum declarations only
	Fields   []Field   // struct
	Variants []Variant // enum
	Elems    []*Type   // tuple
	Elem     *Type     // array and fixed array element
	Count    int       // fixed array length
	Bits     uint      // primitive width
	Kind     Kind
}

// Field is a named struct member with an optional key attribute.
type Field struct {
	Type *Type
	Name string
	Key  bool
}

// Variant is a named enum variant and its payload type.
type Variant struct {
	Type *Type
	Name string
}

// Primitive returns a fixed-width primitive descriptor.
func Primitive(bits uint) *Type {
	return &Type{Kind: KindPrimitive, Bits: bits}
}

// Common primitive widths.
func Bool() *Type    { return Primitive(1) }
func U8() *Type      { return Primitive(8) }
func U16() *Type     { return Primitive(16) }
func U32() *Type     { return Primitive(32) }
func U64() *Type     { return Primitive(64) }
func U128() *Type    { return Primitive(128) }
func U256() *Type    { return Primitive(256) }
func Felt252() *Type { return Primitive(251) }

// Struct returns a named struct descriptor. Field order is significant and
// fixed at declaration time.
func Struct(name string, fields ...Field) *Type {
	return &Type{Kind: KindStruct, Name: name, Fields: fields}
}

// NewField declares a non-key struct member.
func NewField(name string, t *Type) Field {
	return Field{Name: name, Type: t}
}

// KeyField declares a key-attributed struct member. Key fields participate
// in the layout but are excluded from the value portion written to storage;
// they may appear anywhere in the declaration order.
func KeyField(name string, t *Type) Field {
	return Field{Name: name, Type: t, Key: true}
}

// Enum returns a named enum descriptor. Variant selectors are the zero-based
// declaration order.
func Enum(name string, variants ...Variant) *Type {
	return &Type{Kind: KindEnum, Name: name, Variants: variants}
}

// NewVariant declares an enum variant with a payload type. Use Unit() for
// payload-free variants.
func NewVariant(name string, payload *Type) Variant {
	return Variant{Name: name, Type: payload}
}

// Tuple returns a positional tuple descriptor.
func Tuple(elems ...*Type) *Type {
	if len(elems) == 0 {
		return Unit()
	}
	return &Type{Kind: KindTuple, Elems: elems}
}

// Array returns a dynamic-length array descriptor.
func Array(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// FixedArray returns a fixed-length array descriptor.
func FixedArray(elem *Type, count int) *Type {
	return &Type{Kind: KindFixedArray, Elem: elem, Count: count}
}

// ByteArray returns a byte-array descriptor, serialized as a
// length-prefixed run of 31-byte chunks plus a pending word pair.
func ByteArray() *Type {
	return &Type{Kind: KindByteArray}
}

// Unit returns the zero-width descriptor (the empty tuple).
func Unit() *Type {
	return &Type{Kind: KindUnit}
}

// Keys returns the key-attributed fields of a struct descriptor in
// declaration order. Returns nil for non-struct descriptors.
func (t *Type) Keys() []Field {
	var keys []Field
	for _, f := range t.Fields {
		if f.Key {
			keys = append(keys, f)
		}
	}
	return keys
}

// Values returns the non-key fields of a struct descriptor in declaration
// order.
func (t *Type) Values() []Field {
	var values []Field
	for _, f := range t.Fields {
		if !f.Key {
			values = append(values, f)
		}
	}
	return values
}

// IsPrimitive reports whether the descriptor is a fixed-width leaf.
func (t *Type) IsPrimitive() bool {
	return t.Kind == KindPrimitive
}

// IsStatic reports whether every leaf of the descriptor has a statically
// known width, i.e. no dynamic arrays or byte arrays anywhere in the tree.
func (t *Type) IsStatic() bool {
	switch t.Kind {
	case KindArray, KindByteArray:
		return false
	case KindStruct:
		for _, f := range t.Fields {
			if !f.Type.IsStatic() {
				return false
			}
		}
		return true
	case KindEnum:
		for _, v := range t.Variants {
			if !v.Type.IsStatic() {
				return false
			}
		}
		return true
	case KindTuple:
		for _, e := range t.Elems {
			if !e.IsStatic() {
				return false
			}
		}
		return true
	case KindFixedArray:
		return t.Elem.IsStatic()
	default:
		return true
	}
}
