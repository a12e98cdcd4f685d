package layout

import (
	"github.com/spaolacci/murmur3"

	"github.com/feltforge/modelabi/typedef"
)

// SelectorOf returns the selector identifying a struct field within its
// parent layout. Selectors are stable across processes: they depend only on
// the field name.
func SelectorOf(name string) uint64 {
	return murmur3.Sum64([]byte(name))
}

// Derive walks a type descriptor and produces the layout tree mirroring its
// shape. The derivation is deterministic and involves no external state.
//
// Key-attributed struct fields are retained like any other field; the
// key/value split is a schema-level concern (see introspect and registry).
func Derive(t *typedef.Type) *Layout {
	switch t.Kind {
	case typedef.KindPrimitive:
		return &Layout{Kind: KindFixed, Widths: []uint{t.Bits}}

	case typedef.KindUnit:
		return &Layout{Kind: KindFixed}

	case typedef.KindStruct:
		fields := make([]FieldLayout, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = FieldLayout{
				Selector: SelectorOf(f.Name),
				Layout:   Derive(f.Type),
			}
		}
		return &Layout{Kind: KindStruct, Fields: fields}

	case typedef.KindEnum:
		variants := make([]FieldLayout, len(t.Variants))
		for i, v := range t.Variants {
			variants[i] = FieldLayout{
				Selector: uint64(i),
				Layout:   Derive(v.Type),
			}
		}
		return &Layout{Kind: KindEnum, Fields: variants}

	case typedef.KindTuple:
		elems := make([]*Layout, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Derive(e)
		}
		return &Layout{Kind: KindTuple, Elems: elems}

	case typedef.KindArray:
		return &Layout{Kind: KindArray, Elem: Derive(t.Elem)}

	case typedef.KindFixedArray:
		return &Layout{Kind: KindFixedArray, Elem: Derive(t.Elem), Count: t.Count}

	default: // ByteArray
		return &Layout{Kind: KindByteArray}
	}
}
