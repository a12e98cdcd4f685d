// Package introspect builds named, attributed schema trees from type
// descriptors for ABI generation, diffing, and off-chain tooling.
//
// A Schema parallels the storage layout of the same descriptor but retains
// member names and attributes; the layout deriver is a forgetful projection
// of this walk. Member ordering is declaration order and is part of the
// stable contract; consumers must not assume alphabetical ordering.
package introspect

import (
	"fmt"
	"strings"

	"github.com/feltforge/modelabi/typedef"
)

// Schema describes a typed value's structure for introspection. The Kind
// field reuses the descriptor kinds; per-kind fields mirror typedef.Type.
type Schema struct {
	Name    string
	Members []Member  // struct
	Options []Option  // enum variants
	Elems   []*Schema // tuple
	Elem    *Schema   // array and fixed array element
	Count   int       // fixed array length
	Bits    uint      // primitive width
	Kind    typedef.Kind
}

// Member is a named struct member carrying its attributes.
type Member struct {
	Schema *Schema
	Name   string
	Key    bool
}

// Option is a named enum variant and its payload schema.
type Option struct {
	Schema *Schema
	Name   string
}

// Derive walks a type descriptor and produces its schema. Two structurally
// identical descriptors produce schemas differing only in the names carried
// along.
func Derive(t *typedef.Type) *Schema {
	switch t.Kind {
	case typedef.KindPrimitive:
		return &Schema{Kind: typedef.KindPrimitive, Bits: t.Bits}

	case typedef.KindStruct:
		members := make([]Member, len(t.Fields))
		for i, f := range t.Fields {
			members[i] = Member{Name: f.Name, Key: f.Key, Schema: Derive(f.Type)}
		}
		return &Schema{Kind: typedef.KindStruct, Name: t.Name, Members: members}

	case typedef.KindEnum:
		options := make([]Option, len(t.Variants))
		for i, v := range t.Variants {
			options[i] = Option{Name: v.Name, Schema: Derive(v.Type)}
		}
		return &Schema{Kind: typedef.KindEnum, Name: t.Name, Options: options}

	case typedef.KindTuple:
		elems := make([]*Schema, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Derive(e)
		}
		return &Schema{Kind: typedef.KindTuple, Elems: elems}

	case typedef.KindArray:
		return &Schema{Kind: typedef.KindArray, Elem: Derive(t.Elem)}

	case typedef.KindFixedArray:
		return &Schema{Kind: typedef.KindFixedArray, Elem: Derive(t.Elem), Count: t.Count}

	case typedef.KindByteArray:
		return &Schema{Kind: typedef.KindByteArray}

	default:
		return &Schema{Kind: typedef.KindUnit}
	}
}

// Keys returns the key-attributed members in declaration order.
func (s *Schema) Keys() []Member {
	var keys []Member
	for _, m := range s.Members {
		if m.Key {
			keys = append(keys, m)
		}
	}
	return keys
}

// Values returns the non-key members in declaration order.
func (s *Schema) Values() []Member {
	var values []Member
	for _, m := range s.Members {
		if !m.Key {
			values = append(values, m)
		}
	}
	return values
}

// FindMember returns the struct member with the given name, or nil.
func (s *Schema) FindMember(name string) *Member {
	for i := range s.Members {
		if s.Members[i].Name == name {
			return &s.Members[i]
		}
	}
	return nil
}

// TypeName renders a short type name for display.
func (s *Schema) TypeName() string {
	switch s.Kind {
	case typedef.KindPrimitive:
		return fmt.Sprintf("u%d", s.Bits)
	case typedef.KindStruct, typedef.KindEnum:
		return s.Name
	case typedef.KindTuple:
		names := make([]string, len(s.Elems))
		for i, e := range s.Elems {
			names[i] = e.TypeName()
		}
		return "(" + strings.Join(names, ", ") + ")"
	case typedef.KindArray:
		return "Array<" + s.Elem.TypeName() + ">"
	case typedef.KindFixedArray:
		return fmt.Sprintf("[%s; %d]", s.Elem.TypeName(), s.Count)
	case typedef.KindByteArray:
		return "ByteArray"
	default:
		return "()"
	}
}

// String renders the schema as a declaration-like listing.
func (s *Schema) String() string {
	var b strings.Builder
	writeSchema(&b, s)
	return b.String()
}

func writeSchema(b *strings.Builder, s *Schema) {
	switch s.Kind {
	case typedef.KindStruct:
		fmt.Fprintf(b, "struct %s {\n", s.Name)
		for _, m := range s.Members {
			if m.Key {
				b.WriteString("  #[key]\n")
			}
			fmt.Fprintf(b, "  %s: %s,\n", m.Name, m.Schema.TypeName())
		}
		b.WriteString("}")
		for _, m := range s.Members {
			if m.Schema.Kind == typedef.KindStruct || m.Schema.Kind == typedef.KindEnum {
				b.WriteString("\n\n")
				writeSchema(b, m.Schema)
			}
		}
	case typedef.KindEnum:
		fmt.Fprintf(b, "enum %s {\n", s.Name)
		for _, o := range s.Options {
			if o.Schema.Kind == typedef.KindUnit {
				fmt.Fprintf(b, "  %s,\n", o.Name)
			} else {
				fmt.Fprintf(b, "  %s: %s,\n", o.Name, o.Schema.TypeName())
			}
		}
		b.WriteString("}")
	default:
		b.WriteString(s.TypeName())
	}
}

// Equal reports deep structural and name equality.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Kind != other.Kind || s.Name != other.Name ||
		s.Bits != other.Bits || s.Count != other.Count {
		return false
	}
	if len(s.Members) != len(other.Members) ||
		len(s.Options) != len(other.Options) ||
		len(s.Elems) != len(other.Elems) {
		return false
	}
	for i, m := range s.Members {
		o := other.Members[i]
		if m.Name != o.Name || m.Key != o.Key || !m.Schema.Equal(o.Schema) {
			return false
		}
	}
	for i, opt := range s.Options {
		o := other.Options[i]
		if opt.Name != o.Name || !opt.Schema.Equal(o.Schema) {
			return false
		}
	}
	for i, e := range s.Elems {
		if !e.Equal(other.Elems[i]) {
			return false
		}
	}
	if s.Elem != nil || other.Elem != nil {
		return s.Elem.Equal(other.Elem)
	}
	return true
}
