package introspect

import (
	"encoding/json"
	"fmt"

	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/typedef"
)

// The wire form keeps members and variants as ordered arrays so that
// declaration order survives a marshal round-trip. Kind tags match the
// typedef kind names.
type schemaJSON struct {
	Type     string        `json:"type"`
	Name     string        `json:"name,omitempty"`
	Bits     uint          `json:"bits,omitempty"`
	Members  []memberJSON  `json:"members,omitempty"`
	Variants []variantJSON `json:"variants,omitempty"`
	Elems    []*schemaJSON `json:"elems,omitempty"`
	Elem     *schemaJSON   `json:"elem,omitempty"`
	Count    int           `json:"count,omitempty"`
}

type memberJSON struct {
	Name  string      `json:"name"`
	Attrs []string    `json:"attrs,omitempty"`
	Type  *schemaJSON `json:"type"`
}

type variantJSON struct {
	Name string      `json:"name"`
	Type *schemaJSON `json:"type"`
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(s))
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	var wire schemaJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "schema json")
	}
	decoded, err := fromWire(&wire, nil)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

func toWire(s *Schema) *schemaJSON {
	w := &schemaJSON{Type: s.Kind.String(), Name: s.Name, Bits: s.Bits, Count: s.Count}
	for _, m := range s.Members {
		var attrs []string
		if m.Key {
			attrs = []string{"key"}
		}
		w.Members = append(w.Members, memberJSON{Name: m.Name, Attrs: attrs, Type: toWire(m.Schema)})
	}
	for _, o := range s.Options {
		w.Variants = append(w.Variants, variantJSON{Name: o.Name, Type: toWire(o.Schema)})
	}
	for _, e := range s.Elems {
		w.Elems = append(w.Elems, toWire(e))
	}
	if s.Elem != nil {
		w.Elem = toWire(s.Elem)
	}
	return w
}

func fromWire(w *schemaJSON, path []string) (*Schema, error) {
	kind, ok := kindFromTag(w.Type)
	if !ok {
		return nil, errors.InvalidData(errors.PhaseParse, path, fmt.Sprintf("unknown schema kind %q", w.Type))
	}

	s := &Schema{Kind: kind, Name: w.Name, Bits: w.Bits, Count: w.Count}
	switch kind {
	case typedef.KindPrimitive:
		if w.Bits == 0 {
			return nil, errors.InvalidData(errors.PhaseParse, path, "primitive without a bit width")
		}

	case typedef.KindStruct:
		for _, m := range w.Members {
			if m.Type == nil {
				return nil, errors.InvalidData(errors.PhaseParse, append(path, m.Name), "member without a type")
			}
			ms, err := fromWire(m.Type, append(path, m.Name))
			if err != nil {
				return nil, err
			}
			key := false
			for _, a := range m.Attrs {
				if a == "key" {
					key = true
				}
			}
			s.Members = append(s.Members, Member{Name: m.Name, Key: key, Schema: ms})
		}

	case typedef.KindEnum:
		for _, v := range w.Variants {
			if v.Type == nil {
				return nil, errors.InvalidData(errors.PhaseParse, append(path, v.Name), "variant without a type")
			}
			vs, err := fromWire(v.Type, append(path, v.Name))
			if err != nil {
				return nil, err
			}
			s.Options = append(s.Options, Option{Name: v.Name, Schema: vs})
		}

	case typedef.KindTuple:
		for i, e := range w.Elems {
			es, err := fromWire(e, append(path, fmt.Sprintf("%d", i)))
			if err != nil {
				return nil, err
			}
			s.Elems = append(s.Elems, es)
		}

	case typedef.KindArray, typedef.KindFixedArray:
		if w.Elem == nil {
			return nil, errors.InvalidData(errors.PhaseParse, path, "array without an element type")
		}
		es, err := fromWire(w.Elem, append(path, "[]"))
		if err != nil {
			return nil, err
		}
		s.Elem = es
		if kind == typedef.KindFixedArray && w.Count <= 0 {
			return nil, errors.InvalidData(errors.PhaseParse, path, fmt.Sprintf("fixed array with count %d", w.Count))
		}
	}
	return s, nil
}

func kindFromTag(tag string) (typedef.Kind, bool) {
	for k := typedef.KindPrimitive; k <= typedef.KindUnit; k++ {
		if k.String() == tag {
			return k, true
		}
	}
	return 0, false
}
