package introspect

import (
	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/typedef"
)

// Type rebuilds the type descriptor this schema was derived from. Schemas
// carry everything a descriptor does, so the reconstruction is exact:
// Derive(s.Type()) equals s.
func (s *Schema) Type() (*typedef.Type, error) {
	switch s.Kind {
	case typedef.KindPrimitive:
		return typedef.Primitive(s.Bits), nil

	case typedef.KindStruct:
		fields := make([]typedef.Field, len(s.Members))
		for i, m := range s.Members {
			ft, err := m.Schema.Type()
			if err != nil {
				return nil, err
			}
			if m.Key {
				fields[i] = typedef.KeyField(m.Name, ft)
			} else {
				fields[i] = typedef.NewField(m.Name, ft)
			}
		}
		return typedef.Struct(s.Name, fields...), nil

	case typedef.KindEnum:
		variants := make([]typedef.Variant, len(s.Options))
		for i, o := range s.Options {
			vt, err := o.Schema.Type()
			if err != nil {
				return nil, err
			}
			variants[i] = typedef.NewVariant(o.Name, vt)
		}
		return typedef.Enum(s.Name, variants...), nil

	case typedef.KindTuple:
		elems := make([]*typedef.Type, len(s.Elems))
		for i, e := range s.Elems {
			et, err := e.Type()
			if err != nil {
				return nil, err
			}
			elems[i] = et
		}
		return typedef.Tuple(elems...), nil

	case typedef.KindArray:
		et, err := s.Elem.Type()
		if err != nil {
			return nil, err
		}
		return typedef.Array(et), nil

	case typedef.KindFixedArray:
		et, err := s.Elem.Type()
		if err != nil {
			return nil, err
		}
		return typedef.FixedArray(et, s.Count), nil

	case typedef.KindByteArray:
		return typedef.ByteArray(), nil

	case typedef.KindUnit:
		return typedef.Unit(), nil

	default:
		return nil, errors.InvalidData(errors.PhaseParse, nil, "unknown schema kind")
	}
}
