// Package upgrade decides whether a new model definition may replace an
// existing one without corrupting stored data.
//
// The rules are append-only: struct members and enum variants may be added
// at the tail, and nothing that exists may move, change type, or disappear.
// Violations are classified by what they would break. A layout violation
// means already-stored slots would be reinterpreted (shape or width
// changes); a schema violation means the stored data stays readable but
// the declared contract changed illegally (renames, removals, reorders).
package upgrade

import (
	"fmt"

	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/introspect"
	"github.com/feltforge/modelabi/typedef"
)

// Status is the outcome of a compatibility check.
type Status int

const (
	Compatible Status = iota
	IncompatibleLayout
	IncompatibleSchema
)

var statusNames = [...]string{
	Compatible:         "compatible",
	IncompatibleLayout: "incompatible_layout",
	IncompatibleSchema: "incompatible_schema",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Check walks both schemas in lockstep and reports whether next may
// replace prev. On incompatibility the returned error carries the path
// and the first violation found.
func Check(prev, next *introspect.Schema) (Status, error) {
	if err := walk(prev, next, nil); err != nil {
		if e, ok := err.(*errors.Error); ok && e.Kind == errors.KindIncompatibleLayout {
			return IncompatibleLayout, err
		}
		return IncompatibleSchema, err
	}
	return Compatible, nil
}

func walk(prev, next *introspect.Schema, path []string) error {
	resource := resourceName(prev)

	if prev.Kind != next.Kind {
		return errors.IncompatibleLayout(path, resource,
			fmt.Sprintf("kind changed from %s to %s", prev.Kind, next.Kind))
	}
	// a shape-identical type under a new name is still a type change
	if prev.Name != next.Name {
		return errors.IncompatibleSchema(path, resource,
			fmt.Sprintf("type renamed from %q to %q", prev.Name, next.Name))
	}

	switch prev.Kind {
	case typedef.KindPrimitive:
		if prev.Bits != next.Bits {
			return errors.IncompatibleLayout(path, resource,
				fmt.Sprintf("width changed from %d to %d bits", prev.Bits, next.Bits))
		}
		return nil

	case typedef.KindStruct:
		if len(next.Members) < len(prev.Members) {
			return errors.IncompatibleSchema(path, resource,
				fmt.Sprintf("%d members removed", len(prev.Members)-len(next.Members)))
		}
		for i, pm := range prev.Members {
			nm := next.Members[i]
			memberPath := append(path, pm.Name)
			if pm.Name != nm.Name {
				return errors.IncompatibleSchema(memberPath, resource,
					fmt.Sprintf("member %d renamed from %q to %q", i, pm.Name, nm.Name))
			}
			if pm.Key != nm.Key {
				return errors.IncompatibleSchema(memberPath, resource, "key attribute changed")
			}
			if err := walk(pm.Schema, nm.Schema, memberPath); err != nil {
				return err
			}
		}
		return nil

	case typedef.KindEnum:
		if len(next.Options) < len(prev.Options) {
			return errors.IncompatibleSchema(path, resource,
				fmt.Sprintf("%d variants removed", len(prev.Options)-len(next.Options)))
		}
		for i, pv := range prev.Options {
			nv := next.Options[i]
			variantPath := append(path, pv.Name)
			if pv.Name != nv.Name {
				return errors.IncompatibleSchema(variantPath, resource,
					fmt.Sprintf("variant %d renamed from %q to %q", i, pv.Name, nv.Name))
			}
			if err := walk(pv.Schema, nv.Schema, variantPath); err != nil {
				return err
			}
		}
		return nil

	case typedef.KindTuple:
		// elements may be appended, never dropped
		if len(next.Elems) < len(prev.Elems) {
			return errors.IncompatibleLayout(path, resource,
				fmt.Sprintf("element count shrank from %d to %d", len(prev.Elems), len(next.Elems)))
		}
		for i := range prev.Elems {
			if err := walk(prev.Elems[i], next.Elems[i], append(path, fmt.Sprintf("%d", i))); err != nil {
				return err
			}
		}
		return nil

	case typedef.KindFixedArray:
		if prev.Count != next.Count {
			return errors.IncompatibleLayout(path, resource,
				fmt.Sprintf("length changed from %d to %d", prev.Count, next.Count))
		}
		return walk(prev.Elem, next.Elem, append(path, "[]"))

	case typedef.KindArray:
		return walk(prev.Elem, next.Elem, append(path, "[]"))

	default: // ByteArray, Unit
		return nil
	}
}

func resourceName(s *introspect.Schema) string {
	if s.Name != "" {
		return s.Kind.String() + " " + s.Name
	}
	return s.Kind.String()
}
