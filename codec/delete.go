package codec

import (
	"strconv"

	"github.com/feltforge/modelabi"
	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/felt"
	"github.com/feltforge/modelabi/layout"
)

// Delete zeroes every slot the layout occupies, returning the model to its
// all-zero form. Dynamic extents are recovered from the stored length
// prefixes before they are cleared, so a delete erases exactly the slots
// the last write touched. Deleting an already-deleted model reads zero
// lengths and zero selectors and clears the same fixed prefix again, which
// makes the operation idempotent.
func (c *Codec) Delete(l *layout.Layout, cursor *uint64, store modelabi.SlotStore) error {
	d := &deleter{c: c, store: store, cursor: cursor}
	return d.walk(l, nil)
}

type deleter struct {
	c      *Codec
	store  modelabi.SlotStore
	cursor *uint64
}

// peek reads the word at the cursor without advancing.
func (d *deleter) peek() (felt.Felt, error) {
	v, err := d.store.ReadSlot(*d.cursor)
	if err != nil {
		return felt.Felt{}, errors.Storage(errors.PhaseDelete, err, "read slot "+strconv.FormatUint(*d.cursor, 10))
	}
	return v, nil
}

// clear zeroes the slot at the cursor and advances.
func (d *deleter) clear() error {
	if err := d.store.WriteSlot(*d.cursor, felt.Felt{}); err != nil {
		return errors.Storage(errors.PhaseDelete, err, "clear slot "+strconv.FormatUint(*d.cursor, 10))
	}
	*d.cursor++
	return nil
}

func (d *deleter) clearN(n int) error {
	for i := 0; i < n; i++ {
		if err := d.clear(); err != nil {
			return err
		}
	}
	return nil
}

func (d *deleter) walk(l *layout.Layout, path []string) error {
	switch l.Kind {
	case layout.KindFixed:
		return d.clearN(len(l.Widths))

	case layout.KindStruct:
		for i, f := range l.Fields {
			if err := d.walk(f.Layout, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindEnum:
		v, err := d.peek()
		if err != nil {
			return err
		}
		if !v.FitsBits(discriminantBits) {
			return errors.InvalidVariantValue(errors.PhaseDelete, path, v.String(), discriminantBits)
		}
		sel, _ := v.Uint64()
		variant := findVariant(l, sel)
		if variant == nil {
			return errors.VariantNotFound(errors.PhaseDelete, path, sel, len(l.Fields))
		}
		if err := d.clear(); err != nil {
			return err
		}
		return d.walk(variant, append(path, strconv.FormatUint(sel, 10)))

	case layout.KindTuple:
		for i, e := range l.Elems {
			if err := d.walk(e, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindArray:
		v, err := d.peek()
		if err != nil {
			return err
		}
		n, ok := d.c.lengthOf(v)
		if !ok {
			return errors.InvalidArrayLength(errors.PhaseDelete, path, v.String(), d.c.limits.MaxLengthBits)
		}
		if err := d.clear(); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := d.walk(l.Elem, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindFixedArray:
		for i := 0; i < l.Count; i++ {
			if err := d.walk(l.Elem, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindByteArray:
		v, err := d.peek()
		if err != nil {
			return err
		}
		n, ok := d.c.lengthOf(v)
		if !ok {
			return errors.InvalidArrayLength(errors.PhaseDelete, path, v.String(), d.c.limits.MaxLengthBits)
		}
		if err := d.clear(); err != nil {
			return err
		}
		// chunks, pending word, pending byte count
		return d.clearN(n + 2)

	default:
		return errors.Unsupported(errors.PhaseDelete, "layout kind "+l.Kind.String())
	}
}
