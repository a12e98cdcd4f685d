package codec

import (
	"strconv"

	"github.com/feltforge/modelabi"
	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/felt"
	"github.com/feltforge/modelabi/layout"
)

// Write serializes a flat value buffer into the store, slot by slot,
// starting at the cursor's current offset. The cursor is advanced past
// every written slot so sibling fields of an enclosing layout land at
// deterministic offsets.
//
// The buffer must carry at least as many words as the layout consumes;
// a short buffer yields an invalid values length error. Leftover words
// are not an error here, callers validate totals where they matter.
//
// The whole buffer is validated against the layout before the first slot
// is touched. Every check (buffer length, selectors, length prefixes,
// pending byte counts) depends only on the buffer, so a rejected write
// leaves the store exactly as it was.
func (c *Codec) Write(l *layout.Layout, values []felt.Felt, cursor *uint64, store modelabi.SlotWriter) error {
	scratch := *cursor
	v := &writer{c: c, values: values, cursor: &scratch}
	if err := v.walk(l, nil); err != nil {
		return err
	}
	w := &writer{c: c, store: store, values: values, cursor: cursor}
	return w.walk(l, nil)
}

type writer struct {
	c      *Codec
	store  modelabi.SlotWriter
	values []felt.Felt
	cursor *uint64
	pos    int
}

// next consumes one word from the value buffer.
func (w *writer) next(path []string) (felt.Felt, error) {
	if w.pos >= len(w.values) {
		return felt.Felt{}, errors.InvalidValuesLength(errors.PhaseSerialize, path, 1, 0)
	}
	v := w.values[w.pos]
	w.pos++
	return v, nil
}

// emit writes one word at the cursor and advances it. A nil store makes
// the walk a validation pass over the buffer alone.
func (w *writer) emit(v felt.Felt) error {
	if w.store != nil {
		if err := w.store.WriteSlot(*w.cursor, v); err != nil {
			return errors.Storage(errors.PhaseSerialize, err, "write slot "+strconv.FormatUint(*w.cursor, 10))
		}
	}
	*w.cursor++
	return nil
}

// copyOne moves the next buffer word into the next slot.
func (w *writer) copyOne(path []string) error {
	v, err := w.next(path)
	if err != nil {
		return err
	}
	return w.emit(v)
}

func (w *writer) walk(l *layout.Layout, path []string) error {
	switch l.Kind {
	case layout.KindFixed:
		for range l.Widths {
			if err := w.copyOne(path); err != nil {
				return err
			}
		}
		return nil

	case layout.KindStruct:
		for i, f := range l.Fields {
			if err := w.walk(f.Layout, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindEnum:
		v, err := w.next(path)
		if err != nil {
			return err
		}
		if !v.FitsBits(discriminantBits) {
			return errors.InvalidVariantValue(errors.PhaseSerialize, path, v.String(), discriminantBits)
		}
		sel, _ := v.Uint64()
		variant := findVariant(l, sel)
		if variant == nil {
			return errors.VariantNotFound(errors.PhaseSerialize, path, sel, len(l.Fields))
		}
		if err := w.emit(v); err != nil {
			return err
		}
		return w.walk(variant, append(path, strconv.FormatUint(sel, 10)))

	case layout.KindTuple:
		for i, e := range l.Elems {
			if err := w.walk(e, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindArray:
		v, err := w.next(path)
		if err != nil {
			return err
		}
		n, ok := w.c.lengthOf(v)
		if !ok {
			return errors.InvalidArrayLength(errors.PhaseSerialize, path, v.String(), w.c.limits.MaxLengthBits)
		}
		if err := w.emit(v); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := w.walk(l.Elem, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindFixedArray:
		for i := 0; i < l.Count; i++ {
			if err := w.walk(l.Elem, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindByteArray:
		v, err := w.next(path)
		if err != nil {
			return err
		}
		n, ok := w.c.lengthOf(v)
		if !ok {
			return errors.InvalidArrayLength(errors.PhaseSerialize, path, v.String(), w.c.limits.MaxLengthBits)
		}
		if err := w.emit(v); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := w.copyOne(path); err != nil {
				return err
			}
		}
		// pending word, then its byte count
		if err := w.copyOne(path); err != nil {
			return err
		}
		pending, err := w.next(path)
		if err != nil {
			return err
		}
		if plen, ok := pending.Uint64(); !ok || plen >= ByteChunkSize {
			return errors.InvalidData(errors.PhaseSerialize, path, "pending byte count "+pending.String()+" out of range")
		}
		return w.emit(pending)

	default:
		return errors.Unsupported(errors.PhaseSerialize, "layout kind "+l.Kind.String())
	}
}

// findVariant returns the variant layout whose selector matches, or nil.
func findVariant(l *layout.Layout, selector uint64) *layout.Layout {
	for _, v := range l.Fields {
		if v.Selector == selector {
			return v.Layout
		}
	}
	return nil
}
