package codec

import (
	"strconv"

	"github.com/feltforge/modelabi"
	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/felt"
	"github.com/feltforge/modelabi/layout"
)

// Read deserializes a value from the store into the flat buffer, visiting
// the same slots in the same order a Write of that layout would. Slots that
// were never written read back as zero, so a fresh model deserializes to
// its all-zero form: zero primitives, empty arrays, and for enums the
// first declared variant with a zero payload.
func (c *Codec) Read(l *layout.Layout, cursor *uint64, store modelabi.SlotReader, out *[]felt.Felt) error {
	r := &reader{c: c, store: store, cursor: cursor, out: out}
	return r.walk(l, nil)
}

type reader struct {
	c      *Codec
	store  modelabi.SlotReader
	cursor *uint64
	out    *[]felt.Felt
}

// fetch reads one word at the cursor and advances it.
func (r *reader) fetch() (felt.Felt, error) {
	v, err := r.store.ReadSlot(*r.cursor)
	if err != nil {
		return felt.Felt{}, errors.Storage(errors.PhaseDeserialize, err, "read slot "+strconv.FormatUint(*r.cursor, 10))
	}
	*r.cursor++
	return v, nil
}

// fetchOut reads one word and appends it to the output buffer.
func (r *reader) fetchOut() error {
	v, err := r.fetch()
	if err != nil {
		return err
	}
	*r.out = append(*r.out, v)
	return nil
}

func (r *reader) walk(l *layout.Layout, path []string) error {
	switch l.Kind {
	case layout.KindFixed:
		for range l.Widths {
			if err := r.fetchOut(); err != nil {
				return err
			}
		}
		return nil

	case layout.KindStruct:
		for i, f := range l.Fields {
			if err := r.walk(f.Layout, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindEnum:
		v, err := r.fetch()
		if err != nil {
			return err
		}
		if !v.FitsBits(discriminantBits) {
			return errors.InvalidVariantValue(errors.PhaseDeserialize, path, v.String(), discriminantBits)
		}
		sel, _ := v.Uint64()
		variant := findVariant(l, sel)
		if variant == nil {
			return errors.VariantNotFound(errors.PhaseDeserialize, path, sel, len(l.Fields))
		}
		*r.out = append(*r.out, v)
		return r.walk(variant, append(path, strconv.FormatUint(sel, 10)))

	case layout.KindTuple:
		for i, e := range l.Elems {
			if err := r.walk(e, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindArray:
		v, err := r.fetch()
		if err != nil {
			return err
		}
		n, ok := r.c.lengthOf(v)
		if !ok {
			return errors.InvalidArrayLength(errors.PhaseDeserialize, path, v.String(), r.c.limits.MaxLengthBits)
		}
		*r.out = append(*r.out, v)
		for i := 0; i < n; i++ {
			if err := r.walk(l.Elem, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindFixedArray:
		for i := 0; i < l.Count; i++ {
			if err := r.walk(l.Elem, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case layout.KindByteArray:
		v, err := r.fetch()
		if err != nil {
			return err
		}
		n, ok := r.c.lengthOf(v)
		if !ok {
			return errors.InvalidArrayLength(errors.PhaseDeserialize, path, v.String(), r.c.limits.MaxLengthBits)
		}
		*r.out = append(*r.out, v)
		for i := 0; i < n; i++ {
			if err := r.fetchOut(); err != nil {
				return err
			}
		}
		if err := r.fetchOut(); err != nil {
			return err
		}
		pending, err := r.fetch()
		if err != nil {
			return err
		}
		if plen, ok := pending.Uint64(); !ok || plen >= ByteChunkSize {
			return errors.InvalidData(errors.PhaseDeserialize, path, "pending byte count "+pending.String()+" out of range")
		}
		*r.out = append(*r.out, pending)
		return nil

	default:
		return errors.Unsupported(errors.PhaseDeserialize, "layout kind "+l.Kind.String())
	}
}
