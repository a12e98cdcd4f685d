package codec

import (
	"fmt"

	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/felt"
)

// Pack bit-packs a flat run of values into as few words as possible.
// widths gives the bit width of each value in order; a value is placed at
// the current bit offset of the open word, and a new word is opened when
// the next value would cross the word capacity. Values never straddle two
// words.
func Pack(values []felt.Felt, widths []uint) ([]felt.Felt, error) {
	if len(values) != len(widths) {
		return nil, errors.InvalidValuesLength(errors.PhaseSerialize, nil, len(widths), len(values))
	}

	var packed []felt.Felt
	var current felt.Felt
	offset := uint(0)
	open := false

	for i, w := range widths {
		if w == 0 || w > felt.CapacityBits {
			return nil, errors.InvalidData(errors.PhaseSerialize, nil, fmt.Sprintf("width %d at position %d out of range", w, i))
		}
		if !values[i].FitsBits(w) {
			return nil, errors.InvalidData(errors.PhaseSerialize, nil, fmt.Sprintf("value %s at position %d does not fit %d bits", values[i], i, w))
		}
		if open && offset+w > felt.CapacityBits {
			packed = append(packed, current)
			current = felt.Felt{}
			offset = 0
		}
		current = current.Or(values[i].Lsh(offset))
		offset += w
		open = true
	}
	if open {
		packed = append(packed, current)
	}
	return packed, nil
}

// Unpack reverses Pack, splitting packed words back into one value per
// width. The same widths used to pack must be supplied.
func Unpack(packed []felt.Felt, widths []uint) ([]felt.Felt, error) {
	values := make([]felt.Felt, 0, len(widths))
	idx := 0
	offset := uint(0)

	for i, w := range widths {
		if w == 0 || w > felt.CapacityBits {
			return nil, errors.InvalidData(errors.PhaseDeserialize, nil, fmt.Sprintf("width %d at position %d out of range", w, i))
		}
		if offset+w > felt.CapacityBits {
			idx++
			offset = 0
		}
		if idx >= len(packed) {
			return nil, errors.InvalidValuesLength(errors.PhaseDeserialize, nil, 1, 0)
		}
		values = append(values, packed[idx].Rsh(offset).Mask(w))
		offset += w
	}
	return values, nil
}

// PackedSize returns the number of words Pack produces for the widths.
func PackedSize(widths []uint) int {
	size := 0
	offset := uint(0)
	open := false
	for _, w := range widths {
		if open && offset+w > felt.CapacityBits {
			size++
			offset = 0
		}
		offset += w
		open = true
	}
	if open {
		size++
	}
	return size
}
