// Package codec serializes flat value buffers to and from slot stores
// according to a derived layout, and bit-packs static layouts into
// capacity-limited words.
//
// All three walks (write, read, delete) thread a single monotonically
// increasing cursor through the layout tree. The cursor doubles as the
// index into the flat value buffer and as the relative slot offset, so a
// layout visits the same slots in the same order on every walk. Dynamic
// lengths are themselves stored in slots, which is what makes read and
// delete self-describing.
package codec

import (
	"github.com/feltforge/modelabi/felt"
)

// ByteChunkSize is the number of bytes carried per full byte array word.
const ByteChunkSize = 31

// discriminantBits is the width budget for enum selectors.
const discriminantBits = 8

// Limits bounds dynamic shapes during encoding and decoding.
type Limits struct {
	// MaxLengthBits is the bit width a dynamic length prefix must fit.
	// Length prefixes at or under (1<<MaxLengthBits)-1 are accepted.
	MaxLengthBits uint
}

// DefaultLimits mirror the widest prefix the packing scheme reserves for
// dynamic lengths.
func DefaultLimits() Limits {
	return Limits{MaxLengthBits: 32}
}

// Codec performs layout-directed serialization against slot stores.
// The zero value is not usable; construct with New.
type Codec struct {
	limits Limits
}

// New creates a codec with the given limits. Zero limit fields fall back
// to the defaults.
func New(limits Limits) *Codec {
	if limits.MaxLengthBits == 0 {
		limits.MaxLengthBits = DefaultLimits().MaxLengthBits
	}
	return &Codec{limits: limits}
}

// Limits returns the codec's configured limits.
func (c *Codec) Limits() Limits {
	return c.limits
}

// maxLength is the largest admissible dynamic length.
func (c *Codec) maxLength() uint64 {
	if c.limits.MaxLengthBits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << c.limits.MaxLengthBits) - 1
}

// lengthOf validates a length prefix against the limits and converts it.
func (c *Codec) lengthOf(v felt.Felt) (int, bool) {
	n, ok := v.Uint64()
	if !ok || n > c.maxLength() {
		return 0, false
	}
	return int(n), true
}
