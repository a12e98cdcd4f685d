// Package felt provides the fixed-width field element word the engine
// serializes to and from. A Felt is a 256-bit unsigned integer stored as
// four little-endian limbs; the zero value is the zero word, which is what
// never-written storage slots read as.
//
// Only CapacityBits of a word are usable when bit-packing, matching the
// usable width of a 252-bit prime field element.
package felt

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
)

// CapacityBits is the number of usable bits when packing values into a
// single word.
const CapacityBits = 251

// Felt is a 256-bit unsigned word. Limb 0 holds the least significant bits.
type Felt [4]uint64

// Zero is the zero word.
var Zero Felt

// FromUint64 returns the word holding v.
func FromUint64(v uint64) Felt {
	return Felt{v}
}

// FromBytes interprets b as a big-endian unsigned integer.
// At most 32 bytes are accepted.
func FromBytes(b []byte) (Felt, error) {
	if len(b) > 32 {
		return Felt{}, fmt.Errorf("felt: %d bytes exceed 32-byte width", len(b))
	}
	var f Felt
	for i := 0; i < len(b); i++ {
		byteIdx := len(b) - 1 - i // position from the little end
		f[byteIdx/8] |= uint64(b[i]) << (uint(byteIdx%8) * 8)
	}
	return f, nil
}

// FromHex parses a 0x-prefixed big-endian hex string.
func FromHex(s string) (Felt, error) {
	h := strings.TrimPrefix(s, "0x")
	if h == "" {
		return Felt{}, fmt.Errorf("felt: empty hex string")
	}
	var f Felt
	for _, c := range h {
		var nibble uint64
		switch {
		case c >= '0' && c <= '9':
			nibble = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			nibble = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			nibble = uint64(c-'A') + 10
		default:
			return Felt{}, fmt.Errorf("felt: invalid hex digit %q", c)
		}
		if !f.FitsBits(252) {
			return Felt{}, fmt.Errorf("felt: hex string %q overflows 256 bits", s)
		}
		f = f.Lsh(4).Or(FromUint64(nibble))
	}
	return f, nil
}

// Bytes returns the big-endian 32-byte representation.
func (f Felt) Bytes() [32]byte {
	var out [32]byte
	for i := 0; i < 32; i++ {
		byteIdx := 31 - i
		out[i] = byte(f[byteIdx/8] >> (uint(byteIdx%8) * 8))
	}
	return out
}

// Uint64 returns the word as a uint64 and whether it fits.
func (f Felt) Uint64() (uint64, bool) {
	if f[1] != 0 || f[2] != 0 || f[3] != 0 {
		return 0, false
	}
	return f[0], true
}

// IsZero reports whether the word is zero.
func (f Felt) IsZero() bool {
	return f == Felt{}
}

// Equal reports limb-wise equality.
func (f Felt) Equal(other Felt) bool {
	return f == other
}

// Cmp compares f and other, returning -1, 0, or 1.
func (f Felt) Cmp(other Felt) int {
	for i := 3; i >= 0; i-- {
		switch {
		case f[i] < other[i]:
			return -1
		case f[i] > other[i]:
			return 1
		}
	}
	return 0
}

// BitLen returns the minimal number of bits needed to represent the word.
func (f Felt) BitLen() int {
	for i := 3; i >= 0; i-- {
		if f[i] != 0 {
			return i*64 + bits.Len64(f[i])
		}
	}
	return 0
}

// FitsBits reports whether the word fits in n bits.
func (f Felt) FitsBits(n uint) bool {
	return uint(f.BitLen()) <= n
}

// Lsh returns f shifted left by n bits.
func (f Felt) Lsh(n uint) Felt {
	if n >= 256 {
		return Felt{}
	}
	word, bit := int(n/64), n%64
	var r Felt
	for i := 3; i >= 0; i-- {
		if i < word {
			continue
		}
		r[i] = f[i-word] << bit
		if bit > 0 && i-word-1 >= 0 {
			r[i] |= f[i-word-1] >> (64 - bit)
		}
	}
	return r
}

// Rsh returns f shifted right by n bits.
func (f Felt) Rsh(n uint) Felt {
	if n >= 256 {
		return Felt{}
	}
	word, bit := int(n/64), n%64
	var r Felt
	for i := 0; i <= 3; i++ {
		if i+word > 3 {
			break
		}
		r[i] = f[i+word] >> bit
		if bit > 0 && i+word+1 <= 3 {
			r[i] |= f[i+word+1] << (64 - bit)
		}
	}
	return r
}

// Or returns the bitwise or of f and other.
func (f Felt) Or(other Felt) Felt {
	return Felt{f[0] | other[0], f[1] | other[1], f[2] | other[2], f[3] | other[3]}
}

// And returns the bitwise and of f and other.
func (f Felt) And(other Felt) Felt {
	return Felt{f[0] & other[0], f[1] & other[1], f[2] & other[2], f[3] & other[3]}
}

// Mask returns the low n bits of f.
func (f Felt) Mask(n uint) Felt {
	if n >= 256 {
		return f
	}
	word, bit := int(n/64), n%64
	var r Felt
	for i := 0; i < word; i++ {
		r[i] = f[i]
	}
	if word <= 3 && bit > 0 {
		r[word] = f[word] & (1<<bit - 1)
	}
	return r
}

// Hex returns the minimal 0x-prefixed big-endian hex representation.
func (f Felt) Hex() string {
	if f.IsZero() {
		return "0x0"
	}
	var b strings.Builder
	b.WriteString("0x")
	started := false
	for i := 3; i >= 0; i-- {
		if !started {
			if f[i] == 0 {
				continue
			}
			fmt.Fprintf(&b, "%x", f[i])
			started = true
		} else {
			fmt.Fprintf(&b, "%016x", f[i])
		}
	}
	return b.String()
}

func (f Felt) String() string {
	return f.Hex()
}

// MarshalJSON encodes the word as a 0x-prefixed hex string.
func (f Felt) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Hex())
}

// UnmarshalJSON decodes a 0x-prefixed hex string.
func (f *Felt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := FromHex(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
