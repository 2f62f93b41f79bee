package msgs

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// MaxWidth is the widest message a Bits value can hold.
const MaxWidth = 256

// MaxFieldWidth is the widest single field a layout accepts. Field values are
// carried as uint64.
const MaxFieldWidth = 64

// Bits is a fixed-capacity unsigned bit vector. It is a plain value: copies
// never alias, and the zero value is all zeros.
type Bits struct {
	v uint256.Int
}

// BitsFromUint64 returns a vector whose low 64 bits are v.
func BitsFromUint64(v uint64) Bits {
	var b Bits
	b.v.SetUint64(v)
	return b
}

// BitsFromWords builds a vector from little-endian 64-bit words
// (words[0] holds bits [63:0]).
func BitsFromWords(words [4]uint64) Bits {
	return Bits{v: uint256.Int(words)}
}

// ParseBits parses a hexadecimal vector, with or without a 0x prefix.
// Underscores are accepted as digit separators.
func ParseBits(s string) (Bits, error) {
	digits := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	digits = strings.TrimPrefix(digits, "0x")
	if digits == "" {
		return Bits{}, fmt.Errorf("failed to parse bit vector %q: no digits", s)
	}

	// uint256 rejects leading zeros; they carry no value here.
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return Bits{}, nil
	}

	v, err := uint256.FromHex("0x" + digits)
	if err != nil {
		return Bits{}, fmt.Errorf("failed to parse bit vector %q: %w", s, err)
	}

	return Bits{v: *v}, nil
}

// Words returns the vector as little-endian 64-bit words.
func (b Bits) Words() [4]uint64 {
	return [4]uint64(b.v)
}

// BitLen returns the number of bits needed to represent the vector. The zero
// vector has length 0.
func (b Bits) BitLen() int {
	return b.v.BitLen()
}

// IsZero reports whether all bits are clear.
func (b Bits) IsZero() bool {
	return b.v.IsZero()
}

// Uint64 returns bits [63:0].
func (b Bits) Uint64() uint64 {
	return b.v.Uint64()
}

// Field extracts width bits starting at bit lsb. A zero-width field is
// always 0.
func (b Bits) Field(lsb, width uint) uint64 {
	if width == 0 || lsb >= MaxWidth {
		return 0
	}

	var shifted uint256.Int
	shifted.Rsh(&b.v, lsb)

	return shifted.Uint64() & fieldMask(width)
}

// withField returns a copy of b with value ORed in at bit lsb. The caller
// guarantees value fits in width and the target bits are clear.
func (b Bits) withField(lsb, width uint, value uint64) Bits {
	if width == 0 {
		return b
	}

	var placed uint256.Int
	placed.SetUint64(value)
	placed.Lsh(&placed, lsb)

	out := b
	out.v.Or(&out.v, &placed)

	return out
}

// Hex formats the vector as 0x-prefixed hex, zero padded to width bits.
func (b Bits) Hex(width uint) string {
	return "0x" + hexDigits(b, width)
}

// String formats the vector as minimal 0x-prefixed hex.
func (b Bits) String() string {
	return b.v.Hex()
}

// hexDigits renders b padded to the number of nibbles width bits need.
func hexDigits(b Bits, width uint) string {
	raw := strings.TrimPrefix(b.v.Hex(), "0x")
	n := int((width + 3) / 4)
	if len(raw) >= n {
		return raw
	}

	return strings.Repeat("0", n-len(raw)) + raw
}

// fieldMask returns a mask with the low width bits set.
func fieldMask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << width) - 1
}
