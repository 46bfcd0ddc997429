package wsv

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// MaxVarInt is the largest value a VarInt can hold, 2^53-1.
const MaxVarInt = 1<<53 - 1

// A VarInt stores an unsigned integer in 1 to 7 bytes, or in 9 bytes for
// the largest values. The position of the lowest set bit of the first byte
// gives the length:
//
//	xxxxxxx1                     1 byte,  6 bits
//	xxxxxx10 0xxxxxxx            2 bytes, 12 bits
//	xxxxx100 0xxxxxxx x2         3 bytes, 18 bits
//	xxxx1000 0xxxxxxx x3         4 bytes, 24 bits
//	xxx10000 0xxxxxxx x4         5 bytes, 30 bits
//	xx100000 0xxxxxxx x5         6 bytes, 36 bits
//	x1000000 0xxxxxxx x6         7 bytes, 42 bits
//	00000000 0xxxxxxx x8         9 bytes, 53 bits used
//
// The top bit of every byte is zero. Groups are stored most significant
// first and the data bits of the first byte are the highest.
const (
	varIntMaxShort = 7 // Longest form with data bits in the first byte.
	varIntLong     = 9
	varIntGroup    = 7
	varIntMask     = 0x7F
)

// VarIntLen returns the number of bytes needed to encode v.
func VarIntLen[T constraints.Integer](v T) (int, error) {
	u, err := varIntValue(v)
	if err != nil {
		return 0, err
	}
	return varIntLen(u), nil
}

func varIntLen(u uint64) int {
	for n := 1; n <= varIntMaxShort; n++ {
		if u < 1<<(n*6) {
			return n
		}
	}
	return varIntLong
}

// varIntValue checks that v is in range and widens it.
func varIntValue[T constraints.Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrVarIntRange, v)
	}
	u := uint64(v)
	if u > MaxVarInt {
		return 0, fmt.Errorf("%w: %d is larger than %d", ErrVarIntRange, u, uint64(MaxVarInt))
	}
	return u, nil
}

// AppendVarInt appends the encoding of v to dst.
func AppendVarInt[T constraints.Integer](dst []byte, v T) ([]byte, error) {
	u, err := varIntValue(v)
	if err != nil {
		return dst, err
	}
	return appendVarInt(dst, u), nil
}

// EncodeVarInt returns the encoding of v.
func EncodeVarInt[T constraints.Integer](v T) ([]byte, error) {
	u, err := varIntValue(v)
	if err != nil {
		return nil, err
	}
	return appendVarInt(make([]byte, 0, varIntLen(u)), u), nil
}

func appendVarInt(dst []byte, u uint64) []byte {
	n := varIntLen(u)
	groups := n - 1
	if n == varIntLong {
		dst = append(dst, 0)
		groups = varIntLong - 1
	} else {
		first := u >> (groups * varIntGroup)
		dst = append(dst, byte(first<<n|1<<(n-1)))
	}
	for i := groups - 1; i >= 0; i-- {
		dst = append(dst, byte(u>>(i*varIntGroup))&varIntMask)
	}
	return dst
}

// VarIntLenFromFirstByte returns the encoded length announced by the first
// byte of a VarInt.
func VarIntLenFromFirstByte(b byte) (int, error) {
	if b&0x80 != 0 {
		return 0, fmt.Errorf("%w: first byte %#02x has its top bit set", ErrMalformedVarInt, b)
	}
	if b == 0 {
		return varIntLong, nil
	}
	for n := 1; n <= varIntMaxShort; n++ {
		if b&(1<<(n-1)) != 0 {
			return n, nil
		}
	}
	// Unreachable: b is non-zero and below 0x80.
	return 0, ErrMalformedVarInt
}

// DecodeVarInt decodes the VarInt at the start of b and returns its value
// and length.
func DecodeVarInt(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("%w: no bytes", ErrMalformedVarInt)
	}
	n, err := VarIntLenFromFirstByte(b[0])
	if err != nil {
		return 0, 0, err
	}
	if len(b) < n {
		return 0, 0, fmt.Errorf("%w: need %d bytes, have %d", ErrMalformedVarInt, n, len(b))
	}

	var u uint64
	if n != varIntLong {
		u = uint64(b[0] >> n)
	}
	for _, c := range b[1:n] {
		if c&0x80 != 0 {
			return 0, 0, fmt.Errorf("%w: continuation byte %#02x has its top bit set", ErrMalformedVarInt, c)
		}
		u = u<<varIntGroup | uint64(c)
	}
	if u > MaxVarInt {
		return 0, 0, fmt.Errorf("%w: value exceeds %d", ErrMalformedVarInt, uint64(MaxVarInt))
	}
	return u, n, nil
}
