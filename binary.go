package wsv

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Binary WSV stores only values, no whitespace or comments. A payload
// starts with a preamble, "BWSV" and a version digit, followed by one
// VarInt token per value:
//
//	0     line break
//	1     null
//	2     empty string
//	n>=3  a UTF-8 string of n-2 bytes follows
//
// The legacy format uses the 3-byte preamble "BW1" and reserved bytes that
// never occur in UTF-8 instead of length prefixes.
const (
	binaryMagic       = "BWSV"
	legacyBinaryMagic = "BW"

	binaryVersion1 = '1'

	tokenLineBreak   = 0
	tokenNull        = 1
	tokenEmptyString = 2
	tokenLengthBase  = 2

	legacyLineBreak      = 0xFF
	legacyValueSeparator = 0xFE
	legacyNull           = 0xFD
	legacyEmptyString    = 0xFC
)

// Preamble is the header of a binary WSV payload.
type Preamble struct {
	Magic   string // "BWSV", or "BW" for the legacy format.
	Version byte   // ASCII digit.
}

// Len returns the size of the preamble in bytes.
func (p Preamble) Len() int {
	return len(p.Magic) + 1
}

// Legacy reports whether the payload uses the sentinel byte format.
func (p Preamble) Legacy() bool {
	return p.Magic == legacyBinaryMagic
}

func (p Preamble) String() string {
	return p.Magic + string(rune(p.Version))
}

// PeekBinaryPreamble returns the preamble at the start of b, if any.
func PeekBinaryPreamble(b []byte) (Preamble, bool) {
	var p Preamble
	switch {
	case bytes.HasPrefix(b, []byte(binaryMagic)):
		p.Magic = binaryMagic
	case bytes.HasPrefix(b, []byte(legacyBinaryMagic)):
		p.Magic = legacyBinaryMagic
	default:
		return Preamble{}, false
	}

	if len(b) < p.Len() {
		return Preamble{}, false
	}
	p.Version = b[len(p.Magic)]
	if p.Version < '0' || p.Version > '9' {
		return Preamble{}, false
	}
	return p, true
}

// ReadBinaryPreamble returns the preamble at the start of b. It fails with
// ErrNoPreamble if there is none and with ErrUnsupportedVersion if the
// version cannot be decoded.
func ReadBinaryPreamble(b []byte) (Preamble, error) {
	p, ok := PeekBinaryPreamble(b)
	if !ok {
		return Preamble{}, ErrNoPreamble
	}
	if p.Version != binaryVersion1 {
		return p, fmt.Errorf("%w: %q", ErrUnsupportedVersion, p.Version)
	}
	return p, nil
}

// EncodeBinary encodes lines with VarInt length prefixes. withPreamble is
// false for payloads embedded in another framed container.
func EncodeBinary(lines [][]Value, withPreamble bool) ([]byte, error) {
	size := 0
	if withPreamble {
		size = len(binaryMagic) + 1
	}
	for i, values := range lines {
		if i != 0 {
			size++
		}
		for _, v := range values {
			s, _ := v.Text()
			size += varIntLen(uint64(len(s)+tokenLengthBase)) + len(s)
		}
	}

	out := make([]byte, 0, size)
	if withPreamble {
		out = append(out, binaryMagic...)
		out = append(out, binaryVersion1)
	}
	for i, values := range lines {
		if i != 0 {
			out = appendVarInt(out, tokenLineBreak)
		}
		for j, v := range values {
			s, ok := v.Text()
			switch {
			case !ok:
				out = appendVarInt(out, tokenNull)
			case len(s) == 0:
				out = appendVarInt(out, tokenEmptyString)
			default:
				if err := validateText(s); err != nil {
					return nil, fmt.Errorf("line %d, value %d: %w", i+1, j+1, err)
				}
				var err error
				if out, err = AppendVarInt(out, len(s)+tokenLengthBase); err != nil {
					return nil, err
				}
				out = append(out, s...)
			}
		}
	}
	return out, nil
}

// DecodeBinary decodes a binary WSV payload. With withPreamble the payload
// must start with a supported preamble, and either format is accepted;
// without it the payload is a bare VarInt token stream. Empty parts between
// legacy value separators are skipped.
func DecodeBinary(b []byte, withPreamble bool) ([][]Value, error) {
	if !withPreamble {
		return decodeTokens(b, 0)
	}

	p, err := ReadBinaryPreamble(b)
	if err != nil {
		return nil, err
	}
	if p.Legacy() {
		return decodeLegacy(b[p.Len():], p.Len())
	}
	return decodeTokens(b[p.Len():], p.Len())
}

// decodeTokens decodes a VarInt token stream. base is the offset of b in
// the payload, for error messages.
func decodeTokens(b []byte, base int) ([][]Value, error) {
	lines := [][]Value{{}}
	cur := 0

	for off := 0; off < len(b); {
		token, n, err := DecodeVarInt(b[off:])
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", base+off, err)
		}
		off += n

		switch token {
		case tokenLineBreak:
			lines = append(lines, []Value{})
			cur++
		case tokenNull:
			lines[cur] = append(lines[cur], Null)
		case tokenEmptyString:
			lines[cur] = append(lines[cur], Text(""))
		default:
			length := token - tokenLengthBase
			if length > uint64(len(b)-off) {
				return nil, fmt.Errorf("%w: value of %d bytes at offset %d is truncated", ErrInvalidBinary, length, base+off)
			}
			value := b[off : off+int(length)]
			if !utf8.Valid(value) {
				return nil, fmt.Errorf("%w: value at offset %d is not valid UTF-8", ErrInvalidBinary, base+off)
			}
			lines[cur] = append(lines[cur], Text(string(value)))
			off += int(length)
		}
	}
	return lines, nil
}

// EncodeLegacyBinary encodes lines in the sentinel byte format, preceded
// by the "BW1" preamble.
func EncodeLegacyBinary(lines [][]Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(legacyBinaryMagic)
	buf.WriteByte(binaryVersion1)

	for i, values := range lines {
		if i != 0 {
			buf.WriteByte(legacyLineBreak)
		}
		for j, v := range values {
			if j != 0 {
				buf.WriteByte(legacyValueSeparator)
			}
			s, ok := v.Text()
			switch {
			case !ok:
				buf.WriteByte(legacyNull)
			case len(s) == 0:
				buf.WriteByte(legacyEmptyString)
			default:
				if err := validateText(s); err != nil {
					return nil, fmt.Errorf("line %d, value %d: %w", i+1, j+1, err)
				}
				buf.WriteString(s)
			}
		}
	}
	return buf.Bytes(), nil
}

// decodeLegacy decodes a sentinel byte body. A value is never empty on the
// wire, so empty parts between separators are dropped.
func decodeLegacy(b []byte, base int) ([][]Value, error) {
	var lines [][]Value
	off := base

	for _, lineBytes := range bytes.Split(b, []byte{legacyLineBreak}) {
		values := []Value{}
		if len(lineBytes) > 0 {
			for _, valueBytes := range bytes.Split(lineBytes, []byte{legacyValueSeparator}) {
				if len(valueBytes) == 0 {
					off++
					continue
				}
				v, err := decodeLegacyValue(valueBytes, off)
				if err != nil {
					return nil, err
				}
				values = append(values, v)
				off += len(valueBytes) + 1
			}
		} else {
			off++
		}
		lines = append(lines, values)
	}
	return lines, nil
}

func decodeLegacyValue(b []byte, off int) (Value, error) {
	switch {
	case len(b) == 1 && b[0] == legacyNull:
		return Null, nil
	case len(b) == 1 && b[0] == legacyEmptyString:
		return Text(""), nil
	case !utf8.Valid(b):
		return Null, fmt.Errorf("%w: value at offset %d is not valid UTF-8", ErrInvalidBinary, off)
	}
	return Text(string(b)), nil
}
