// Package reliabletxt implements the reliable text layer used by WSV
// documents: text is always stored with a byte order mark (the preamble)
// that identifies one of four Unicode encodings, so a reader never has to
// guess how to decode it.
package reliabletxt

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

var (
	// ErrNoPreamble is returned when bytes do not start with a known
	// byte order mark.
	ErrNoPreamble = errors.New("document does not have a reliable text preamble")

	// ErrInvalidText is returned when text cannot be represented in, or
	// decoded from, the requested encoding.
	ErrInvalidText = errors.New("invalid encoded text")

	// ErrInvalidBase64 is returned for a malformed Base64|...| string.
	ErrInvalidBase64 = errors.New("invalid base64 string")
)

// Encoding identifies the Unicode encoding of a reliable text document.
type Encoding int

const (
	UTF8         Encoding = iota // UTF-8 with EF BB BF.
	UTF16                        // UTF-16 big endian with FE FF.
	UTF16Reverse                 // UTF-16 little endian with FF FE.
	UTF32                        // UTF-32 big endian with 00 00 FE FF.
)

var (
	preambleUTF8         = []byte{0xEF, 0xBB, 0xBF}
	preambleUTF16        = []byte{0xFE, 0xFF}
	preambleUTF16Reverse = []byte{0xFF, 0xFE}
	preambleUTF32        = []byte{0x00, 0x00, 0xFE, 0xFF}
)

// String returns the canonical name of the encoding.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF16:
		return "utf-16"
	case UTF16Reverse:
		return "utf-16le"
	case UTF32:
		return "utf-32"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// ParseEncoding maps a name such as "utf8", "utf-16" or "utf16le" to an
// Encoding. Matching ignores case and dashes.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "-", "") {
	case "utf8":
		return UTF8, nil
	case "utf16", "utf16be":
		return UTF16, nil
	case "utf16le", "utf16reverse":
		return UTF16Reverse, nil
	case "utf32", "utf32be":
		return UTF32, nil
	}

	return UTF8, fmt.Errorf("unknown encoding %q", name)
}

// Preamble returns the byte order mark written before encoded text.
func (e Encoding) Preamble() []byte {
	switch e {
	case UTF16:
		return preambleUTF16
	case UTF16Reverse:
		return preambleUTF16Reverse
	case UTF32:
		return preambleUTF32
	default:
		return preambleUTF8
	}
}

// codec returns the x/text codec for encodings that are not UTF-8.
func (e Encoding) codec() encoding.Encoding {
	switch e {
	case UTF16:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case UTF16Reverse:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF32:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	default:
		return nil
	}
}

// Detect returns the encoding named by the preamble at the start of b.
func Detect(b []byte) (Encoding, error) {
	switch {
	case bytes.HasPrefix(b, preambleUTF8):
		return UTF8, nil
	case bytes.HasPrefix(b, preambleUTF32):
		return UTF32, nil
	case bytes.HasPrefix(b, preambleUTF16):
		return UTF16, nil
	case bytes.HasPrefix(b, preambleUTF16Reverse):
		return UTF16Reverse, nil
	}

	return UTF8, ErrNoPreamble
}

// Encode returns the preamble of enc followed by text in that encoding.
// Text that is not valid UTF-8 is rejected instead of being replaced.
func Encode(text string, enc Encoding) ([]byte, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}

	preamble := enc.Preamble()
	codec := enc.codec()
	if codec == nil {
		out := make([]byte, 0, len(preamble)+len(text))
		out = append(out, preamble...)
		return append(out, text...), nil
	}

	body, _, err := transform.Bytes(codec.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidText, err)
	}

	out := make([]byte, 0, len(preamble)+len(body))
	out = append(out, preamble...)
	return append(out, body...), nil
}

// Decode detects the preamble of b and returns the decoded text.
// Unpaired surrogates, out of range code points and truncated code units
// are errors.
func Decode(b []byte) (string, Encoding, error) {
	enc, err := Detect(b)
	if err != nil {
		return "", enc, err
	}

	body := b[len(enc.Preamble()):]
	switch enc {
	case UTF8:
		if !utf8.Valid(body) {
			return "", enc, ErrInvalidText
		}
		return string(body), enc, nil
	case UTF16:
		err = validateUTF16(body, true)
	case UTF16Reverse:
		err = validateUTF16(body, false)
	case UTF32:
		err = validateUTF32(body)
	}
	if err != nil {
		return "", enc, err
	}

	text, _, err := transform.Bytes(enc.codec().NewDecoder(), body)
	if err != nil {
		return "", enc, fmt.Errorf("%w: %v", ErrInvalidText, err)
	}

	return string(text), enc, nil
}

// validateUTF16 checks surrogate pairing in UTF-16 code units.
func validateUTF16(b []byte, bigEndian bool) error {
	if len(b)%2 != 0 {
		return ErrInvalidText
	}

	unit := func(i int) uint16 {
		if bigEndian {
			return uint16(b[i])<<8 | uint16(b[i+1])
		}
		return uint16(b[i+1])<<8 | uint16(b[i])
	}

	for i := 0; i < len(b); i += 2 {
		u := unit(i)
		if u < 0xD800 || u > 0xDFFF {
			continue
		}
		if u >= 0xDC00 || i+2 >= len(b) {
			return ErrInvalidText
		}
		i += 2
		if next := unit(i); next < 0xDC00 || next > 0xDFFF {
			return ErrInvalidText
		}
	}

	return nil
}

// validateUTF32 checks that every big endian code point is a scalar value.
func validateUTF32(b []byte) error {
	if len(b)%4 != 0 {
		return ErrInvalidText
	}

	for i := 0; i < len(b); i += 4 {
		cp := uint32(b[i])<<24 | uint32(b[i+1])<<16 | uint32(b[i+2])<<8 | uint32(b[i+3])
		if cp > utf8.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
			return ErrInvalidText
		}
	}

	return nil
}

// JoinLines joins lines with a line feed.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// SplitLines splits text at every line feed. An empty text is one empty
// line.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

const (
	base64Prefix = "Base64|"
	base64Suffix = "|"
)

// EncodeBase64 encodes text with enc and wraps the bytes as Base64|...|.
func EncodeBase64(text string, enc Encoding) (string, error) {
	b, err := Encode(text, enc)
	if err != nil {
		return "", err
	}

	return base64Prefix + base64.StdEncoding.EncodeToString(b) + base64Suffix, nil
}

// DecodeBase64 unwraps a Base64|...| string. The prefix is case sensitive.
func DecodeBase64(s string) ([]byte, error) {
	if len(s) < len(base64Prefix)+len(base64Suffix) ||
		!strings.HasPrefix(s, base64Prefix) || !strings.HasSuffix(s, base64Suffix) {
		return nil, ErrInvalidBase64
	}

	payload := s[len(base64Prefix) : len(s)-len(base64Suffix)]
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}

	return b, nil
}
