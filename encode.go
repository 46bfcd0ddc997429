package wsv

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MarshalValue returns the WSV form of a single value:
//   - null -> -
//   - "" -> ""
//   - "-" -> "-" (quoted, so it is not read back as null)
//   - a string with a special character -> quoted, with " doubled and
//     line feeds written as "/"
//   - anything else -> the string itself
func MarshalValue(v Value) (string, error) {
	s, ok := v.Text()
	switch {
	case !ok:
		return nullMark, nil
	case len(s) == 0:
		return `""`, nil
	case s == nullMark:
		return `"-"`, nil
	}

	special, err := containsSpecialChar(s)
	if err != nil {
		return "", err
	}
	if !special {
		return s, nil
	}

	size := 2
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case lineFeed:
			size += 3
		case doubleQuote:
			size += 2
		default:
			size++
		}
	}

	var b strings.Builder
	b.Grow(size)
	b.WriteByte(doubleQuote)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case lineFeed:
			b.WriteString(`"/"`)
		case doubleQuote:
			b.WriteString(`""`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(doubleQuote)
	return b.String(), nil
}

// IsSpecial reports whether MarshalValue would not return the string
// unchanged: null, "", "-" and strings holding a special character.
func IsSpecial(v Value) (bool, error) {
	s, ok := v.Text()
	if !ok || len(s) == 0 || s == nullMark {
		return true, nil
	}
	return containsSpecialChar(s)
}

// SerializeValues joins the WSV form of values with single spaces.
func SerializeValues(values []Value) (string, error) {
	var b strings.Builder
	for i, v := range values {
		if i != 0 {
			b.WriteByte(' ')
		}
		s, err := MarshalValue(v)
		if err != nil {
			return "", fmt.Errorf("value %d: %w", i, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// serializeValuesWhitespacesAndComment writes a line with its recorded
// formatting. Missing whitespace slots fall back to nothing before the
// first value and a single space before the others.
func serializeValuesWhitespacesAndComment(values, whitespaces []Value, comment Value) (string, error) {
	var b strings.Builder
	for i, v := range values {
		def := " "
		if i == 0 {
			def = ""
		}
		ws := Null
		if i < len(whitespaces) {
			ws = whitespaces[i]
		}
		b.WriteString(ws.Or(def))

		s, err := MarshalValue(v)
		if err != nil {
			return "", fmt.Errorf("value %d: %w", i, err)
		}
		b.WriteString(s)
	}

	c, hasComment := comment.Text()
	if len(whitespaces) > len(values) {
		b.WriteString(whitespaces[len(values)].Or(""))
	} else if hasComment && len(values) > 0 {
		b.WriteByte(' ')
	}
	if hasComment {
		b.WriteByte(hash)
		b.WriteString(c)
	}
	return b.String(), nil
}

// SerializeJagged serializes one line per value slice.
func SerializeJagged(lines [][]Value) (string, error) {
	s := newState(nil)
	defer putState(s)

	var b strings.Builder
	s.w = &b
	s.writeJagged(lines)
	if s.err != nil {
		return "", s.err
	}
	return b.String(), nil
}

// SerializeLines serializes lines, with or without their formatting.
func SerializeLines(lines []*Line, preserve bool) string {
	var b strings.Builder
	for i, l := range lines {
		if i != 0 {
			b.WriteByte(lineFeed)
		}
		b.WriteString(l.Format(preserve))
	}
	return b.String()
}

// Marshal returns the WSV text of v as UTF-8 without a byte order mark.
//
// v may be a *Document, Document, *Line, []*Line, []Value, [][]Value,
// [][]string or [][]*string. A nil *string is written as null. Documents
// and lines keep their formatting; use an Encoder with SetPreserve(false)
// to drop it.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// An Encoder writes WSV text to an output stream.
type Encoder struct {
	w        io.Writer
	preserve bool
}

// NewEncoder returns a new encoder that writes to w. It keeps whitespace
// and comments by default.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, preserve: true}
}

// SetPreserve controls whether whitespace and comments of lines are
// written.
func (enc *Encoder) SetPreserve(preserve bool) {
	enc.preserve = preserve
}

// Encode writes the WSV text of v. See Marshal for the accepted types.
func (enc *Encoder) Encode(v any) error {
	s := newState(enc.w)
	defer putState(s)

	switch v := v.(type) {
	case *Document:
		if v == nil {
			return fmt.Errorf("wsv: cannot encode a nil document")
		}
		s.write(v.Format(enc.preserve))
	case Document:
		s.write(v.Format(enc.preserve))
	case *Line:
		if v == nil {
			return fmt.Errorf("wsv: cannot encode a nil line")
		}
		s.write(v.Format(enc.preserve))
	case []*Line:
		s.write(SerializeLines(v, enc.preserve))
	case []Value:
		s.writeValues(v)
	case [][]Value:
		s.writeJagged(v)
	case [][]string:
		s.writeJagged(fromStrings(v))
	case [][]*string:
		s.writeJagged(fromStringPointers(v))
	default:
		return fmt.Errorf("wsv: unsupported type: %T", v)
	}
	return s.err
}

// state holds the output and first error of a single Encode call.
type state struct {
	w   io.Writer
	err error
}

var statePool = sync.Pool{
	New: func() any {
		return new(state)
	},
}

// newState retrieves a new state from the pool.
func newState(w io.Writer) *state {
	s := statePool.Get().(*state)
	s.w = w
	return s
}

// putState returns a state to the pool.
func putState(s *state) {
	s.w = nil
	s.err = nil
	statePool.Put(s)
}

// write writes str unless an earlier write failed.
func (s *state) write(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

func (s *state) writeValues(values []Value) {
	if s.err != nil {
		return
	}
	line, err := SerializeValues(values)
	if err != nil {
		s.err = err
		return
	}
	s.write(line)
}

func (s *state) writeJagged(lines [][]Value) {
	for i, values := range lines {
		if i != 0 {
			s.write("\n")
		}
		s.writeValues(values)
		if s.err != nil {
			s.err = fmt.Errorf("line %d: %w", i+1, s.err)
			return
		}
	}
}

func fromStrings(lines [][]string) [][]Value {
	out := make([][]Value, len(lines))
	for i, line := range lines {
		out[i] = Texts(line...)
	}
	return out
}

func fromStringPointers(lines [][]*string) [][]Value {
	out := make([][]Value, len(lines))
	for i, line := range lines {
		values := make([]Value, len(line))
		for j, p := range line {
			if p != nil {
				values[j] = Text(*p)
			}
		}
		out[i] = values
	}
	return out
}
