package wsv

import "fmt"

// Line is one WSV record: its values and, optionally, the whitespace
// around them and a trailing comment.
//
// Whitespaces holds one slot per value, the whitespace written before that
// value, plus an optional last slot for whitespace after the last value. A
// null slot means the default separator. A nil whitespace slice means no
// formatting was recorded. A null comment means the line has none.
//
// A Line never shares its slices with callers: constructors and Set copy
// their arguments and the getters return copies.
type Line struct {
	values      []Value
	whitespaces []Value
	comment     Value
}

// NewLine validates its arguments and returns a line holding copies of
// them.
func NewLine(values, whitespaces []Value, comment Value) (*Line, error) {
	l := &Line{}
	if err := l.Set(values, whitespaces, comment); err != nil {
		return nil, err
	}
	return l, nil
}

// MustLine is like NewLine but panics on invalid arguments.
func MustLine(values, whitespaces []Value, comment Value) *Line {
	l, err := NewLine(values, whitespaces, comment)
	if err != nil {
		panic(err)
	}
	return l
}

// newLine builds a line from parts the scanner has already validated.
func newLine(values, whitespaces []Value, comment Value) *Line {
	return &Line{values: values, whitespaces: whitespaces, comment: comment}
}

// Set replaces values, whitespaces and comment. Nothing changes if any of
// them is invalid.
func (l *Line) Set(values, whitespaces []Value, comment Value) error {
	for i, v := range values {
		if s, ok := v.Text(); ok {
			if err := validateText(s); err != nil {
				return fmt.Errorf("value %d: %w", i, err)
			}
		}
	}
	if err := ValidateWhitespaces(whitespaces); err != nil {
		return err
	}
	if err := ValidateComment(comment); err != nil {
		return err
	}

	l.values = copyValues(values)
	l.whitespaces = copyValues(whitespaces)
	l.comment = comment
	return nil
}

// Values returns a copy of the line's values.
func (l *Line) Values() []Value {
	out := make([]Value, len(l.values))
	copy(out, l.values)
	return out
}

// Whitespaces returns a copy of the whitespace slots, or nil if none were
// recorded.
func (l *Line) Whitespaces() []Value {
	return copyValues(l.whitespaces)
}

// Comment returns the comment, or Null.
func (l *Line) Comment() Value {
	return l.comment
}

// HasValues reports whether the line has at least one value.
func (l *Line) HasValues() bool {
	return len(l.values) > 0
}

// HasComment reports whether the line has a comment, possibly empty.
func (l *Line) HasComment() bool {
	return !l.comment.IsNull()
}

// String returns the line with its whitespace and comment.
func (l *Line) String() string {
	return l.Format(true)
}

// Format serializes the line. Without preserve, values are separated by a
// single space and the comment is dropped.
func (l *Line) Format(preserve bool) string {
	var s string
	if preserve {
		s, _ = serializeValuesWhitespacesAndComment(l.values, l.whitespaces, l.comment)
	} else {
		s, _ = SerializeValues(l.values)
	}
	return s
}

// ParseLine parses text that must hold exactly one line.
func ParseLine(text string, preserve bool) (*Line, error) {
	lines, err := ParseLines(text, preserve, 0)
	if err != nil {
		return nil, err
	}
	if len(lines) != 1 {
		return nil, ErrMultipleLines
	}
	return lines[0], nil
}

// ParseLineValues parses text that must hold exactly one line and returns
// its values.
func ParseLineValues(text string) ([]Value, error) {
	lines, err := ParseJagged(text, 0)
	if err != nil {
		return nil, err
	}
	if len(lines) != 1 {
		return nil, ErrMultipleLines
	}
	return lines[0], nil
}

// ValidateWhitespaces checks every non-null slot with ValidateWhitespace.
// Only the first slot may be empty.
func ValidateWhitespaces(whitespaces []Value) error {
	for i, ws := range whitespaces {
		s, ok := ws.Text()
		if !ok {
			continue
		}
		if err := ValidateWhitespace(s, i == 0); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWhitespace checks that s consists of whitespace characters. An
// empty string is only allowed when isFirst is set.
func ValidateWhitespace(s string, isFirst bool) error {
	if len(s) == 0 && !isFirst {
		return fmt.Errorf("%w: non-first whitespace string cannot be empty", ErrInvalidWhitespace)
	}
	for i, r := range s {
		if !isWhitespace(r) {
			return fmt.Errorf("%w: invalid character %U at index %d", ErrInvalidWhitespace, r, i)
		}
	}
	return nil
}

// ValidateComment checks that a comment has no line feed and is well
// formed.
func ValidateComment(comment Value) error {
	s, ok := comment.Text()
	if !ok {
		return nil
	}
	if err := validateText(s); err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		if s[i] == lineFeed {
			return fmt.Errorf("%w: line feed in comment is not allowed", ErrInvalidComment)
		}
	}
	return nil
}
