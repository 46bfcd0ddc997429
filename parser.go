package wsv

// ParseLines parses text into lines. With preserve, every line records its
// whitespace and comment so that SerializeLines reproduces text exactly.
// lineIndexOffset shifts the line numbers reported in errors, for text
// that is part of a larger document.
func ParseLines(text string, preserve bool, lineIndexOffset int) ([]*Line, error) {
	s := newScanner(text, preserve, lineIndexOffset)

	var lines []*Line
	for {
		more, err := s.scanLine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, newLine(s.values, s.whitespaces, s.comment))
		if !more {
			return lines, nil
		}
	}
}

// ParseJagged parses text into one value slice per line, dropping
// whitespace and comments.
func ParseJagged(text string, lineIndexOffset int) ([][]Value, error) {
	s := newScanner(text, false, lineIndexOffset)

	var lines [][]Value
	for {
		more, err := s.scanLine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, s.values)
		if !more {
			return lines, nil
		}
	}
}

// ParseValue parses text holding exactly one value. Unless
// allowWhitespaceAndComment is set, the value must not be surrounded by
// whitespace or followed by a comment.
func ParseValue(text string, allowWhitespaceAndComment bool) (Value, error) {
	line, err := ParseLine(text, true)
	if err != nil {
		return Null, err
	}

	switch len(line.values) {
	case 0:
		return Null, ErrNoValue
	case 1:
	default:
		return Null, ErrMultipleValues
	}

	if !allowWhitespaceAndComment {
		if line.HasComment() {
			return Null, ErrCommentNotAllowed
		}
		ws := line.whitespaces
		if len(ws) > 0 && (!ws[0].IsNull() || len(ws) > 1) {
			return Null, ErrWhitespaceNotAllowed
		}
	}
	return line.values[0], nil
}
