package wsv

import (
	"fmt"
	"strings"
)

// scanner turns WSV text into lines of values, one line per call to
// scanLine. Positions are tracked both as byte offsets into src and as
// UTF-16 code unit offsets for error reporting.
type scanner struct {
	src string

	pos       int  // Byte offset of the next character.
	unit      int  // UTF-16 offset of the next character.
	lineIndex int  // Zero-based index of the current line.
	lineStart int  // UTF-16 offset where the current line starts.
	preserve  bool // Record whitespace and comments.
	strBuf    []byte

	values      []Value
	whitespaces []Value
	comment     Value
}

// newScanner creates a scanner over src. lineIndexOffset is added to the
// line index of every reported error.
func newScanner(src string, preserve bool, lineIndexOffset int) *scanner {
	return &scanner{
		src:       src,
		lineIndex: lineIndexOffset - 1,
		preserve:  preserve,
		strBuf:    make([]byte, 0, 64),
	}
}

// scanLine scans one line into values, whitespaces and comment. more is
// false once the end of input closes the line.
func (s *scanner) scanLine() (more bool, err error) {
	s.lineIndex++
	s.lineStart = s.unit
	s.values = []Value{}
	s.whitespaces = nil
	if s.preserve {
		s.whitespaces = []Value{}
	}
	s.comment = Null

	st := stateWhitespace
	for {
		switch st {
		case stateWhitespace:
			st = s.scanWhitespace()

		case stateLineFeed:
			s.advance(1, 1)
			return true, nil

		case stateEOF:
			return false, nil

		case stateComment:
			return s.scanComment()

		case stateString:
			if err := s.scanString(); err != nil {
				return false, err
			}
			st = stateWhitespace

		case stateValue:
			if err := s.scanValue(); err != nil {
				return false, err
			}
			st = stateWhitespace

		default:
			panic(fmt.Sprintf("wsv: unexpected scanner state %s", st))
		}
	}
}

// scanWhitespace skips a whitespace run and decides what comes next.
func (s *scanner) scanWhitespace() scanState {
	if s.eof() {
		return stateEOF
	}

	start := s.pos
	for s.pos < len(s.src) {
		r, size, ok := decodeRune(s.src[s.pos:])
		if !ok || !isWhitespace(r) {
			break
		}
		// Every whitespace character is a single UTF-16 code unit.
		s.advance(size, 1)
	}

	if s.pos > start {
		if s.preserve {
			s.whitespaces = append(s.whitespaces, Text(s.src[start:s.pos]))
		}
		if s.eof() {
			return stateEOF
		}
	} else if s.preserve {
		s.whitespaces = append(s.whitespaces, Null)
	}

	switch s.src[s.pos] {
	case lineFeed:
		return stateLineFeed
	case hash:
		return stateComment
	case doubleQuote:
		return stateString
	default:
		return stateValue
	}
}

// scanComment consumes '#' and the rest of the line.
func (s *scanner) scanComment() (bool, error) {
	s.advance(1, 1)
	start := s.pos

	for {
		r, size, ok := s.peek()
		if size == 0 {
			s.setComment(start)
			return false, nil
		}
		if !ok {
			return false, s.errorf(ErrMalformedUnicode)
		}
		if r == lineFeed {
			s.setComment(start)
			s.advance(1, 1)
			return true, nil
		}
		s.advance(size, utf16Len(r))
	}
}

func (s *scanner) setComment(start int) {
	if s.preserve {
		s.comment = Text(s.src[start:s.pos])
	}
}

// scanString scans a quoted value. Inside the quotes "" is a literal
// quote and "/" is a line feed.
func (s *scanner) scanString() error {
	s.advance(1, 1) // Consume opening quote.

	// Fast path: no escapes before the closing quote.
	if i := strings.IndexByte(s.src[s.pos:], doubleQuote); i >= 0 {
		seg := s.src[s.pos : s.pos+i]
		if units, ok := utf16Count(seg); ok && strings.IndexByte(seg, lineFeed) < 0 {
			after := s.pos + i + 1
			r, _, ok := decodeRune(s.src[after:])
			if after == len(s.src) || (ok && isDelimiter(r)) {
				s.values = append(s.values, Text(seg))
				s.advance(i+1, units+1)
				return nil
			}
		}
	}

	// Slow path: build the value in strBuf.
	s.strBuf = s.strBuf[:0]
	for {
		r, size, ok := s.peek()
		if size == 0 || r == lineFeed {
			return s.errorf(ErrStringNotClosed)
		}
		if !ok {
			return s.errorf(ErrMalformedUnicode)
		}
		s.advance(size, utf16Len(r))

		if r != doubleQuote {
			s.strBuf = append(s.strBuf, s.src[s.pos-size:s.pos]...)
			continue
		}

		next, nsize, nok := s.peek()
		switch {
		case nsize == 0:
			s.values = append(s.values, Text(string(s.strBuf)))
			return nil
		case !nok:
			return s.errorf(ErrInvalidCharacterAfterString)
		case next == doubleQuote:
			s.strBuf = append(s.strBuf, doubleQuote)
			s.advance(1, 1)
		case isDelimiter(next):
			s.values = append(s.values, Text(string(s.strBuf)))
			return nil
		case next == lineBreakMark:
			s.advance(1, 1)
			if r, size, _ := s.peek(); size == 0 || r != doubleQuote {
				return s.errorf(ErrInvalidStringLineBreak)
			}
			s.strBuf = append(s.strBuf, lineFeed)
			s.advance(1, 1)
		default:
			return s.errorf(ErrInvalidCharacterAfterString)
		}
	}
}

// scanValue scans a bare value up to the next special character. A lone
// "-" is null.
func (s *scanner) scanValue() error {
	start := s.pos
	for {
		r, size, ok := s.peek()
		if size == 0 || (ok && isDelimiter(r)) {
			break
		}
		if !ok {
			return s.errorf(ErrMalformedUnicode)
		}
		if r == doubleQuote {
			return s.errorf(ErrInvalidDoubleQuoteInValue)
		}
		s.advance(size, utf16Len(r))
	}

	if value := s.src[start:s.pos]; value == nullMark {
		s.values = append(s.values, Null)
	} else {
		s.values = append(s.values, Text(value))
	}
	return nil
}

// peek returns the character at the current position. size is 0 at the
// end of input.
func (s *scanner) peek() (r rune, size int, ok bool) {
	if s.eof() {
		return 0, 0, true
	}
	return decodeRune(s.src[s.pos:])
}

func (s *scanner) advance(size, units int) {
	s.pos += size
	s.unit += units
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

// errorf creates a ParseError at the current position.
func (s *scanner) errorf(kind error) error {
	return &ParseError{
		Index:        s.unit,
		LineIndex:    s.lineIndex,
		LinePosition: s.unit - s.lineStart,
		Err:          kind,
	}
}

// utf16Count returns the UTF-16 length of s, or false if s is not valid
// UTF-8.
func utf16Count(s string) (int, bool) {
	n := 0
	for len(s) > 0 {
		r, size, ok := decodeRune(s)
		if !ok {
			return 0, false
		}
		n += utf16Len(r)
		s = s[size:]
	}
	return n, true
}
