package wsv

import (
	"errors"
	"fmt"

	"github.com/wsv-lang/go-wsv/reliabletxt"
)

// Text syntax errors. They are wrapped in a *ParseError that records where
// the parser stopped.
var (
	ErrStringNotClosed             = errors.New("string not closed")
	ErrInvalidStringLineBreak      = errors.New("invalid string line break")
	ErrInvalidCharacterAfterString = errors.New("invalid character after string")
	ErrInvalidDoubleQuoteInValue   = errors.New("invalid double quote in value")
)

var (
	// ErrMalformedUnicode reports text that is not well formed Unicode.
	ErrMalformedUnicode = errors.New("malformed unicode text")

	ErrInvalidWhitespace = errors.New("invalid whitespace string")
	ErrInvalidComment    = errors.New("invalid comment")
	ErrMultipleLines     = errors.New("multiple wsv lines not allowed")

	// Single value parsing.
	ErrNoValue              = errors.New("no value")
	ErrMultipleValues       = errors.New("multiple values")
	ErrCommentNotAllowed    = errors.New("comment not allowed")
	ErrWhitespaceNotAllowed = errors.New("whitespace not allowed")

	// ErrNullValue is returned when a null value is decoded into a type
	// that cannot hold it.
	ErrNullValue = errors.New("null value")
)

// Binary errors.
var (
	ErrMalformedVarInt    = errors.New("malformed varint")
	ErrVarIntRange        = errors.New("varint value out of range")
	ErrNoPreamble         = errors.New("missing or wrong binary wsv preamble")
	ErrUnsupportedVersion = errors.New("unsupported binary wsv version")
	ErrInvalidBinary      = errors.New("invalid binary wsv")
)

// ErrNoTextPreamble is returned when document bytes lack a byte order mark.
var ErrNoTextPreamble = reliabletxt.ErrNoPreamble

// ParseError describes a syntax error in WSV text. Index and LinePosition
// count UTF-16 code units.
type ParseError struct {
	Index        int // Offset from the start of the input.
	LineIndex    int // Zero-based line.
	LinePosition int // Zero-based column within the line.
	Err          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (%d, %d)", e.Err, e.LineIndex+1, e.LinePosition+1)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
