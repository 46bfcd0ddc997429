package wsv

import (
	"github.com/wsv-lang/go-wsv/reliabletxt"
)

// Document is an ordered list of lines plus the encoding used when the
// document is turned into bytes.
//
// A document owns its lines. Callers must not put the same *Line into
// more than one document, since Line.Set on one would change the other;
// use Clone to get an independent copy.
type Document struct {
	Lines    []*Line
	Encoding reliabletxt.Encoding
}

// NewDocument returns an empty document with the given encoding.
func NewDocument(encoding reliabletxt.Encoding) *Document {
	return &Document{Encoding: encoding}
}

// AddLine validates and appends a line.
func (d *Document) AddLine(values, whitespaces []Value, comment Value) error {
	l, err := NewLine(values, whitespaces, comment)
	if err != nil {
		return err
	}
	d.Lines = append(d.Lines, l)
	return nil
}

// Clone returns a copy of d that shares no lines with it.
func (d *Document) Clone() *Document {
	lines := make([]*Line, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = newLine(l.Values(), l.Whitespaces(), l.Comment())
	}
	return &Document{Lines: lines, Encoding: d.Encoding}
}

// Jagged returns the values of every line without formatting.
func (d *Document) Jagged() [][]Value {
	out := make([][]Value, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.Values()
	}
	return out
}

// String returns the document text with whitespace and comments.
func (d *Document) String() string {
	return d.Format(true)
}

// Format returns the document text, optionally without formatting.
func (d *Document) Format(preserve bool) string {
	return SerializeLines(d.Lines, preserve)
}

// Bytes returns the document text encoded with d.Encoding, preceded by the
// encoding's byte order mark.
func (d *Document) Bytes(preserve bool) ([]byte, error) {
	return reliabletxt.Encode(d.Format(preserve), d.Encoding)
}

// Base64 returns Bytes wrapped as Base64|...|.
func (d *Document) Base64(preserve bool) (string, error) {
	return reliabletxt.EncodeBase64(d.Format(preserve), d.Encoding)
}

// BinaryWSV returns the document values in the binary format. Formatting
// and encoding are not part of it.
func (d *Document) BinaryWSV(withPreamble bool) ([]byte, error) {
	return EncodeBinary(d.Jagged(), withPreamble)
}

// ParseDocument parses text into a document.
func ParseDocument(text string, preserve bool, encoding reliabletxt.Encoding) (*Document, error) {
	lines, err := ParseLines(text, preserve, 0)
	if err != nil {
		return nil, err
	}
	return &Document{Lines: lines, Encoding: encoding}, nil
}

// ParseDocumentJagged parses text into values only.
func ParseDocumentJagged(text string) ([][]Value, error) {
	return ParseJagged(text, 0)
}

// DocumentFromJagged builds a document with one line per value slice.
func DocumentFromJagged(lines [][]Value, encoding reliabletxt.Encoding) (*Document, error) {
	d := NewDocument(encoding)
	for _, values := range lines {
		if err := d.AddLine(values, nil, Null); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// DocumentFromBytes decodes reliable text bytes and parses them. The
// document takes the encoding named by the byte order mark; bytes without
// one fail with ErrNoTextPreamble.
func DocumentFromBytes(b []byte, preserve bool) (*Document, error) {
	text, encoding, err := reliabletxt.Decode(b)
	if err != nil {
		return nil, err
	}
	return ParseDocument(text, preserve, encoding)
}

// DocumentFromLines joins lines with line feeds and parses the result.
func DocumentFromLines(lines []string, preserve bool, encoding reliabletxt.Encoding) (*Document, error) {
	return ParseDocument(reliabletxt.JoinLines(lines), preserve, encoding)
}

// DocumentFromBase64 parses a Base64|...| string made by Document.Base64.
func DocumentFromBase64(s string, preserve bool) (*Document, error) {
	b, err := reliabletxt.DecodeBase64(s)
	if err != nil {
		return nil, err
	}
	return DocumentFromBytes(b, preserve)
}

// DocumentFromBinary decodes a binary WSV payload that starts with a
// preamble. The document uses UTF-8.
func DocumentFromBinary(b []byte) (*Document, error) {
	lines, err := DecodeBinary(b, true)
	if err != nil {
		return nil, err
	}
	return DocumentFromJagged(lines, reliabletxt.UTF8)
}
