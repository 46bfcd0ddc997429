// Package wsv provides functionality for parsing, encoding and decoding
// WSV (Whitespace Separated Values) documents.
package wsv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/wsv-lang/go-wsv/reliabletxt"
)

// Decoder reads and decodes WSV text from an input stream.
type Decoder struct {
	r               io.Reader
	preserve        bool
	lineIndexOffset int
}

// NewDecoder returns a new decoder that reads from r. It keeps whitespace
// and comments by default.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, preserve: true}
}

// SetPreserve controls whether whitespace and comments are recorded when
// decoding into a *Document or *[]*Line.
func (dec *Decoder) SetPreserve(preserve bool) {
	dec.preserve = preserve
}

// SetLineIndexOffset shifts the line numbers reported in parse errors.
func (dec *Decoder) SetLineIndexOffset(offset int) {
	dec.lineIndexOffset = offset
}

// Decode reads the whole input stream and stores the result in the pointer
// v. See Unmarshal for the accepted types.
func (dec *Decoder) Decode(v any) error {
	data, err := io.ReadAll(dec.r)
	if err != nil {
		return err
	}

	text, enc, err := decodeText(data)
	if err != nil {
		return err
	}

	switch v := v.(type) {
	case *Document:
		if v == nil {
			return errors.New("destination pointer is nil")
		}
		lines, err := ParseLines(text, dec.preserve, dec.lineIndexOffset)
		if err != nil {
			return err
		}
		*v = Document{Lines: lines, Encoding: enc}
		return nil
	case *[]*Line:
		if v == nil {
			return errors.New("destination pointer is nil")
		}
		lines, err := ParseLines(text, dec.preserve, dec.lineIndexOffset)
		if err != nil {
			return err
		}
		*v = lines
		return nil
	}

	lines, err := ParseJagged(text, dec.lineIndexOffset)
	if err != nil {
		return err
	}
	return setValue(v, lines)
}

// Unmarshal parses WSV data and stores the result in the value pointed to
// by v. data is UTF-8 text, or reliable text starting with a byte order
// mark in any supported encoding.
//
// v may point to:
//   - a Document or []*Line, which keep whitespace and comments
//   - [][]Value
//   - [][]S or [][]*S for any string type S; a null value becomes a nil
//     pointer and cannot be stored in S
func Unmarshal(data []byte, v any) error {
	dec := NewDecoder(bytes.NewReader(data))
	return dec.Decode(v)
}

// decodeText returns data as a string. Data that starts with a byte order
// mark is decoded from its encoding, anything else must be UTF-8.
func decodeText(data []byte) (string, reliabletxt.Encoding, error) {
	if _, err := reliabletxt.Detect(data); err != nil {
		return string(data), reliabletxt.UTF8, nil
	}
	return reliabletxt.Decode(data)
}

var valueType = reflect.TypeOf(Value{})

// setValue stores lines in the slice pointed to by dst.
func setValue(dst any, lines [][]Value) error {
	if dst == nil {
		return errors.New("cannot unmarshal into a nil value")
	}

	val := reflect.ValueOf(dst)
	if val.Kind() != reflect.Ptr {
		return errors.New("destination is not a pointer")
	}
	if val.IsNil() {
		return errors.New("destination pointer is nil")
	}

	d := val.Elem()
	if d.Kind() != reflect.Slice || d.Type().Elem().Kind() != reflect.Slice {
		return fmt.Errorf("cannot unmarshal wsv into %s", d.Type())
	}

	lineType := d.Type().Elem()
	out := reflect.MakeSlice(d.Type(), len(lines), len(lines))
	for i, values := range lines {
		line := reflect.MakeSlice(lineType, len(values), len(values))
		for j, v := range values {
			if err := setElem(line.Index(j), v); err != nil {
				return fmt.Errorf("line %d, value %d: %w", i+1, j+1, err)
			}
		}
		out.Index(i).Set(line)
	}

	d.Set(out)
	return nil
}

// setElem stores a single value in dst.
func setElem(dst reflect.Value, v Value) error {
	if dst.Type() == valueType {
		dst.Set(reflect.ValueOf(v))
		return nil
	}

	switch dst.Kind() {
	case reflect.String:
		s, ok := v.Text()
		if !ok {
			return ErrNullValue
		}
		dst.SetString(s)
		return nil
	case reflect.Ptr:
		if dst.Type().Elem().Kind() != reflect.String {
			break
		}
		s, ok := v.Text()
		if !ok {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		p := reflect.New(dst.Type().Elem())
		p.Elem().SetString(s)
		dst.Set(p)
		return nil
	}
	return fmt.Errorf("cannot unmarshal value into %s", dst.Type())
}
