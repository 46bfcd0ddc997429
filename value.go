package wsv

import "strconv"

// Value is a WSV value: either a string or null. The zero Value is null,
// which is distinct from the empty string and from the string "-".
type Value struct {
	s  string
	ok bool
}

// Null is the null value, written as a bare "-".
var Null = Value{}

// Text returns a string value.
func Text(s string) Value {
	return Value{s: s, ok: true}
}

// Texts returns a string value for each argument.
func Texts(ss ...string) []Value {
	values := make([]Value, len(ss))
	for i, s := range ss {
		values[i] = Text(s)
	}
	return values
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return !v.ok
}

// Text returns the string held by v. ok is false for null.
func (v Value) Text() (s string, ok bool) {
	return v.s, v.ok
}

// Or returns the string held by v, or def when v is null.
func (v Value) Or(def string) string {
	if !v.ok {
		return def
	}
	return v.s
}

// GoString makes null and empty strings distinguishable in test output.
func (v Value) GoString() string {
	if !v.ok {
		return "wsv.Null"
	}
	return "wsv.Text(" + strconv.Quote(v.s) + ")"
}

func copyValues(values []Value) []Value {
	if values == nil {
		return nil
	}
	out := make([]Value, len(values))
	copy(out, values)
	return out
}
