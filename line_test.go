package wsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLine(t *testing.T) {
	f := func(name string, values, whitespaces []Value, comment Value, expected string) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			l, err := NewLine(values, whitespaces, comment)
			require.NoError(t, err)
			assert.Equal(t, expected, l.String())

			// Whatever is written reads back to the same line.
			back, err := ParseLine(expected, true)
			require.NoError(t, err)
			assert.Equal(t, l.Values(), back.Values())
			assert.Equal(t, l.Comment(), back.Comment())
		})
	}

	f("empty", nil, nil, Null, "")
	f("values", Texts("a", "b"), nil, Null, "a b")
	f("null_whitespaces", Texts("a", "b"), []Value{Null, Null, Null}, Text("c"), "a b#c")
	f("default_comment_space", Texts("a"), nil, Text("c"), "a #c")
	f("comment_only", nil, nil, Text("c"), "#c")
	f("whitespace_only", nil, Texts("  "), Null, "  ")
	f("leading_empty", Texts("a"), Texts(""), Null, "a")
	f("short_whitespaces", Texts("a", "b", "c"), Texts("\t"), Null, "\ta b c")
	f("trailing", Texts("a"), Texts(" ", " \t "), Text("x"), " a \t #x")
	f("special_values", []Value{Null, Text(""), Text("-"), Text("a b")}, nil, Null, `- "" "-" "a b"`)
}

func TestNewLineInvalid(t *testing.T) {
	f := func(name string, values, whitespaces []Value, comment Value, expected error) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			_, err := NewLine(values, whitespaces, comment)
			assert.ErrorIs(t, err, expected)
		})
	}

	f("empty_non_first_whitespace", Texts("a", "b"), Texts(" ", ""), Null, ErrInvalidWhitespace)
	f("non_whitespace", Texts("a"), Texts(" x"), Null, ErrInvalidWhitespace)
	f("line_feed_whitespace", Texts("a"), Texts("\n"), Null, ErrInvalidWhitespace)
	f("line_feed_comment", Texts("a"), nil, Text("a\nb"), ErrInvalidComment)
	f("malformed_comment", nil, nil, Text("\xff"), ErrMalformedUnicode)
	f("malformed_value", Texts("\xff"), nil, Null, ErrMalformedUnicode)
}

func TestLineSetIsAtomic(t *testing.T) {
	l := MustLine(Texts("a"), Texts(" "), Text("c"))

	err := l.Set(Texts("b"), Texts("x"), Null)
	require.Error(t, err)
	assert.Equal(t, Texts("a"), l.Values())
	assert.Equal(t, Texts(" "), l.Whitespaces())
	assert.Equal(t, Text("c"), l.Comment())

	require.NoError(t, l.Set(Texts("b"), nil, Null))
	assert.Equal(t, "b", l.String())
}

func TestLineCopies(t *testing.T) {
	values := Texts("a", "b")
	whitespaces := Texts(" ", " ")
	l := MustLine(values, whitespaces, Null)

	values[0] = Text("x")
	whitespaces[0] = Text("\t")
	assert.Equal(t, " a b", l.String())

	got := l.Values()
	got[1] = Null
	assert.Equal(t, Texts("a", "b"), l.Values())

	assert.True(t, l.HasValues())
	assert.False(t, l.HasComment())
	assert.False(t, MustLine(nil, nil, Text("")).HasValues())
	assert.True(t, MustLine(nil, nil, Text("")).HasComment())
}

func TestMustLinePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustLine(nil, nil, Text("\n"))
	})
}

func TestParseLine(t *testing.T) {
	l, err := ParseLine(" a #c", false)
	require.NoError(t, err)
	assert.Equal(t, "a", l.String())
	assert.Nil(t, l.Whitespaces())

	l, err = ParseLine(" a #c", true)
	require.NoError(t, err)
	assert.Equal(t, " a #c", l.String())
	assert.Equal(t, "a", l.Format(false))

	_, err = ParseLine("a\n", true)
	assert.ErrorIs(t, err, ErrMultipleLines)

	values, err := ParseLineValues("a - \"b\"")
	require.NoError(t, err)
	assert.Equal(t, []Value{Text("a"), Null, Text("b")}, values)

	_, err = ParseLineValues("a\nb")
	assert.ErrorIs(t, err, ErrMultipleLines)
}

func TestValidateWhitespace(t *testing.T) {
	f := func(name, s string, isFirst, valid bool) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			err := ValidateWhitespace(s, isFirst)
			if valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidWhitespace)
			}
		})
	}

	f("space", " ", false, true)
	f("mixed", " \t\v\f\r\u0085\u00a0\u1680\u2000\u200a\u2028\u2029\u202f\u205f\u3000", false, true)
	f("empty_first", "", true, true)
	f("empty", "", false, false)
	f("letter", " a", true, false)
	f("line_feed", "\n", true, false)
	f("zero_width_space", "\u200b", true, false)
}
