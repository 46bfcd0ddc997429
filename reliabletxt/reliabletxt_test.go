package reliabletxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	f := func(name, text string, enc Encoding, expected []byte) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			out, err := Encode(text, enc)
			require.NoError(t, err)
			assert.Equal(t, expected, out)

			decoded, detected, err := Decode(out)
			require.NoError(t, err)
			assert.Equal(t, text, decoded)
			assert.Equal(t, enc, detected)
		})
	}

	f("empty_utf8", "", UTF8, []byte{0xEF, 0xBB, 0xBF})
	f("empty_utf16", "", UTF16, []byte{0xFE, 0xFF})
	f("empty_utf16_reverse", "", UTF16Reverse, []byte{0xFF, 0xFE})
	f("empty_utf32", "", UTF32, []byte{0x00, 0x00, 0xFE, 0xFF})

	f("utf8", "a\nb", UTF8, []byte{0xEF, 0xBB, 0xBF, 0x61, 0x0A, 0x62})
	f("utf16", "a\nb", UTF16, []byte{0xFE, 0xFF, 0x00, 0x61, 0x00, 0x0A, 0x00, 0x62})
	f("utf16_reverse", "a\nb", UTF16Reverse, []byte{0xFF, 0xFE, 0x61, 0x00, 0x0A, 0x00, 0x62, 0x00})
	f("utf32", "a\nb", UTF32, []byte{
		0x00, 0x00, 0xFE, 0xFF,
		0x00, 0x00, 0x00, 0x61,
		0x00, 0x00, 0x00, 0x0A,
		0x00, 0x00, 0x00, 0x62,
	})
	f("utf16_surrogate_pair", "\U0001D11E", UTF16, []byte{0xFE, 0xFF, 0xD8, 0x34, 0xDD, 0x1E})
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	_, err := Encode("a\xffb", UTF16)
	assert.ErrorIs(t, err, ErrInvalidText)
}

func TestDecodeErrors(t *testing.T) {
	f := func(name string, input []byte, expected error) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(input)
			assert.ErrorIs(t, err, expected)
		})
	}

	f("empty", []byte{}, ErrNoPreamble)
	f("no_bom", []byte("Man"), ErrNoPreamble)
	f("invalid_utf8", []byte{0xEF, 0xBB, 0xBF, 0xFF}, ErrInvalidText)
	f("odd_utf16", []byte{0xFE, 0xFF, 0x00}, ErrInvalidText)
	f("lone_high_surrogate", []byte{0xFE, 0xFF, 0xD8, 0x34}, ErrInvalidText)
	f("lone_low_surrogate", []byte{0xFE, 0xFF, 0xDD, 0x1E}, ErrInvalidText)
	f("reversed_surrogates", []byte{0xFF, 0xFE, 0x1E, 0xDD, 0x34, 0xD8}, ErrInvalidText)
	f("utf32_out_of_range", []byte{0x00, 0x00, 0xFE, 0xFF, 0x00, 0x11, 0x00, 0x00}, ErrInvalidText)
	f("utf32_truncated", []byte{0x00, 0x00, 0xFE, 0xFF, 0x00, 0x00}, ErrInvalidText)
}

func TestParseEncoding(t *testing.T) {
	for name, expected := range map[string]Encoding{
		"utf8":     UTF8,
		"UTF-8":    UTF8,
		"utf-16":   UTF16,
		"utf16le":  UTF16Reverse,
		"UTF-32BE": UTF32,
	} {
		enc, err := ParseEncoding(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, enc, name)
	}

	_, err := ParseEncoding("latin1")
	assert.Error(t, err)
}

func TestLines(t *testing.T) {
	assert.Equal(t, "a b\n\nc", JoinLines([]string{"a b", "", "c"}))
	assert.Equal(t, []string{""}, SplitLines(""))
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\nb\n"))
}

func TestBase64(t *testing.T) {
	f := func(text string, enc Encoding, expected string) {
		t.Helper()
		out, err := EncodeBase64(text, enc)
		require.NoError(t, err)
		assert.Equal(t, expected, out)

		b, err := DecodeBase64(out)
		require.NoError(t, err)
		decoded, detected, err := Decode(b)
		require.NoError(t, err)
		assert.Equal(t, text, decoded)
		assert.Equal(t, enc, detected)
	}

	f("", UTF8, "Base64|77u/|")
	f("a b #c\n d", UTF8, "Base64|77u/YSBiICNjCiBk|")
	f("a b #c\n d", UTF16, "Base64|/v8AYQAgAGIAIAAjAGMACgAgAGQ=|")
}

func TestDecodeBase64Errors(t *testing.T) {
	for _, input := range []string{"BASE64|77u/TWFu|", "77u/TWFu", "Base64|", "Base64|!!|"} {
		_, err := DecodeBase64(input)
		assert.ErrorIs(t, err, ErrInvalidBase64, input)
	}

	b, err := DecodeBase64("Base64|TWFu|")
	require.NoError(t, err)
	_, _, err = Decode(b)
	assert.ErrorIs(t, err, ErrNoPreamble)
}
