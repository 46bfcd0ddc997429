package wsv

import "unicode/utf8"

const (
	lineFeed      = '\n'
	doubleQuote   = '"'
	hash          = '#'
	lineBreakMark = '/'
	nullMark      = "-"
)

// isWhitespace reports whether r belongs to the WSV whitespace set.
func isWhitespace(r rune) bool {
	switch r {
	case 0x0009, 0x000B, 0x000C, 0x000D, 0x0020, 0x0085, 0x00A0, 0x1680,
		0x2000, 0x2001, 0x2002, 0x2003, 0x2004, 0x2005, 0x2006, 0x2007,
		0x2008, 0x2009, 0x200A, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000:
		return true
	}
	return false
}

// isSpecialChar reports whether r forces a value to be quoted.
func isSpecialChar(r rune) bool {
	return r == doubleQuote || r == hash || r == lineFeed || isWhitespace(r)
}

// isDelimiter reports whether r ends a bare value or may follow a closing
// quote.
func isDelimiter(r rune) bool {
	return r == lineFeed || r == hash || isWhitespace(r)
}

// decodeRune returns the rune at the start of s and its width in bytes.
// ok is false for a byte that does not start a well formed sequence,
// which is how unpaired surrogates show up in Go strings.
func decodeRune(s string) (r rune, size int, ok bool) {
	if len(s) > 0 && s[0] < utf8.RuneSelf {
		return rune(s[0]), 1, true
	}
	r, size = utf8.DecodeRuneInString(s)
	return r, size, r != utf8.RuneError || size > 1
}

// utf16Len returns the number of UTF-16 code units needed for r.
func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// containsSpecialChar validates s and reports whether it holds a special
// character. Validation does not stop at the first special character.
func containsSpecialChar(s string) (bool, error) {
	special := false
	for len(s) > 0 {
		r, size, ok := decodeRune(s)
		if !ok {
			return false, ErrMalformedUnicode
		}
		if !special && isSpecialChar(r) {
			special = true
		}
		s = s[size:]
	}
	return special, nil
}

// validateText reports ErrMalformedUnicode for s that is not valid UTF-8.
func validateText(s string) error {
	if !utf8.ValidString(s) {
		return ErrMalformedUnicode
	}
	return nil
}
