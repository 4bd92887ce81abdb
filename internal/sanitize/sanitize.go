// Package sanitize strips characters that break tokenizers and storage from untrusted text.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Text removes null bytes and non-printable characters, keeping \n, \r and \t.
// Invalid UTF-8 sequences are replaced with U+FFFD, so the result is always valid UTF-8.
// Text is idempotent: Text(Text(s)) == Text(s).
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.Map(keep, s)
}

func keep(r rune) rune {
	switch {
	case r == 0:
		return -1
	case r == '\n' || r == '\r' || r == '\t':
		return r
	case unicode.IsPrint(r):
		return r
	default:
		return -1
	}
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Preview sanitizes s and truncates it to n runes.
func Preview(s string, n int) string {
	return Truncate(Text(s), n)
}
