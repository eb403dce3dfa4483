package service

import (
	"strings"
	"unicode/utf8"
)

// sanitizeText prepares extracted text for a Postgres text column: invalid
// UTF-8 bytes and NUL characters are dropped, and U+FFFD placeholders left
// by PDF text layers are removed.
func sanitizeText(s string) string {
	if utf8.ValidString(s) && !strings.ContainsAny(s, "\x00�") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r == utf8.RuneError || r == 0 {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
