package glyph

import (
	"strings"
	"unicode"
)

// separators are collapsed to a single underscore in glyph names.
const separators = "[],`~!@#$%^&*:;><|.\\/=-，。；‘”…【】·！（）()"

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(separators, r)
}

// SanitizeName turns a file base name into a glyph name usable inside CSS
// selectors: surrounding whitespace is trimmed and every run of punctuation
// or whitespace becomes a single '_'.
func SanitizeName(s string) string {
	s = strings.TrimSpace(s)
	sb := strings.Builder{}
	run := false
	for _, r := range s {
		if isSeparator(r) {
			if !run {
				sb.WriteByte('_')
				run = true
			}
			continue
		}
		run = false
		sb.WriteRune(r)
	}
	return sb.String()
}
