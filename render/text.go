package render

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cleanText normalizes text to NFC and strips control characters that
// PDF text operators cannot carry. Tabs widen to spaces; newlines
// survive because both renderers treat them as line breaks.
func cleanText(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, s)
}
