package chunking

import (
	"strings"
	"unicode"
)

// isExtractionNoise reports control characters that PDF extraction tends to inject.
// Tab, LF and CR are kept here and collapsed as whitespace instead.
func isExtractionNoise(r rune) bool {
	switch {
	case r <= 0x08:
		return true
	case r == 0x0B || r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r >= 0x7F && r <= 0x9F:
		return true
	}
	return false
}

// Normalize strips extraction noise, collapses every whitespace run into one
// ASCII space and trims both ends. Any other rune is passed through untouched.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		if isExtractionNoise(r) {
			continue
		}
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
