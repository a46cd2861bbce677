package chunking

import (
	"regexp"
	"strings"
)

// Splitter turns normalized text into an ordered list of sentences.
type Splitter interface {
	Split(text string) []string
}

// SplitterFunc adapts a plain function to Splitter.
type SplitterFunc func(text string) []string

func (f SplitterFunc) Split(text string) []string { return f(text) }

// boundaryPattern matches terminal punctuation, the whitespace after it and the
// uppercase letter opening the next sentence. \p{Lu} covers accented capitals.
var boundaryPattern = regexp.MustCompile(`[.!?]\s+\p{Lu}`)

// SplitSentences cuts text after '.', '!' or '?' when whitespace follows and the
// next non-space rune is uppercase. Lowercase continuations ("approx. value",
// "3.5 m") never split. Sentences are trimmed and empties dropped.
func SplitSentences(text string) []string {
	var sentences []string
	appendTrimmed := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	start := 0
	for _, loc := range boundaryPattern.FindAllStringIndex(text, -1) {
		// loc[0] is the punctuation (one byte); the next sentence begins at the
		// uppercase rune, which is the last rune of the match.
		end := loc[0] + 1
		next := loc[1] - lastRuneLen(text[:loc[1]])
		appendTrimmed(text[start:end])
		start = next
	}
	appendTrimmed(text[start:])
	return sentences
}

func lastRuneLen(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i]&0xC0 != 0x80 {
			return len(s) - i
		}
	}
	return len(s)
}
