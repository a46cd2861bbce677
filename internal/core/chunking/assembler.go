package chunking

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChunkSize is the chunk ceiling in characters (runes).
const DefaultMaxChunkSize = 1000

// assembler accumulates sentence fragments until the next one would overflow.
type assembler struct {
	max     int
	chunks  []string
	current []string
	length  int
}

func (a *assembler) flush() {
	if len(a.current) == 0 {
		return
	}
	a.chunks = append(a.chunks, strings.Join(a.current, " "))
	a.current = a.current[:0]
	a.length = 0
}

func (a *assembler) push(fragment string, n int) {
	if len(a.current) > 0 {
		n++
	}
	a.current = append(a.current, fragment)
	a.length += n
}

// hardSplit emits every full-width slice of an oversized sentence and seeds the
// accumulator with whatever shorter tail is left.
func (a *assembler) hardSplit(sentence string) {
	a.flush()
	runes := []rune(sentence)
	for len(runes) > a.max {
		a.chunks = append(a.chunks, string(runes[:a.max]))
		runes = runes[a.max:]
	}
	if len(runes) > 0 {
		a.push(string(runes), len(runes))
	}
}

// Assemble packs sentences, in order, into chunks joined by single spaces. No
// chunk is longer than maxChunkSize runes: a sentence that alone exceeds the
// ceiling is cut into fixed-width slices. maxChunkSize < 1 means the default.
func Assemble(sentences []string, maxChunkSize int) []string {
	if maxChunkSize < 1 {
		maxChunkSize = DefaultMaxChunkSize
	}
	a := &assembler{max: maxChunkSize}

	for _, sentence := range sentences {
		n := utf8.RuneCountInString(sentence)
		switch {
		case n == 0:
			continue
		case n > a.max:
			a.hardSplit(sentence)
		default:
			next := a.length + n
			if len(a.current) > 0 {
				next++
			}
			if next > a.max {
				a.flush()
			}
			a.push(sentence, n)
		}
	}
	a.flush()

	if a.chunks == nil {
		return []string{}
	}
	return a.chunks
}
