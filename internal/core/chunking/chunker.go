// Package chunking splits extracted document text into bounded, sentence-aligned
// chunks ready for embedding.
package chunking

// Chunker runs normalize, split and assemble in one pass. The zero value uses
// SplitSentences and DefaultMaxChunkSize. It holds no mutable state and is safe
// for concurrent use.
type Chunker struct {
	MaxChunkSize int
	Splitter     Splitter
}

// New returns a Chunker with the given ceiling and the default splitter.
func New(maxChunkSize int) *Chunker {
	return &Chunker{MaxChunkSize: maxChunkSize}
}

// Chunk turns raw extracted text into ordered chunks. Empty input yields none.
func (c *Chunker) Chunk(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return []string{}
	}

	var sentences []string
	if c.Splitter != nil {
		sentences = c.Splitter.Split(normalized)
	} else {
		sentences = SplitSentences(normalized)
	}
	return Assemble(sentences, c.MaxChunkSize)
}
