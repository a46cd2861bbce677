package ingest

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// CountTokens returns the token count of text for the embedding model, or nil
// when the encoding cannot be loaded.
func CountTokens(model, text string) *int32 {
	encodingOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel(model)
		if err != nil {
			enc, err = tiktoken.GetEncoding("cl100k_base")
		}
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return nil
	}
	n := int32(len(encoding.Encode(text, nil, nil)))
	return &n
}
