package retriever

// Filters narrows a search. An empty DocumentIDs searches every document.
type Filters struct {
	DocumentIDs []string
}

// Hit is one chunk returned by a similarity search.
type Hit struct {
	ID         string  `json:"id"`
	Score      float32 `json:"score"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int32   `json:"chunk_index"`
	Content    string  `json:"content"`
}

// Contents returns the chunk texts of hits, ready to be used as query context.
func Contents(hits []Hit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Content)
	}
	return out
}
