// Package ingest holds the external collaborators of the document pipeline:
// where text comes from, how chunks are embedded and where vectors go.
package ingest

import "context"

// SourceRef points DocumentSource at one stored document.
type SourceRef struct {
	DocumentID string
	Type       string
	FilePath   string
}

// DocumentSource returns the plain text of a stored document.
// Failures are apperror.ErrExtraction.
type DocumentSource interface {
	Extract(ctx context.Context, ref SourceRef) (string, error)
}

// EmbeddingSink converts one chunk into a fixed-dimension vector.
// Failures are apperror.ErrEmbedding.
type EmbeddingSink interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChunkVector is one chunk ready for the vector store.
type ChunkVector struct {
	DocumentID string
	ChunkIndex int32
	Content    string
	Embedding  []float32
}

// VectorSink stores chunk vectors.
type VectorSink interface {
	Upsert(ctx context.Context, v ChunkVector) (id string, err error)
	DeleteByDocument(ctx context.Context, documentID string) error
	Collection() string
}
