// Package ingest runs the document processing pipeline: extract, normalize,
// split, assemble, embed and persist.
package ingest

import (
	"context"
	"doc-rag/config"
	"doc-rag/internal/core/chunking"
	coreingest "doc-rag/internal/core/ingest"
	"doc-rag/internal/database/model"
	"doc-rag/internal/metrics"
	"doc-rag/pkg/apperror"
	"doc-rag/pkg/logger"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

// ErrDocumentNotFound is returned when the id does not name a stored document.
var ErrDocumentNotFound = errors.New("document not found")

// Result summarizes one Process call.
type Result struct {
	DocumentID string
	Chunks     int
	Skipped    bool
}

// Service wires the pipeline collaborators together.
type Service struct {
	repo        Repository
	source      coreingest.DocumentSource
	embedder    coreingest.EmbeddingSink
	vectors     coreingest.VectorSink
	chunker     *chunking.Chunker
	countTokens func(string) *int32
}

type Option func(*Service)

// WithTokenCounter sets the function used to fill Chunk.TokenCount.
func WithTokenCounter(fn func(string) *int32) Option {
	return func(s *Service) { s.countTokens = fn }
}

// WithChunker replaces the default chunker.
func WithChunker(c *chunking.Chunker) Option {
	return func(s *Service) { s.chunker = c }
}

func NewService(repo Repository, source coreingest.DocumentSource, embedder coreingest.EmbeddingSink, vectors coreingest.VectorSink, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		source:   source,
		embedder: embedder,
		vectors:  vectors,
		chunker:  chunking.New(chunking.DefaultMaxChunkSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process ingests one document. A document already processed is skipped
// unless force is set. Any failure after the document is loaded is written
// to its processing_error and returned.
func (s *Service) Process(ctx context.Context, documentID string, force bool) (Result, error) {
	res := Result{DocumentID: documentID}
	if strings.TrimSpace(documentID) == "" {
		return res, apperror.Validation("documentId is required")
	}

	doc, err := s.repo.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, ErrDocumentNotFound
		}
		return res, fmt.Errorf("load document: %w", err)
	}

	log := logger.WithFields(map[string]interface{}{
		"doc_id": documentID,
		"type":   doc.Type,
	})
	log.Info("ingest: start")

	if doc.IsProcessed && !force {
		log.Info("ingest: already processed; skip (no force)")
		metrics.DocumentsProcessed.WithLabelValues("skipped").Inc()
		res.Skipped = true
		return res, nil
	}

	n, err := s.run(ctx, doc)
	if err != nil {
		metrics.DocumentsProcessed.WithLabelValues("failed").Inc()
		if markErr := s.repo.MarkFailed(ctx, documentID, err.Error()); markErr != nil {
			logger.Error(markErr, "%v: record processing error failed", config.ModuleIngest)
		}
		logger.Error(err, "%v: document %s failed", config.ModuleIngest, documentID)
		return res, err
	}

	if err := s.repo.MarkProcessed(ctx, documentID); err != nil {
		metrics.DocumentsProcessed.WithLabelValues("failed").Inc()
		return res, fmt.Errorf("mark processed: %w", err)
	}
	metrics.DocumentsProcessed.WithLabelValues("success").Inc()
	log.WithField("chunks", n).Info("ingest: done")
	res.Chunks = n
	return res, nil
}

func (s *Service) run(ctx context.Context, doc *model.Document) (int, error) {
	ref := coreingest.SourceRef{DocumentID: doc.ID, Type: doc.Type}
	if doc.FilePath != nil {
		ref.FilePath = *doc.FilePath
	}

	text, err := s.source.Extract(ctx, ref)
	if err != nil {
		return 0, apperror.Extraction(err)
	}
	if err := s.repo.SaveContent(ctx, doc.ID, text); err != nil {
		return 0, fmt.Errorf("save content: %w", err)
	}

	// Earlier chunks may outnumber the new ones, so clear both stores first.
	if err := s.vectors.DeleteByDocument(ctx, doc.ID); err != nil {
		return 0, fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.repo.DeleteChunks(ctx, doc.ID); err != nil {
		return 0, fmt.Errorf("delete chunks: %w", err)
	}

	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return 0, apperror.Extraction(errors.New("document has no text after normalization"))
	}
	logger.WithFields(map[string]interface{}{
		"doc_id":         doc.ID,
		"chunks":         len(chunks),
		"max_chunk_size": s.chunker.MaxChunkSize,
	}).Info("ingest: chunks built")

	collection := s.vectors.Collection()
	for i, content := range chunks {
		idx := int32(i)
		vec, err := s.embedder.Embed(ctx, content)
		if err != nil {
			return i, apperror.Embedding(fmt.Errorf("chunk %d: %w", i, err))
		}

		milvusID, err := s.vectors.Upsert(ctx, coreingest.ChunkVector{
			DocumentID: doc.ID,
			ChunkIndex: idx,
			Content:    content,
			Embedding:  vec,
		})
		if err != nil {
			return i, fmt.Errorf("upsert vector %d: %w", i, err)
		}

		row := &model.Chunk{
			DocumentID:       doc.ID,
			ChunkIndex:       idx,
			ContentChunk:     content,
			ContentHash:      contentHash(content),
			MilvusCollection: collection,
			MilvusID:         milvusID,
		}
		if s.countTokens != nil {
			row.TokenCount = s.countTokens(content)
		}
		if err := s.repo.InsertChunk(ctx, row); err != nil {
			return i, fmt.Errorf("insert chunk %d: %w", i, err)
		}

		metrics.ChunksEmbedded.Inc()
		metrics.ChunkSize.Observe(float64(utf8.RuneCountInString(content)))
	}
	return len(chunks), nil
}
