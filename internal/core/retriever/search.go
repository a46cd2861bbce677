// Package retriever finds the chunks closest to a question in Milvus.
package retriever

import (
	"context"
	"strconv"
	"strings"
	"time"

	"doc-rag/config"
	"doc-rag/internal/core/ingest"
	"doc-rag/pkg/logger"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	defaultTopK   = 8
	maxTopK       = 64
	searchTimeout = 2 * time.Second
)

var outputFields = []string{ingest.FieldDocumentID, ingest.FieldChunkIndex, ingest.FieldContent}

// Searcher embeds questions and runs HNSW searches over the chunk collection.
type Searcher struct {
	cli        milvusclient.Client
	embedder   ingest.EmbeddingSink
	collection string
	metric     milvusentity.MetricType
	ef         int
}

func NewSearcher(cli milvusclient.Client, embedder ingest.EmbeddingSink, cfg config.Config) *Searcher {
	return &Searcher{
		cli:        cli,
		embedder:   embedder,
		collection: cfg.Milvus.Collection,
		metric:     milvusentity.MetricType(cfg.Milvus.IndexHNSWConfig.MetricType),
		ef:         cfg.Milvus.IndexHNSWConfig.Ef,
	}
}

// Search embeds question and returns up to topK hits.
func (s *Searcher) Search(ctx context.Context, question string, topK int, filters Filters) ([]Hit, error) {
	vec, err := EmbedQuestion(ctx, s.embedder, question)
	if err != nil {
		return nil, err
	}
	return s.SearchVector(ctx, vec, topK, filters)
}

// SearchVector returns up to topK hits for query, best first.
func (s *Searcher) SearchVector(ctx context.Context, query []float32, topK int, filters Filters) ([]Hit, error) {
	if topK <= 0 || topK > maxTopK {
		topK = defaultTopK
	}
	if len(query) == 0 {
		return []Hit{}, nil
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, searchTimeout)
		defer cancel()
	}

	ef := s.ef
	if ef < topK {
		ef = topK
	}
	searchParam, err := milvusentity.NewIndexHNSWSearchParam(ef)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := s.cli.Search(
		ctx,
		s.collection,
		nil, // partitions
		buildExpr(filters),
		outputFields,
		[]milvusentity.Vector{milvusentity.FloatVector(query)},
		ingest.FieldEmbedding,
		s.metric,
		topK,
		searchParam,
	)
	if err != nil {
		logger.Error(err, "%v: milvus search failed", config.ModuleRetriever)
		return nil, err
	}
	logger.Debug("%v: milvus search done in %dms", config.ModuleRetriever, time.Since(start).Milliseconds())

	if len(results) == 0 {
		return []Hit{}, nil
	}
	return parseHits(results[0]), nil
}

func parseHits(res milvusclient.SearchResult) []Hit {
	hits := make([]Hit, res.ResultCount)
	if ids, ok := res.IDs.(*milvusentity.ColumnVarChar); ok {
		for i := range hits {
			hits[i].ID = ids.Data()[i]
		}
	}
	for i := range hits {
		if i < len(res.Scores) {
			hits[i].Score = res.Scores[i]
		}
	}
	for _, field := range res.Fields {
		switch col := field.(type) {
		case *milvusentity.ColumnVarChar:
			data := col.Data()
			for i := range hits {
				switch col.Name() {
				case ingest.FieldDocumentID:
					hits[i].DocumentID = data[i]
				case ingest.FieldContent:
					hits[i].Content = data[i]
				}
			}
		case *milvusentity.ColumnInt32:
			if col.Name() != ingest.FieldChunkIndex {
				continue
			}
			data := col.Data()
			for i := range hits {
				hits[i].ChunkIndex = data[i]
			}
		}
	}
	return hits
}

// buildExpr renders document_id in ["a","b"].
func buildExpr(f Filters) string {
	if len(f.DocumentIDs) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(f.DocumentIDs))
	for _, id := range f.DocumentIDs {
		quoted = append(quoted, strconv.Quote(id))
	}
	return ingest.FieldDocumentID + " in [" + strings.Join(quoted, ",") + "]"
}
