package retriever

import (
	"context"
	"errors"
	"strings"

	"doc-rag/config"
	"doc-rag/internal/core/ingest"
	"doc-rag/pkg/logger"
)

// EmbedQuestion embeds a single question with the same model used for chunks.
func EmbedQuestion(ctx context.Context, embedder ingest.EmbeddingSink, question string) ([]float32, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question is empty")
	}
	vec, err := embedder.Embed(ctx, question)
	if err != nil {
		logger.Error(err, "%v: embed question failed: %s", config.ModuleRetriever, logger.Preview(question, 80))
		return nil, err
	}
	return vec, nil
}
