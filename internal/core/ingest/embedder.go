package ingest

import (
	"context"
	"doc-rag/config"
	"doc-rag/pkg/apperror"
	"doc-rag/pkg/logger"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIEmbedder embeds one text per request. SDK retries are disabled: a failed
// chunk fails its document.
type OpenAIEmbedder struct {
	client openai.Client
	model  string
	dim    int
}

// NewOpenAIEmbedder builds an embedder producing vectors of dim floats.
func NewOpenAIEmbedder(cfg config.Config, opts ...option.RequestOption) *OpenAIEmbedder {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAI.Key),
		option.WithMaxRetries(0),
	}
	if cfg.OpenAI.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(append(base, opts...)...),
		model:  cfg.OpenAI.EmbeddingModel,
		dim:    cfg.Milvus.Dim,
	}
}

// Embed returns the embedding of text, rejecting empty or wrongly sized vectors.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.Embedding(errors.New("empty input"))
	}

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	}
	// only the v3 embedding family accepts a custom dimension
	if strings.HasPrefix(e.model, "text-embedding-3") && e.dim > 0 {
		params.Dimensions = openai.Int(int64(e.dim))
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"module": config.ModuleOpenAI,
			"model":  e.model,
			"error":  err,
		}).Errorf("openai: embedding failed")
		return nil, apperror.Embedding(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, apperror.Embedding(errors.New("no embedding returned"))
	}

	src := resp.Data[0].Embedding
	if e.dim > 0 && len(src) != e.dim {
		return nil, apperror.Embedding(fmt.Errorf("embedding has %d dimensions, want %d", len(src), e.dim))
	}
	vec := make([]float32, len(src))
	for k := range src {
		vec[k] = float32(src[k])
	}
	return vec, nil
}
