package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"doc-rag/config"
	"doc-rag/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddingServer(t *testing.T, status int, vector []float64, calls *int32, lastBody *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/embeddings", r.URL.Path)
		if lastBody != nil {
			_ = json.NewDecoder(r.Body).Decode(lastBody)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vector},
			},
			"usage": map[string]any{"prompt_tokens": 2, "total_tokens": 2},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testEmbedderConfig(baseURL string, dim int) config.Config {
	cfg := config.Default()
	cfg.OpenAI.Key = "test-key"
	cfg.OpenAI.BaseURL = baseURL
	cfg.Milvus.Dim = dim
	return cfg
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	var calls int32
	var body map[string]any
	srv := embeddingServer(t, http.StatusOK, []float64{0.1, 0.2, 0.3}, &calls, &body)

	emb := NewOpenAIEmbedder(testEmbedderConfig(srv.URL, 3))
	vec, err := emb.Embed(context.Background(), "some chunk")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, "some chunk", body["input"])
	assert.Equal(t, "text-embedding-3-small", body["model"])
	assert.EqualValues(t, 3, body["dimensions"])
}

func TestOpenAIEmbedder_DimensionMismatch(t *testing.T) {
	var calls int32
	srv := embeddingServer(t, http.StatusOK, []float64{0.1, 0.2}, &calls, nil)

	_, err := NewOpenAIEmbedder(testEmbedderConfig(srv.URL, 3)).Embed(context.Background(), "x")
	assert.ErrorIs(t, err, apperror.ErrEmbedding)
}

func TestOpenAIEmbedder_ServerErrorNotRetried(t *testing.T) {
	var calls int32
	srv := embeddingServer(t, http.StatusInternalServerError, nil, &calls, nil)

	_, err := NewOpenAIEmbedder(testEmbedderConfig(srv.URL, 3)).Embed(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrEmbedding)
	assert.Equal(t, int32(1), calls)
}

func TestOpenAIEmbedder_EmptyInput(t *testing.T) {
	var calls int32
	srv := embeddingServer(t, http.StatusOK, []float64{1}, &calls, nil)

	_, err := NewOpenAIEmbedder(testEmbedderConfig(srv.URL, 1)).Embed(context.Background(), "   ")
	assert.ErrorIs(t, err, apperror.ErrEmbedding)
	assert.Zero(t, calls)
}
