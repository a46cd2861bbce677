package retriever

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"doc-rag/internal/core/retriever"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	question string
	topK     int
	filters  retriever.Filters
	err      error
}

func (f *fakeSearcher) Search(_ context.Context, q string, topK int, filters retriever.Filters) ([]retriever.Hit, error) {
	f.question, f.topK, f.filters = q, topK, filters
	if f.err != nil {
		return nil, f.err
	}
	return []retriever.Hit{{ID: "d1:0", DocumentID: "d1", Content: "trecho", Score: 0.9}}, nil
}

func get(t *testing.T, s Searcher, target string) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app, NewHandler(s))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHandleSearch(t *testing.T) {
	s := &fakeSearcher{}
	code, out := get(t, s, "/retriever/search?q=altura&top_k=3&doc_ids=d1,%20d2,")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "altura", s.question)
	assert.Equal(t, 3, s.topK)
	assert.Equal(t, []string{"d1", "d2"}, s.filters.DocumentIDs)

	data := out["data"].(map[string]any)
	assert.Equal(t, []any{"trecho"}, data["context"])
	assert.Len(t, data["hits"], 1)
}

func TestHandleSearch_MissingQuestion(t *testing.T) {
	code, _ := get(t, &fakeSearcher{}, "/retriever/search?top_k=3")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandleSearch_Error(t *testing.T) {
	code, out := get(t, &fakeSearcher{err: errors.New("milvus down")}, "/retriever/search?q=x")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "RAG-2002", out["error_code"])
}
