package retriever

import (
	"context"
	"strconv"
	"strings"
	"time"

	"doc-rag/config"
	"doc-rag/internal/core/retriever"
	"doc-rag/pkg/apperror"
	"doc-rag/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

const searchTimeout = 5 * time.Second

// Searcher embeds a question and returns the nearest chunks.
type Searcher interface {
	Search(ctx context.Context, question string, topK int, filters retriever.Filters) ([]retriever.Hit, error)
}

type searchResponse struct {
	Hits    []retriever.Hit `json:"hits"`
	Context []string        `json:"context"`
}

type Handler struct {
	searcher Searcher
}

func NewHandler(searcher Searcher) *Handler {
	return &Handler{searcher: searcher}
}

func (h *Handler) HandleSearch(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return apperror.BadRequest(config.ModuleRetriever, c, status.RequestMissingParams, "q is required")
	}
	topK := 0
	if v, err := strconv.Atoi(c.Query("top_k")); err == nil {
		topK = v
	}
	var docIDs []string
	for _, p := range strings.Split(c.Query("doc_ids"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			docIDs = append(docIDs, p)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()
	hits, err := h.searcher.Search(ctx, q, topK, retriever.Filters{DocumentIDs: docIDs})
	if err != nil {
		return apperror.InternalError(config.ModuleRetriever, c, status.New(status.RetrieverSearch, err))
	}

	return apperror.Success(config.ModuleRetriever, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "search ok",
		TrackingID: trackingID,
		Data:       searchResponse{Hits: hits, Context: retriever.Contents(hits)},
	})
}
