package rag

import (
	"context"
	"doc-rag/config"
	"doc-rag/internal/core/query"
	"doc-rag/pkg/apperror"
	"doc-rag/pkg/apperror/status"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"
)

const answerTimeout = 2 * time.Minute

// Answerer produces a grounded answer; it never fails.
type Answerer interface {
	Answer(ctx context.Context, req query.Request) query.Response
}

type Handler struct {
	answerer Answerer
}

func NewHandler(answerer Answerer) *Handler {
	return &Handler{answerer: answerer}
}

func (h *Handler) HandleQuery(c fiber.Ctx) error {
	var req query.Request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleQuery, c, status.RequestInvalidBody, "invalid request body")
	}
	if err := apperror.ValidateStruct(req); err != nil {
		return apperror.BadRequest(config.ModuleQuery, c, status.RequestMissingParams, "message is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), answerTimeout)
	defer cancel()

	return c.Status(fiber.StatusOK).JSON(h.answerer.Answer(ctx, req))
}
