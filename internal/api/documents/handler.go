package documents

import (
	"context"
	"doc-rag/config"
	"doc-rag/internal/services/ingest"
	"doc-rag/pkg/apperror"
	"doc-rag/pkg/apperror/status"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
)

const processTimeout = 10 * time.Minute

// Processor runs the ingestion pipeline for one document.
type Processor interface {
	Process(ctx context.Context, documentID string, force bool) (ingest.Result, error)
}

type processRequest struct {
	DocumentID string `json:"documentId" validate:"required"`
	Force      bool   `json:"force"`
}

type processResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"documentId"`
	Chunks     int    `json:"chunks"`
	Skipped    bool   `json:"skipped,omitempty"`
}

type Handler struct {
	processor Processor
}

func NewHandler(processor Processor) *Handler {
	return &Handler{processor: processor}
}

// HandleProcess extracts, chunks and embeds a stored document synchronously.
func (h *Handler) HandleProcess(c fiber.Ctx) error {
	var req processRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleDocuments, c, status.RequestInvalidBody, "invalid request body")
	}
	if err := apperror.ValidateStruct(req); err != nil {
		return apperror.BadRequest(config.ModuleDocuments, c, status.RequestMissingParams, "documentId is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	res, err := h.processor.Process(ctx, req.DocumentID, req.Force)
	if err != nil {
		return writeProcessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(processResponse{
		Success:    true,
		DocumentID: res.DocumentID,
		Chunks:     res.Chunks,
		Skipped:    res.Skipped,
	})
}

func writeProcessError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return apperror.BadRequest(config.ModuleDocuments, c, status.RequestMissingParams, err.Error())
	case errors.Is(err, ingest.ErrDocumentNotFound):
		return apperror.WriteError(config.ModuleDocuments, c, fiber.StatusNotFound, "", err.Error())
	case errors.Is(err, apperror.ErrExtraction):
		return apperror.InternalError(config.ModuleDocuments, c, status.New(status.IngestExtraction, err))
	case errors.Is(err, apperror.ErrEmbedding):
		return apperror.InternalError(config.ModuleDocuments, c, status.New(status.IngestEmbedding, err))
	default:
		return apperror.InternalError(config.ModuleDocuments, c, status.New(status.IngestInternal, err))
	}
}
