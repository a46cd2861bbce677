package apperror

import (
	"doc-rag/config"
	"doc-rag/pkg/apperror/status"
	"doc-rag/pkg/logger"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
)

// ErrorResponse is the standardized HTTP error payload
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code,omitempty"`
}

type FiberSuccessMessage struct {
	Code       status.SuccessCode `json:"code"`
	Message    string             `json:"message"`
	TrackingID string             `json:"tracking_id"`
	Data       any                `json:"data"`
}

// WriteError logs a structured warning and returns a standardized JSON error
func WriteError(module config.Module, c fiber.Ctx, httpStatus int, code string, message string) error {
	logger.WithFields(map[string]interface{}{
		"module":        module,
		"status_code":   httpStatus,
		"error_code":    code,
		"error_message": message,
		"http_method":   c.Method(),
		"path":          c.Path(),
		"ip":            c.IP(),
	}).Warnf("http error")

	return c.Status(httpStatus).JSON(ErrorResponse{
		Error:     message,
		ErrorCode: code,
	})
}

func errorCode(code status.ErrorCode) string {
	return fmt.Sprintf("RAG-%d", code)
}

// BadRequest writes a 400 with the given client error code.
func BadRequest(module config.Module, c fiber.Ctx, code status.ErrorCode, message string) error {
	return WriteError(module, c, fiber.StatusBadRequest, errorCode(code), message)
}

// InternalError writes a 500 carrying err's message; the code comes from err when it is a CodedError.
func InternalError(module config.Module, c fiber.Ctx, err error) error {
	code := status.ErrorCodeInternal
	var coded status.CodedError
	if errors.As(err, &coded) {
		code = coded.ErrorCode()
	}
	return WriteError(module, c, fiber.StatusInternalServerError, errorCode(code), err.Error())
}

// FromError maps domain kinds to HTTP statuses.
func FromError(module config.Module, c fiber.Ctx, err error) error {
	if errors.Is(err, ErrValidation) {
		return BadRequest(module, c, status.RequestMissingParams, err.Error())
	}
	return InternalError(module, c, err)
}

// Success writes a standardized JSON success response
func Success(module config.Module, fiberCtx fiber.Ctx, response FiberSuccessMessage) error {
	return fiberCtx.Status(fiber.StatusOK).JSON(response)
}
