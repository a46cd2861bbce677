package apperror

import (
	"errors"
	"fmt"
)

// Domain error kinds. Wrapped errors keep the kind reachable through errors.Is.
var (
	ErrExtraction = errors.New("extraction error")
	ErrEmbedding  = errors.New("embedding error")
	ErrModel      = errors.New("model error")
	ErrValidation = errors.New("validation error")
)

func wrap(kind error, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// Extraction marks err as an unreadable or empty document source.
func Extraction(err error) error { return wrap(ErrExtraction, err) }

// Embedding marks err as a failed or malformed embedding call.
func Embedding(err error) error { return wrap(ErrEmbedding, err) }

// Model marks err as a language-model provider failure.
func Model(err error) error { return wrap(ErrModel, err) }

// Validation reports a missing or malformed request field.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
