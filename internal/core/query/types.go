// Package query answers a question from caller-supplied document context.
//
// The pipeline is ContextFilter, PromptAssembler, LanguageModelClient and
// ResponseBuilder. Failures never escape Answer: they become an apologetic
// response with zero confidence.
package query

import "context"

// NextAgent is the routing label attached to every response.
const NextAgent = "evaluation"

// Confidence values. The score is two-valued, not a relevance estimate.
const (
	ConfidenceWithContext = 0.85
	ConfidenceNone        = 0.0
)

// Request is the body of POST /rag/query.
type Request struct {
	Message         string         `json:"message" validate:"required"`
	Context         []string       `json:"context"`
	ReasoningOutput map[string]any `json:"reasoningOutput"`
	UserRole        string         `json:"userRole"`
}

// Response is what the caller gets back, including on failure.
type Response struct {
	Response      string   `json:"response"`
	SourceContext []string `json:"sourceContext"`
	Confidence    float64  `json:"confidence"`
	NextAgent     string   `json:"nextAgent"`
}

// Prompt is a system instruction plus the user turn.
type Prompt struct {
	System string
	User   string
}

// Sampling holds the generation parameters of one completion.
type Sampling struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// LanguageModelClient generates text for a prompt. Failures are apperror.ErrModel.
type LanguageModelClient interface {
	Complete(ctx context.Context, prompt Prompt, sampling Sampling) (string, error)
}
