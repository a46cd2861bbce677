package query

import (
	"context"
	"doc-rag/config"
	"doc-rag/internal/metrics"
	"doc-rag/pkg/logger"
	"errors"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

// User-facing messages.
const (
	NoContextMessage   = "Por favor, selecione pelo menos um documento com conteúdo disponível para que eu possa fornecer informações relevantes."
	errorPrefix        = "Desculpe, ocorreu um erro ao processar sua solicitação. "
	contextTooLongHint = "O contexto é muito longo. Por favor, selecione menos documentos."
	rateLimitedHint    = "O serviço está temporariamente sobrecarregado. Por favor, tente novamente em alguns segundos."
	retryHint          = "Por favor, tente novamente."
)

// Service runs the query pipeline against one language model.
type Service struct {
	llm      LanguageModelClient
	sampling Sampling
}

func NewService(llm LanguageModelClient, sampling Sampling) *Service {
	return &Service{llm: llm, sampling: sampling}
}

// Answer always returns a well-formed response. Without usable context the
// model is not called.
func (s *Service) Answer(ctx context.Context, req Request) Response {
	filtered := FilterContext(req.Context)
	log := logger.WithFields(map[string]interface{}{
		"module":   config.ModuleQuery,
		"context":  len(req.Context),
		"filtered": len(filtered),
		"role":     req.UserRole,
	})

	if len(filtered) == 0 {
		log.Info("query: no usable context")
		metrics.Queries.WithLabelValues("no_context").Inc()
		return buildResponse(NoContextMessage, nil)
	}

	prompt := BuildPrompt(filtered, req.Message, req.UserRole)
	text, err := s.llm.Complete(ctx, prompt, s.sampling)
	if err != nil {
		logger.Error(err, "%v: generate response failed", config.ModuleQuery)
		metrics.Queries.WithLabelValues("model_error").Inc()
		return buildResponse(TranslateError(err), nil)
	}

	log.Debugf("query: answer %q", logger.Preview(text, 200))
	metrics.Queries.WithLabelValues("answered").Inc()
	return buildResponse(text, filtered)
}

// buildResponse attaches the routing label and the two-valued confidence.
func buildResponse(text string, used []string) Response {
	resp := Response{
		Response:      text,
		SourceContext: []string{},
		Confidence:    ConfidenceNone,
		NextAgent:     NextAgent,
	}
	if len(used) > 0 {
		resp.SourceContext = used
		resp.Confidence = ConfidenceWithContext
	}
	return resp
}

// TranslateError picks the apologetic wording for a model failure.
func TranslateError(err error) string {
	msg := strings.ToLower(err.Error())
	var apiErr *openai.Error
	switch {
	case strings.Contains(msg, "context length") || strings.Contains(msg, "context_length"):
		return errorPrefix + contextTooLongHint
	case strings.Contains(msg, "rate limit"),
		errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests:
		return errorPrefix + rateLimitedHint
	default:
		return errorPrefix + retryHint
	}
}
