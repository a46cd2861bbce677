package query

import (
	"context"
	"doc-rag/config"
	"doc-rag/pkg/apperror"
	"doc-rag/pkg/logger"
	"errors"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIChat completes prompts with the chat completions API.
type OpenAIChat struct {
	client openai.Client
}

func NewOpenAIChat(cfg config.Config, opts ...option.RequestOption) *OpenAIChat {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAI.Key),
		option.WithMaxRetries(0),
	}
	if cfg.OpenAI.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return &OpenAIChat{client: openai.NewClient(append(base, opts...)...)}
}

// SamplingFromConfig reads model, temperature and output limit from cfg.
func SamplingFromConfig(cfg config.Config) Sampling {
	return Sampling{
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
	}
}

func (c *OpenAIChat) Complete(ctx context.Context, prompt Prompt, sampling Sampling) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(sampling.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Temperature: openai.Float(sampling.Temperature),
	}
	if sampling.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(sampling.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"module": config.ModuleQuery,
			"model":  sampling.Model,
			"error":  err,
		}).Errorf("openai: chat completion failed")
		return "", apperror.Model(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperror.Model(errors.New("no choices returned"))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
