package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAICompleter completes prompts through a langchaingo model.
type OpenAICompleter struct {
	llm         llms.Model
	temperature float64
	maxTokens   int
}

func NewOpenAICompleter(apiKey, model string, temperature float64, maxTokens int) (*OpenAICompleter, error) {
	if model == "" {
		model = defaultOpenAIModel
	}

	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return NewModelCompleter(llm, temperature, maxTokens), nil
}

// NewModelCompleter wraps an already constructed langchaingo model.
func NewModelCompleter(llm llms.Model, temperature float64, maxTokens int) *OpenAICompleter {
	return &OpenAICompleter{
		llm:         llm,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		if errors.Is(err, openai.ErrEmptyResponse) || strings.Contains(err.Error(), "empty response") {
			return "", ErrEmptyResponse
		}
		if code, ok := statusFromMessage(err); ok {
			return "", &ProviderError{Provider: "openai", StatusCode: code, Err: err}
		}
		return "", err
	}
	return completion, nil
}
