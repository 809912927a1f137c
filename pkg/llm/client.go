package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when no API key is available for the
// requested provider.
var ErrMissingCredential = errors.New("no API key configured for generative service")

// Options tunes a single generation call.
type Options struct {
	// Temperature in [0, 2]. Zero means provider default.
	Temperature float32
	// UseSearch enables search grounding on providers that support it.
	// Providers without a search tool ignore it.
	UseSearch bool
	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int
}

// Generator is the generative text service: prompt in, raw text out.
// Implementations perform no retries and no response parsing.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	ModelName() string
}

// New builds a Generator for the named provider. An empty apiKey is rejected
// here so callers surface the configuration error before any service call.
func New(ctx context.Context, provider, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	switch provider {
	case "gemini", "":
		return NewGeminiClient(ctx, apiKey)
	case "openai":
		return NewOpenAIClient(apiKey), nil
	case "anthropic":
		return NewAnthropicClient(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}
