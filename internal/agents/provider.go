// Package agents defines the AI career agents executed by the runner: their
// system prompts and the model providers that back them.
package agents

import (
	"context"
	"fmt"

	"github.com/Fozan3060/ai-career-coach/internal/config"
)

// Provider generates a model completion for a system/user prompt pair.
type Provider interface {
	// Generate returns the model's text response.
	Generate(ctx context.Context, system, user string) (string, error)
}

// NewProvider builds the configured model provider.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "anthropic":
		return NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
