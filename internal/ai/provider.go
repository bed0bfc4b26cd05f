// Package ai generates draft strategy artifacts with a language model
// provider and transcribes voice memos into text.
package ai

import (
	"context"
	"fmt"
	"io"

	"github.com/nhle/foundry/internal/model"
)

// Provider generates text from a prompt pair. Implementations are
// single-turn: each call is independent, with all needed context
// carried in the prompts.
type Provider interface {
	// Name identifies the provider for display and logging.
	Name() string

	// Generate sends the prompts to the model and returns the
	// generated text.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// NewProvider constructs the configured provider. The apiKey comes from
// the system keyring, not the config file.
func NewProvider(cfg model.AIConfig, apiKey string) (Provider, error) {
	switch cfg.Provider {
	case "", "anthropic":
		return NewAnthropic(apiKey, cfg.Model, cfg.MaxTokens), nil
	case "openai":
		return NewOpenAI(apiKey, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
