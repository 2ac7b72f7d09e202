// Package llm abstracts the text-generation backend behind a small client
// interface so the drafter can be tested with a double.
package llm

import (
	"context"
	"fmt"

	"github.com/jonathan/internship-outreach/internal/config"
)

// Client is an abstraction over text-generation providers.
type Client interface {
	// Generate produces raw text for a prompt. Any non-error response is
	// treated as unvalidated text; validation belongs to the caller.
	Generate(ctx context.Context, prompt string) (string, error)
	// CheckConnection probes backend reachability for preflight checks.
	CheckConnection(ctx context.Context) error
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a client for the configured provider.
func NewClient(ctx context.Context, cfg config.Config) (Client, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderOllama:
		return NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
