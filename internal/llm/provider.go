// Package llm wraps the chat-completion APIs behind a single Provider
// interface. Exactly one of two interchangeable providers is active per
// deployment, selected by which API key is configured.
package llm

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dkarpov/truthshield/internal/model"
)

// Provider is the chat-completion contract. Complete serializes the ordered
// message sequence into the provider's wire shape, issues one request, and
// returns the assistant's reply. No streaming, no retries.
type Provider interface {
	// Name returns the provider name ("groq" or "gemini").
	Name() string

	// Complete returns exactly one assistant message for the given history.
	Complete(ctx context.Context, req CompletionRequest) (*model.ChatMessage, error)
}

// CompletionRequest is the input for one completion call.
type CompletionRequest struct {
	// Messages is the full ordered conversation, system prompt first.
	Messages []model.ChatMessage

	// Model overrides the provider's configured model when non-empty.
	Model string

	// Temperature for generation.
	Temperature float32

	// MaxTokens limits the response length (0 = provider default).
	MaxTokens int
}

// Config holds provider configuration.
type Config struct {
	APIKey          string
	BaseURL         string // custom endpoint, used by tests
	Model           string // chat model (empty = provider default)
	ExtractionModel string // small model for topic extraction
	Timeout         time.Duration
	MaxTokens       int
}

// ConfigFor maps the application chat configuration onto provider config.
func ConfigFor(cfg model.ChatConfig) Config {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return Config{
		BaseURL:         cfg.BaseURL,
		Model:           cfg.Model,
		ExtractionModel: cfg.ExtractionModel,
		Timeout:         timeout,
		MaxTokens:       cfg.MaxTokens,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
