// Package providers contains the AI backend adapters tried by the cascade.
package providers

import (
	"context"
	"fmt"

	"deepresearch-backend/internal/models"
)

// Provider is the common contract for AI backends. Implementations must be
// safe for concurrent use; each owns its own timeout and must abort the
// in-flight call when it fires.
type Provider interface {
	// Tag identifies the cascade tier ("primary" or "secondary").
	Tag() string

	// Model returns the backend model identifier for provenance metadata.
	Model() string

	// Invoke sends the prompt with conversation history and returns the
	// reply text. Any failure (transport, timeout, non-2xx, malformed or
	// empty reply) is returned as a *ProviderError.
	Invoke(ctx context.Context, history []models.ChatMessage, prompt string, temperature float64, maxTokens int) (string, error)
}

// ProviderError wraps any provider failure. The orchestrator treats these as
// non-fatal and advances the cascade; they never reach the client.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
