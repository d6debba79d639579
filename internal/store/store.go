// Package store holds per-session conversation history with a bounded
// retention window.
package store

import (
	"context"

	"deepresearch-backend/internal/models"
)

// RetentionWindow is the maximum number of turns kept per session. Oldest
// turns are evicted first once the window is exceeded.
const RetentionWindow = 16

// SessionStore is the conversation history port. Implementations must
// serialize Append and Replace per session key so concurrent requests on the
// same session never lose a turn; cross-session operations may run fully in
// parallel.
type SessionStore interface {
	// Get returns the stored history for a session, empty if unknown.
	Get(ctx context.Context, sessionID string) ([]models.ChatMessage, error)

	// Append concatenates turns onto the session history and trims the
	// result to the retention window, as one atomic read-modify-write.
	Append(ctx context.Context, sessionID string, turns ...models.ChatMessage) error

	// Replace discards the stored history and stores the given turns,
	// trimmed to the retention window.
	Replace(ctx context.Context, sessionID string, turns []models.ChatMessage) error
}

// Trim returns the most recent n turns of history.
func Trim(history []models.ChatMessage, n int) []models.ChatMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
