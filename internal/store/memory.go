package store

import (
	"context"
	"sync"

	"deepresearch-backend/internal/models"
)

type sessionEntry struct {
	mu    sync.Mutex
	turns []models.ChatMessage
}

// MemoryStore keeps session histories in process memory. Each session has
// its own mutex, so operations on distinct sessions do not contend. Sessions
// live until the process exits; there is no eviction beyond the per-session
// retention window.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*sessionEntry)}
}

func (s *MemoryStore) entry(sessionID string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &sessionEntry{}
		s.sessions[sessionID] = e
	}
	return e
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]models.ChatMessage, error) {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.ChatMessage, len(e.turns))
	copy(out, e.turns)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, turns ...models.ChatMessage) error {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.turns = Trim(append(e.turns, turns...), RetentionWindow)
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, sessionID string, turns []models.ChatMessage) error {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.turns = Trim(append([]models.ChatMessage(nil), turns...), RetentionWindow)
	return nil
}

// Len reports the number of distinct sessions held. Used by tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
