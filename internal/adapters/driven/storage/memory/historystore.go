package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu       sync.RWMutex
	messages []domain.HistoryMessage
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Append stores a message.
func (s *HistoryStore) Append(_ context.Context, msg domain.HistoryMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// List returns the most recent messages, oldest first. limit <= 0 returns all.
func (s *HistoryStore) List(_ context.Context, limit int) ([]domain.HistoryMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(s.messages) {
		start = len(s.messages) - limit
	}
	out := make([]domain.HistoryMessage, len(s.messages)-start)
	copy(out, s.messages[start:])
	return out, nil
}

// Clear deletes every message.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	return nil
}

// Close is a no-op for the memory store.
func (s *HistoryStore) Close() error {
	return nil
}
