package driven

import (
	"context"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// HistoryStore persists a client's chat history.
type HistoryStore interface {
	// Append stores a message.
	Append(ctx context.Context, msg domain.HistoryMessage) error

	// List returns messages oldest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]domain.HistoryMessage, error)

	// Clear deletes every message.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
