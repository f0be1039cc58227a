package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService records a client's conversation in a local store.
type HistoryService struct {
	store driven.HistoryStore
	now   func() time.Time
	newID func() string
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// RecordQuestion stores a user message.
func (s *HistoryService) RecordQuestion(ctx context.Context, content string) (*domain.HistoryMessage, error) {
	return s.record(ctx, domain.RoleUser, content, nil)
}

// RecordAnswer stores an assistant message with its sources.
func (s *HistoryService) RecordAnswer(
	ctx context.Context, content string, sources []domain.Source,
) (*domain.HistoryMessage, error) {
	return s.record(ctx, domain.RoleAssistant, content, sources)
}

func (s *HistoryService) record(
	ctx context.Context, role domain.Role, content string, sources []domain.Source,
) (*domain.HistoryMessage, error) {
	msg := domain.HistoryMessage{
		ID:        s.newID(),
		Role:      role,
		Content:   content,
		Sources:   sources,
		Timestamp: s.now().UTC(),
	}
	if err := s.store.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("append %s message: %w", role, err)
	}
	return &msg, nil
}

// List returns messages oldest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.HistoryMessage, error) {
	return s.store.List(ctx, limit)
}

// Clear deletes the whole history.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
