package driving

import (
	"context"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// IngestionService indexes uploaded PDFs.
type IngestionService interface {
	// IngestPDF validates, loads, splits, embeds and upserts a PDF.
	// Input problems return domain.ErrNoFile or domain.ErrNotPDF before any
	// side effect; later failures return *domain.ProcessingError.
	IngestPDF(ctx context.Context, file *domain.UploadedFile) (*domain.IngestResult, error)
}

// ChatService answers questions grounded on indexed passages.
type ChatService interface {
	// Ask runs one retrieval and one generation for the query.
	// An empty query returns domain.ErrQueryRequired.
	Ask(ctx context.Context, query domain.ChatQuery) (*domain.ChatResponse, error)
}

// ReadinessReporter reports whether the AI components are usable.
type ReadinessReporter interface {
	// Ready returns true once the AI components are initialised.
	Ready() bool

	// Err returns the initialisation failure, if any.
	Err() error
}

// HistoryService manages a client's local chat history.
type HistoryService interface {
	// RecordQuestion stores a user message.
	RecordQuestion(ctx context.Context, content string) (*domain.HistoryMessage, error)

	// RecordAnswer stores an assistant message with its sources.
	RecordAnswer(ctx context.Context, content string, sources []domain.Source) (*domain.HistoryMessage, error)

	// List returns messages oldest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]domain.HistoryMessage, error)

	// Clear deletes the whole history.
	Clear(ctx context.Context) error
}
