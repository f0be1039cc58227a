package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/research-assistant/internal/logger"
	"github.com/custodia-labs/research-assistant/internal/metrics"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService answers questions from the indexed passages.
type ChatService struct {
	embedder    driven.EmbeddingProvider
	store       driven.VectorStore
	model       driven.ChatModel
	temperature float64
}

// NewChatService creates a new chat service.
func NewChatService(
	embedder driven.EmbeddingProvider,
	store driven.VectorStore,
	model driven.ChatModel,
	temperature float64,
) *ChatService {
	return &ChatService{
		embedder:    embedder,
		store:       store,
		model:       model,
		temperature: temperature,
	}
}

// Ask runs one similarity search and one generation for the query.
// Search and generation failures are returned without local recovery.
func (s *ChatService) Ask(ctx context.Context, q domain.ChatQuery) (*domain.ChatResponse, error) {
	logger.Section("Chat")
	start := time.Now()

	if strings.TrimSpace(q.Query) == "" {
		logger.Debug("Rejected empty query")
		metrics.ObserveChat(metrics.ResultInvalid, time.Since(start))
		return nil, domain.ErrQueryRequired
	}

	resp, err := s.ask(ctx, q.Query, q.EffectiveLimit())
	if err != nil {
		logger.Warn("Chat failed: %v", err)
		metrics.ObserveChat(metrics.ResultError, time.Since(start))
		return nil, err
	}

	metrics.ObserveChat(metrics.ResultOK, time.Since(start))
	return resp, nil
}

func (s *ChatService) ask(ctx context.Context, query string, limit int) (*domain.ChatResponse, error) {
	logger.Debug("Query: %q, limit: %d", query, limit)

	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	passages, err := s.store.Search(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	logger.Debug("Retrieved %d passages", len(passages))

	messages := ComposePrompt(query, passages)
	answer, err := s.model.Chat(ctx, messages, driven.ChatOptions{Temperature: s.temperature})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]domain.Source, len(passages))
	for i, p := range passages {
		sources[i] = domain.SourceOf(p)
	}

	return &domain.ChatResponse{
		Query:        query,
		Answer:       answer,
		Sources:      sources,
		ResultsFound: len(passages),
	}, nil
}
