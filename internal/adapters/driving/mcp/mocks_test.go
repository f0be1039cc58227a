package mcp

import (
	"context"
	"strings"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	resp *domain.ChatResponse
	err  error
	got  domain.ChatQuery
}

func (m *mockChatService) Ask(_ context.Context, q domain.ChatQuery) (*domain.ChatResponse, error) {
	m.got = q
	if strings.TrimSpace(q.Query) == "" {
		return nil, domain.ErrQueryRequired
	}
	return m.resp, m.err
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	result *domain.IngestResult
	err    error
	got    *domain.UploadedFile
}

func (m *mockIngestionService) IngestPDF(_ context.Context, file *domain.UploadedFile) (*domain.IngestResult, error) {
	m.got = file
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return m.result, m.err
}

// mockReadiness is a mock implementation of driving.ReadinessReporter.
type mockReadiness struct {
	ready bool
	err   error
}

func (m *mockReadiness) Ready() bool { return m.ready }

func (m *mockReadiness) Err() error { return m.err }

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	messages []domain.HistoryMessage
	err      error
}

func (m *mockHistoryService) RecordQuestion(_ context.Context, content string) (*domain.HistoryMessage, error) {
	msg := domain.HistoryMessage{Role: domain.RoleUser, Content: content}
	m.messages = append(m.messages, msg)
	return &msg, m.err
}

func (m *mockHistoryService) RecordAnswer(_ context.Context, content string, sources []domain.Source) (*domain.HistoryMessage, error) {
	msg := domain.HistoryMessage{Role: domain.RoleAssistant, Content: content, Sources: sources}
	m.messages = append(m.messages, msg)
	return &msg, m.err
}

func (m *mockHistoryService) List(_ context.Context, _ int) ([]domain.HistoryMessage, error) {
	return m.messages, m.err
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	m.messages = nil
	return m.err
}

func validPorts() *Ports {
	return &Ports{
		Chat:      &mockChatService{},
		Ingestion: &mockIngestionService{},
	}
}
