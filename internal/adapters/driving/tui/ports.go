// Package tui provides an interactive terminal chat client for research-assistant.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions. It may be local or a remote server.
	Chat driving.ChatService

	// Ingestion indexes PDFs for the /upload command. Optional.
	Ingestion driving.IngestionService

	// History persists the conversation locally. Optional.
	History driving.HistoryService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	chat driving.ChatService,
	ingestion driving.IngestionService,
	history driving.HistoryService,
) *Ports {
	return &Ports{
		Chat:      chat,
		Ingestion: ingestion,
		History:   history,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
