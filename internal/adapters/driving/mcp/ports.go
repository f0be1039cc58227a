package mcp

import (
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
)

// Ports are the services the MCP tools and resources call.
type Ports struct {
	// Chat answers questions.
	Chat driving.ChatService

	// Ingestion indexes PDFs.
	Ingestion driving.IngestionService

	// Readiness reports whether the AI components are initialised.
	Readiness driving.ReadinessReporter

	// History exposes the local chat history.
	History driving.HistoryService
}

// Validate checks the required ports. Readiness and History are optional.
func (p *Ports) Validate() error {
	if p == nil || p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	return nil
}
