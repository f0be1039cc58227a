package rest

import (
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
)

// Ports aggregates the driving ports served over HTTP.
// In production all three are the same services.Readiness value.
type Ports struct {
	// Ingestion indexes uploaded PDFs.
	Ingestion driving.IngestionService

	// Chat answers questions.
	Chat driving.ChatService

	// Readiness reports whether the AI components are initialised.
	Readiness driving.ReadinessReporter
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Readiness == nil {
		return ErrMissingReadiness
	}
	return nil
}
