// Package rest provides the HTTP adapter for research-assistant.
// It exposes PDF upload, chat, health and metrics endpoints on echo.
package rest

import "errors"

// Port validation errors.
var (
	// ErrMissingIngestionService is returned when the ingestion service is not provided.
	ErrMissingIngestionService = errors.New("rest: ingestion service is required")

	// ErrMissingChatService is returned when the chat service is not provided.
	ErrMissingChatService = errors.New("rest: chat service is required")

	// ErrMissingReadiness is returned when the readiness reporter is not provided.
	ErrMissingReadiness = errors.New("rest: readiness reporter is required")
)

// Client-facing messages that do not come from the domain.
const (
	msgInvalidBody   = "Invalid request body"
	msgInternalError = "Internal Server Error"
	msgInitializing  = "initializing"
)
