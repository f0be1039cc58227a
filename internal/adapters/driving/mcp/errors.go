// Package mcp provides an MCP (Model Context Protocol) server adapter for research-assistant.
// It lets AI assistants ask grounded questions and index local PDFs.
package mcp

import "errors"

var (
	// ErrMissingChatService is returned when the chat service is not provided.
	ErrMissingChatService = errors.New("mcp: chat service is required")

	// ErrMissingIngestionService is returned when the ingestion service is not provided.
	ErrMissingIngestionService = errors.New("mcp: ingestion service is required")
)
