// Package driving defines the interfaces the REST, MCP, CLI and TUI
// adapters call into the core with.
//
//   - IngestionService and ChatService: the two workflows
//   - ReadinessReporter: whether the workflows can serve yet
//   - HistoryService: client-side chat history
//   - SettingsService: effective configuration
//
// Implementations live in internal/core/services. The remote adapter
// implements IngestionService and ChatService against a running server.
package driving
