// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - IngestionService: upload -> temp file -> pages -> chunks -> vectors
//   - ChatService: query -> embedding -> similarity search -> grounded answer
//   - Readiness: gates both workflows until the AI clients are initialised
//   - HistoryService: local chat history for CLI and TUI clients
//   - SettingsService: defaults, config file and environment, merged
//
// Services import only domain and the port packages.
package services
