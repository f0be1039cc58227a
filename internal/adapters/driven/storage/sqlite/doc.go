// Package sqlite provides SQLite-based persistence for client-side state.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. It currently backs the chat history kept by the CLI and
// TUI clients; the server itself stays stateless.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.research-assistant/data/history.db
package sqlite
