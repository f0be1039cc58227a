// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Ingestion
//
//   - TempStore: Holds an uploaded file on disk while it is indexed
//   - DocumentLoader: Reads a PDF into one Document per page
//   - Splitter: Splits pages into overlapping chunks
//
// # Retrieval and generation
//
//   - EmbeddingProvider: Maps text to vectors
//   - VectorStore: Namespaced managed vector index
//   - ChatModel: Produces the grounded answer
//
// # Client-side
//
//   - HistoryStore: Local chat history for CLI/TUI clients
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
