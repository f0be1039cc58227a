// Package domain defines the core business entities for the research assistant.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - UploadedFile: A PDF received from a client, alive only during ingestion
//   - Document: One page of extracted text with {source, pageNumber} metadata
//   - Chunk: A bounded, overlapping span of a page; the unit that is embedded
//   - VectorRecord: A chunk plus its embedding, as written to the vector store
//   - Passage: A chunk returned by similarity search
//   - ChatQuery / ChatResponse: One question and its grounded answer
//   - ResponseStyle: The format and length inferred from a query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
