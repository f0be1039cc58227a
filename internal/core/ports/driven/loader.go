package driven

import (
	"context"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// DocumentLoader reads a file into documents.
type DocumentLoader interface {
	// Load returns one Document per page, in page order, with
	// Metadata.PageNumber set (1-based).
	Load(ctx context.Context, path string) ([]domain.Document, error)
}

// Splitter divides documents into overlapping chunks.
type Splitter interface {
	// SplitDocuments splits each document and returns the chunks in
	// document order. Each chunk inherits its document's metadata.
	// The same input always yields the same output.
	SplitDocuments(ctx context.Context, docs []domain.Document) ([]domain.Chunk, error)
}

// TempStore holds uploaded files on local disk while they are indexed.
type TempStore interface {
	// Reserve returns a unique path for the given original filename.
	// Nothing is written yet.
	Reserve(filename string) string

	// Write stores data at a reserved path.
	Write(path string, data []byte) error

	// Remove deletes a reserved path. Removing a path that was never
	// written is not an error.
	Remove(path string) error
}
