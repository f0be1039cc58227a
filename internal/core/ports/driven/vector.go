package driven

import (
	"context"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// VectorStore is a namespaced similarity index.
// The namespace is fixed when the adapter is constructed; every record this
// system writes and every search it runs uses that namespace.
type VectorStore interface {
	// Upsert writes records, replacing any with the same ID.
	// Writes are not transactional: on failure, records already written stay.
	Upsert(ctx context.Context, records []domain.VectorRecord) error

	// Search returns up to k passages nearest to the query vector,
	// most similar first. Zero results is not an error.
	Search(ctx context.Context, query []float32, k int) ([]domain.Passage, error)

	// Ping validates the index is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
