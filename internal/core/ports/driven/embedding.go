package driven

import "context"

// EmbeddingProvider generates vector embeddings from text.
//
// Documents and queries are embedded through separate calls because some
// providers tune the vector for its role (retrieval document vs query).
// Vectors from one provider must only be compared with vectors from the
// same provider and model.
//
// Implementations include:
//   - Gemini (text-embedding-004, gemini-embedding-001)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingProvider interface {
	// EmbedDocuments returns one vector per text, in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery returns the vector for a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
