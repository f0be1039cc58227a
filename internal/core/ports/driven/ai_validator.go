package driven

import "github.com/custodia-labs/research-assistant/internal/core/domain"

// AIConfigValidator validates provider configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying services.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by pinging the provider.
	// Returns nil if configuration is valid or not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM validates a chat model configuration by pinging the provider.
	// Returns nil if configuration is valid or not configured.
	ValidateLLM(config *domain.LLMSettings) error

	// ValidateVectorStore validates a vector store configuration by pinging the index.
	// Returns nil if configuration is valid or not configured.
	ValidateVectorStore(config *domain.VectorStoreSettings) error
}
