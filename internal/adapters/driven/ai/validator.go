package ai

import (
	"context"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations by creating each
// adapter and pinging it. Unconfigured sections are skipped.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}
	svc, err := CreateEmbeddingProvider(config)
	if err != nil {
		return err
	}
	defer svc.Close()
	return pingWithTimeout(context.Background(), svc.Ping)
}

// ValidateLLM validates a chat model configuration by pinging the provider.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}
	svc, err := CreateChatModel(config)
	if err != nil {
		return err
	}
	defer svc.Close()
	return pingWithTimeout(context.Background(), svc.Ping)
}

// ValidateVectorStore validates a vector store configuration by pinging the index.
func (v *ConfigValidator) ValidateVectorStore(config *domain.VectorStoreSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}
	svc, err := CreateVectorStore(config)
	if err != nil {
		return err
	}
	defer svc.Close()
	return pingWithTimeout(context.Background(), svc.Ping)
}
