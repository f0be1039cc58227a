package ai

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	var _ driven.AIConfigValidator = (*ConfigValidator)(nil)
}

func TestConfigValidator_NilAndUnconfigured(t *testing.T) {
	validator := NewConfigValidator()

	// Nothing to validate
	assert.NoError(t, validator.ValidateEmbedding(nil))
	assert.NoError(t, validator.ValidateLLM(nil))
	assert.NoError(t, validator.ValidateVectorStore(nil))
	assert.NoError(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderGemini}))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Provider: "", Model: "test-model"}))
	assert.NoError(t, validator.ValidateVectorStore(&domain.VectorStoreSettings{Provider: domain.VectorProviderPinecone}))
}

func TestConfigValidator_PingsProviders(t *testing.T) {
	ok, _ := providerServer(t, http.StatusOK)
	bad, _ := providerServer(t, http.StatusForbidden)
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", BaseURL: ok.URL}))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k", BaseURL: ok.URL}))
	assert.NoError(t, validator.ValidateVectorStore(&domain.VectorStoreSettings{Provider: domain.VectorProviderMemory}))
	assert.NoError(t, validator.ValidateVectorStore(&domain.VectorStoreSettings{Provider: domain.VectorProviderPinecone, APIKey: "p", Host: ok.URL}))

	err := validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k", BaseURL: bad.URL, Model: "gemini-1.5-flash"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
