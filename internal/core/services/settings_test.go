package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/research-assistant/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

func envMap(m map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyEmbedProvider:      "openai",
		KeyEmbedModel:         "text-embedding-3-large",
		KeyLLMProvider:        "anthropic",
		KeyLLMTemperature:     0.2,
		KeyVectorProvider:     "memory",
		KeyChunkSize:          int64(800),
		KeyChunkOverlap:       int64(0),
		KeySampleQuery:        "What is attention?",
		KeyServerAllowOrigins: []any{"http://localhost:5173"},
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.InDelta(t, 0.2, settings.LLM.Temperature, 1e-9)
	assert.Equal(t, domain.VectorProviderMemory, settings.VectorStore.Provider)
	assert.Equal(t, 800, settings.Ingestion.ChunkSize)
	assert.Equal(t, 0, settings.Ingestion.ChunkOverlap, "an explicit zero is kept")
	assert.Equal(t, "What is attention?", settings.Ingestion.SampleQuery)
	assert.Equal(t, []string{"http://localhost:5173"}, settings.Server.AllowOrigins)
}

func TestSettingsService_Get_InvalidProvidersReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyEmbedProvider:  "cohere",
		KeyVectorProvider: "weaviate",
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.Embedding.Provider)
	assert.Equal(t, domain.VectorProviderPinecone, settings.VectorStore.Provider)
}

func TestSettingsService_Get_EnvironmentOverrides(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyLLMModel:        "from-file",
		KeyVectorIndexName: "from-file",
	})
	env := envMap(map[string]string{
		EnvGoogleAPIKey:         "g-key",
		EnvGeminiModel:          "gemini-1.5-flash",
		EnvGeminiEmbeddingModel: "text-embedding-004",
		EnvPineconeAPIKey:       "p-key",
		EnvPineconeIndex:        "papers",
		EnvPineconeNamespace:    "ml",
		EnvPort:                 "8080",
		EnvTempDir:              "/var/tmp/ra",
	})
	service := NewSettingsService(store, env)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "g-key", settings.Embedding.APIKey)
	assert.Equal(t, "g-key", settings.LLM.APIKey)
	assert.Equal(t, "gemini-1.5-flash", settings.LLM.Model)
	assert.Equal(t, "text-embedding-004", settings.Embedding.Model)
	assert.Equal(t, "p-key", settings.VectorStore.APIKey)
	assert.Equal(t, "papers", settings.VectorStore.IndexName)
	assert.Equal(t, "ml", settings.VectorStore.Namespace)
	assert.Equal(t, 8080, settings.Server.Port)
	assert.Equal(t, "/var/tmp/ra", settings.Ingestion.TempDir)
}

func TestSettingsService_Get_ProviderSpecificKeys(t *testing.T) {
	env := envMap(map[string]string{
		EnvEmbeddingProvider: "OpenAI",
		EnvLLMProvider:       "anthropic",
		EnvGoogleAPIKey:      "g-key",
		EnvOpenAIAPIKey:      "o-key",
		EnvAnthropicAPIKey:   "a-key",
		EnvGeminiModel:       "ignored-for-anthropic",
		EnvLLMModel:          "claude-3-5-haiku-latest",
	})
	service := NewSettingsService(memory.NewConfigStore(), env)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "o-key", settings.Embedding.APIKey)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "a-key", settings.LLM.APIKey)
	assert.Equal(t, "claude-3-5-haiku-latest", settings.LLM.Model)
}

func TestSettingsService_Get_OllamaHost(t *testing.T) {
	env := envMap(map[string]string{
		EnvEmbeddingProvider: "ollama",
		EnvOllamaHost:        "127.0.0.1:11434",
		EnvGoogleAPIKey:      "g-key",
	})
	service := NewSettingsService(memory.NewConfigStore(), env)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "127.0.0.1:11434", settings.Embedding.BaseURL)
	assert.Empty(t, settings.Embedding.APIKey)
	assert.Equal(t, "g-key", settings.LLM.APIKey)
}

func TestSettingsService_Get_MissingValuesStayEmpty(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), envMap(map[string]string{
		EnvPineconeNamespace: "",
	}))

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Empty(t, settings.LLM.Model)
	assert.Empty(t, settings.Embedding.Model)
	assert.Empty(t, settings.VectorStore.Namespace)
	assert.Empty(t, settings.VectorStore.APIKey)
}

func TestSettingsService_Get_InvalidPort(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), envMap(map[string]string{EnvPort: "http"}))

	_, err := service.Get()

	assert.Error(t, err)
}

func TestSettingsService_SetAndPath(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.Set(KeyVectorNamespace, "papers"))

	assert.Equal(t, "papers", store.GetString(KeyVectorNamespace))
	assert.Equal(t, ":memory:", service.Path())
}

func TestSettingsService_Validate(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	valid := domain.DefaultSettings()
	assert.NoError(t, service.Validate(&valid))

	local := domain.DefaultSettings()
	local.Embedding.Provider = domain.AIProviderOllama
	assert.NoError(t, service.Validate(&local))

	tests := []struct {
		name   string
		mutate func(s *domain.Settings)
	}{
		{"anthropic cannot embed", func(s *domain.Settings) { s.Embedding.Provider = domain.AIProviderAnthropic }},
		{"unknown llm", func(s *domain.Settings) { s.LLM.Provider = "cohere" }},
		{"ollama cannot chat", func(s *domain.Settings) { s.LLM.Provider = domain.AIProviderOllama }},
		{"unknown vector store", func(s *domain.Settings) { s.VectorStore.Provider = "chroma" }},
		{"port out of range", func(s *domain.Settings) { s.Server.Port = 70000 }},
		{"zero chunk size", func(s *domain.Settings) { s.Ingestion.ChunkSize = 0 }},
		{"overlap not below size", func(s *domain.Settings) { s.Ingestion.ChunkOverlap = 1000 }},
		{"sample limit", func(s *domain.Settings) { s.Ingestion.SampleLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			tt.mutate(&s)
			assert.Error(t, service.Validate(&s))
		})
	}
}

func TestSettingsService_ValidateConnectivity(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	s := domain.DefaultSettings()

	assert.NoError(t, service.ValidateConnectivity(&s), "no validator means nothing to check")

	service.SetValidator(&mockValidator{})
	assert.NoError(t, service.ValidateConnectivity(&s))

	service.SetValidator(&mockValidator{llmErr: errBoom})
	assert.ErrorIs(t, service.ValidateConnectivity(&s), errBoom)

	service.SetValidator(&mockValidator{vectorErr: errBoom})
	assert.ErrorIs(t, service.ValidateConnectivity(&s), errBoom)
}
