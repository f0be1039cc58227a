package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyServerPort         = "server.port"
	KeyServerMaxUploadMB  = "server.max_upload_mb"
	KeyServerAllowOrigins = "server.allow_origins"
	KeyEmbedProvider      = "embedding.provider"
	KeyEmbedModel         = "embedding.model"
	KeyEmbedBaseURL       = "embedding.base_url"
	KeyEmbedAPIKey        = "embedding.api_key"
	KeyEmbedRPS           = "embedding.requests_per_second"
	KeyLLMProvider        = "llm.provider"
	KeyLLMModel           = "llm.model"
	KeyLLMBaseURL         = "llm.base_url"
	KeyLLMAPIKey          = "llm.api_key"
	KeyLLMTemperature     = "llm.temperature"
	KeyVectorProvider     = "vector_store.provider"
	KeyVectorAPIKey       = "vector_store.api_key"
	KeyVectorIndexName    = "vector_store.index_name"
	KeyVectorNamespace    = "vector_store.namespace"
	KeyVectorHost         = "vector_store.host"
	KeyChunkSize          = "ingestion.chunk_size"
	KeyChunkOverlap       = "ingestion.chunk_overlap"
	KeySampleQuery        = "ingestion.sample_query"
	KeySampleLimit        = "ingestion.sample_limit"
	KeyTempDir            = "ingestion.temp_dir"
)

// Environment variables. The provider-specific names follow the hosted
// deployment; RA_* names cover everything else.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvGoogleAPIKey         = "GOOGLE_API_KEY"
	EnvGeminiModel          = "GEMINI_MODEL_NAME"
	EnvGeminiEmbeddingModel = "GEMINI_EMBEDDING_MODEL"
	EnvOpenAIAPIKey         = "OPENAI_API_KEY"
	EnvAnthropicAPIKey      = "ANTHROPIC_API_KEY"
	EnvOllamaHost           = "OLLAMA_HOST"
	EnvPineconeAPIKey       = "PINECONE_API_KEY"
	EnvPineconeIndex        = "PINECONE_INDEX_NAME"
	EnvPineconeNamespace    = "PINECONE_NAMESPACE"
	EnvPineconeHost         = "PINECONE_HOST"
	EnvPort                 = "PORT"
	EnvEmbeddingProvider    = "RA_EMBEDDING_PROVIDER"
	EnvEmbeddingModel       = "RA_EMBEDDING_MODEL"
	EnvLLMProvider          = "RA_LLM_PROVIDER"
	EnvLLMModel             = "RA_LLM_MODEL"
	EnvVectorProvider       = "RA_VECTOR_PROVIDER"
	EnvTempDir              = "RA_TEMP_DIR"
)

// LookupEnv reads one environment variable; os.LookupEnv satisfies it.
type LookupEnv func(key string) (string, bool)

// SettingsService resolves application settings from defaults, the config
// store and the environment, in that order of increasing precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   LookupEnv
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
// lookupEnv may be nil to ignore the environment.
func NewSettingsService(configStore driven.ConfigStore, lookupEnv LookupEnv) *SettingsService {
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   lookupEnv,
	}
}

// SetValidator sets the connectivity validator used by ValidateConnectivity.
func (s *SettingsService) SetValidator(v driven.AIConfigValidator) {
	s.aiValidator = v
}

// Get returns the effective settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		Server: domain.ServerSettings{
			Port:         s.getInt(KeyServerPort, d.Server.Port),
			MaxUploadMB:  s.getInt(KeyServerMaxUploadMB, d.Server.MaxUploadMB),
			AllowOrigins: s.configStore.GetStringSlice(KeyServerAllowOrigins),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(KeyEmbedProvider, d.Embedding.Provider),
			Model:             s.configStore.GetString(KeyEmbedModel),
			BaseURL:           s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:            s.configStore.GetString(KeyEmbedAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(KeyEmbedRPS),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(KeyLLMProvider, d.LLM.Provider),
			Model:       s.configStore.GetString(KeyLLMModel),
			BaseURL:     s.configStore.GetString(KeyLLMBaseURL),
			APIKey:      s.configStore.GetString(KeyLLMAPIKey),
			Temperature: s.getFloat(KeyLLMTemperature, d.LLM.Temperature),
		},
		VectorStore: domain.VectorStoreSettings{
			Provider:  s.getVectorProvider(d.VectorStore.Provider),
			APIKey:    s.configStore.GetString(KeyVectorAPIKey),
			IndexName: s.configStore.GetString(KeyVectorIndexName),
			Namespace: s.configStore.GetString(KeyVectorNamespace),
			Host:      s.configStore.GetString(KeyVectorHost),
		},
		Ingestion: domain.IngestionSettings{
			ChunkSize:    s.getInt(KeyChunkSize, d.Ingestion.ChunkSize),
			ChunkOverlap: s.getInt(KeyChunkOverlap, d.Ingestion.ChunkOverlap),
			SampleQuery:  s.getString(KeySampleQuery, d.Ingestion.SampleQuery),
			SampleLimit:  s.getInt(KeySampleLimit, d.Ingestion.SampleLimit),
			TempDir:      s.configStore.GetString(KeyTempDir),
		},
	}

	if err := s.applyEnv(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// applyEnv overlays environment variables. Providers are resolved first
// because the key variables are provider-specific.
func (s *SettingsService) applyEnv(settings *domain.Settings) error {
	if v, ok := s.lookupEnv(EnvEmbeddingProvider); ok && v != "" {
		settings.Embedding.Provider = domain.AIProvider(strings.ToLower(v))
	}
	if v, ok := s.lookupEnv(EnvLLMProvider); ok && v != "" {
		settings.LLM.Provider = domain.AIProvider(strings.ToLower(v))
	}
	if v, ok := s.lookupEnv(EnvVectorProvider); ok && v != "" {
		settings.VectorStore.Provider = domain.VectorProvider(strings.ToLower(v))
	}

	s.overlayKey(&settings.Embedding.APIKey, settings.Embedding.Provider)
	s.overlayKey(&settings.LLM.APIKey, settings.LLM.Provider)

	if settings.Embedding.Provider == domain.AIProviderGemini {
		s.overlay(&settings.Embedding.Model, EnvGeminiEmbeddingModel)
	}
	if settings.LLM.Provider == domain.AIProviderGemini {
		s.overlay(&settings.LLM.Model, EnvGeminiModel)
	}
	if settings.Embedding.Provider == domain.AIProviderOllama {
		s.overlay(&settings.Embedding.BaseURL, EnvOllamaHost)
	}
	s.overlay(&settings.Embedding.Model, EnvEmbeddingModel)
	s.overlay(&settings.LLM.Model, EnvLLMModel)

	s.overlay(&settings.VectorStore.APIKey, EnvPineconeAPIKey)
	s.overlay(&settings.VectorStore.IndexName, EnvPineconeIndex)
	s.overlay(&settings.VectorStore.Namespace, EnvPineconeNamespace)
	s.overlay(&settings.VectorStore.Host, EnvPineconeHost)
	s.overlay(&settings.Ingestion.TempDir, EnvTempDir)

	if v, ok := s.lookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		settings.Server.Port = port
	}
	return nil
}

// overlay replaces *dst with the variable's value when it is set.
// A variable set to the empty string clears the value.
func (s *SettingsService) overlay(dst *string, name string) {
	if v, ok := s.lookupEnv(name); ok {
		*dst = v
	}
}

func (s *SettingsService) overlayKey(dst *string, provider domain.AIProvider) {
	switch provider {
	case domain.AIProviderGemini:
		s.overlay(dst, EnvGoogleAPIKey)
	case domain.AIProviderOpenAI:
		s.overlay(dst, EnvOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		s.overlay(dst, EnvAnthropicAPIKey)
	}
}

// Set persists one dot-notation key to the config store.
func (s *SettingsService) Set(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Validate checks the settings are coherent. Credentials are not checked
// here; adapter constructors reject missing keys.
func (s *SettingsService) Validate(settings *domain.Settings) error {
	var errs []error

	if !settings.Embedding.Provider.SupportsEmbeddings() {
		errs = append(errs, fmt.Errorf("embedding provider %q does not support embeddings", settings.Embedding.Provider))
	}
	if !settings.LLM.Provider.SupportsChat() {
		errs = append(errs, fmt.Errorf("LLM provider %q does not support chat", settings.LLM.Provider))
	}
	if !settings.VectorStore.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("invalid vector store provider: %q", settings.VectorStore.Provider))
	}
	if settings.Server.Port < 1 || settings.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", settings.Server.Port))
	}
	if settings.Ingestion.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive: %d", settings.Ingestion.ChunkSize))
	}
	if settings.Ingestion.ChunkOverlap < 0 || settings.Ingestion.ChunkOverlap >= settings.Ingestion.ChunkSize {
		errs = append(errs, fmt.Errorf("chunk overlap %d must be in [0, %d)",
			settings.Ingestion.ChunkOverlap, settings.Ingestion.ChunkSize))
	}
	if settings.Ingestion.SampleLimit < 1 {
		errs = append(errs, fmt.Errorf("sample limit must be at least 1: %d", settings.Ingestion.SampleLimit))
	}

	return errors.Join(errs...)
}

// ValidateConnectivity pings every configured provider.
func (s *SettingsService) ValidateConnectivity(settings *domain.Settings) error {
	if s.aiValidator == nil {
		return nil
	}
	if err := s.aiValidator.ValidateEmbedding(&settings.Embedding); err != nil {
		return err
	}
	if err := s.aiValidator.ValidateLLM(&settings.LLM); err != nil {
		return err
	}
	return s.aiValidator.ValidateVectorStore(&settings.VectorStore)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getVectorProvider(defaultVal domain.VectorProvider) domain.VectorProvider {
	val := s.configStore.GetString(KeyVectorProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.VectorProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
