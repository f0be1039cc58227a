package domain

const unknownDescription = "Unknown"

// Ingestion defaults. The splitter sizes are measured in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
	DefaultSampleQuery  = "What is latent diffusion?"
	DefaultSampleLimit  = 1
	DefaultTemperature  = 0.6
	DefaultPort         = 3000
	DefaultMaxUploadMB  = 25
)

// AIProvider identifies an AI service provider for embeddings or chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Generative Language API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API (chat only).
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is a local Ollama server (embeddings only).
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama:
		return true
	default:
		return false
	}
}

// SupportsEmbeddings returns true if this provider can generate embeddings.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderOllama
}

// SupportsChat returns true if this provider can answer questions.
func (p AIProvider) SupportsChat() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// RequiresAPIKey returns false for providers running on the local machine.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// VectorProvider identifies a vector store backend.
type VectorProvider string

// Available vector store backends.
const (
	// VectorProviderPinecone is the managed Pinecone index.
	VectorProviderPinecone VectorProvider = "pinecone"

	// VectorProviderMemory is a process-local store for development and tests.
	VectorProviderMemory VectorProvider = "memory"
)

// IsValid returns true if the vector provider is recognised.
func (p VectorProvider) IsValid() bool {
	return p == VectorProviderPinecone || p == VectorProviderMemory
}

// String returns the string representation.
func (p VectorProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the backend.
func (p VectorProvider) Description() string {
	switch p {
	case VectorProviderPinecone:
		return "Pinecone (managed)"
	case VectorProviderMemory:
		return "In-memory (development only)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name. Passed through as-is.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// RequestsPerSecond paces embedding requests (0 = unlimited).
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.SupportsEmbeddings() && (e.APIKey != "" || !e.Provider.RequiresAPIKey())
}

// LLMSettings holds chat model configuration.
type LLMSettings struct {
	// Provider is the chat model provider.
	Provider AIProvider

	// Model is the chat model name. Passed through as-is.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// Temperature controls randomness of the answer.
	Temperature float64
}

// IsConfigured returns true if the chat model is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.SupportsChat() && l.APIKey != ""
}

// VectorStoreSettings holds vector store configuration.
type VectorStoreSettings struct {
	// Provider is the vector store backend.
	Provider VectorProvider

	// APIKey is the vector store API key.
	APIKey string

	// IndexName is the managed index to write to and search.
	IndexName string

	// Namespace partitions the index; every record of this system lives in it.
	Namespace string

	// Host is the index data-plane host. Resolved from IndexName when empty.
	Host string
}

// IsConfigured returns true if the vector store is set up.
func (v VectorStoreSettings) IsConfigured() bool {
	switch v.Provider {
	case VectorProviderMemory:
		return true
	case VectorProviderPinecone:
		return v.APIKey != "" && (v.IndexName != "" || v.Host != "")
	default:
		return false
	}
}

// IngestionSettings holds PDF pipeline configuration.
type IngestionSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks in characters.
	ChunkOverlap int

	// SampleQuery is the diagnostic query run after every upsert.
	SampleQuery string

	// SampleLimit is the number of passages the diagnostic query returns.
	SampleLimit int

	// TempDir holds uploaded files while they are indexed.
	TempDir string
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Port is the HTTP listen port.
	Port int

	// MaxUploadMB caps request bodies.
	MaxUploadMB int

	// AllowOrigins lists CORS origins; empty allows all.
	AllowOrigins []string
}

// Settings holds all application settings.
type Settings struct {
	Server      ServerSettings
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorStore VectorStoreSettings
	Ingestion   IngestionSettings
}

// DefaultSettings returns settings with the deployment defaults.
// Credentials, model names, index and namespace are left empty.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Port:        DefaultPort,
			MaxUploadMB: DefaultMaxUploadMB,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderGemini,
		},
		LLM: LLMSettings{
			Provider:    AIProviderGemini,
			Temperature: DefaultTemperature,
		},
		VectorStore: VectorStoreSettings{
			Provider: VectorProviderPinecone,
		},
		Ingestion: IngestionSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			SampleQuery:  DefaultSampleQuery,
			SampleLimit:  DefaultSampleLimit,
		},
	}
}
