// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/research-assistant/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/research-assistant/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/research-assistant/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/research-assistant/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/research-assistant/internal/adapters/driven/llm/gemini"
	openaillm "github.com/custodia-labs/research-assistant/internal/adapters/driven/llm/openai"
	memoryvector "github.com/custodia-labs/research-assistant/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/research-assistant/internal/adapters/driven/vector/pinecone"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// fixHint is appended to initialisation errors.
const fixHint = "Run 'research-assistant config show' to check your settings"

// InitResult holds the AI components a server needs.
type InitResult struct {
	Embedding   driven.EmbeddingProvider
	ChatModel   driven.ChatModel
	VectorStore driven.VectorStore
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Embedding != nil {
		r.Embedding.Close()
	}
	if r.VectorStore != nil {
		r.VectorStore.Close()
	}
	if r.ChatModel != nil {
		r.ChatModel.Close()
	}
}

// Initialise creates the embedding provider, chat model and vector store.
// With validate set, each one is pinged. On any failure every component
// created so far is closed and the error names the one that failed.
func Initialise(ctx context.Context, settings *domain.Settings, validate bool) (*InitResult, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no settings", domain.ErrInvalidInput)
	}

	result := &InitResult{}
	fail := func(err error) (*InitResult, error) {
		result.Close()
		return nil, err
	}

	embedder, err := CreateEmbeddingProvider(&settings.Embedding)
	if err != nil {
		return fail(fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, fixHint))
	}
	result.Embedding = embedder

	model, err := CreateChatModel(&settings.LLM)
	if err != nil {
		return fail(fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, fixHint))
	}
	result.ChatModel = model

	store, err := CreateVectorStore(&settings.VectorStore)
	if err != nil {
		return fail(fmt.Errorf("%w: %w. %s", domain.ErrVectorStoreUnavailable, err, fixHint))
	}
	result.VectorStore = store

	if !validate {
		return result, nil
	}

	checks := []struct {
		sentinel error
		ping     func(context.Context) error
	}{
		{domain.ErrEmbeddingUnavailable, embedder.Ping},
		{domain.ErrLLMUnavailable, model.Ping},
		{domain.ErrVectorStoreUnavailable, store.Ping},
	}
	for _, c := range checks {
		if err := pingWithTimeout(ctx, c.ping); err != nil {
			return fail(fmt.Errorf("%w: service unreachable (%w). %s", c.sentinel, err, fixHint))
		}
	}

	return result, nil
}

// CreateEmbeddingProvider creates the embedding provider named by settings.
func CreateEmbeddingProvider(settings *domain.EmbeddingSettings) (driven.EmbeddingProvider, error) {
	if settings == nil {
		return nil, errors.New("embedding settings are missing")
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminiembed.NewEmbedder(geminiembed.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbedder(openaiembed.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbedder(ollamaembed.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not support embeddings, use gemini, openai or ollama")

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateChatModel creates the chat model named by settings.
func CreateChatModel(settings *domain.LLMSettings) (driven.ChatModel, error) {
	if settings == nil {
		return nil, errors.New("llm settings are missing")
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewChatModel(geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewChatModel(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewChatModel(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return nil, fmt.Errorf("ollama is supported for embeddings only, use gemini, openai or anthropic")

	default:
		return nil, fmt.Errorf("%w: llm provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateVectorStore creates the vector store named by settings.
func CreateVectorStore(settings *domain.VectorStoreSettings) (driven.VectorStore, error) {
	if settings == nil {
		return nil, errors.New("vector store settings are missing")
	}

	switch settings.Provider {
	case domain.VectorProviderPinecone:
		return pinecone.NewStore(pinecone.Config{
			APIKey:    settings.APIKey,
			IndexName: settings.IndexName,
			Namespace: settings.Namespace,
			Host:      settings.Host,
		})

	case domain.VectorProviderMemory:
		return memoryvector.NewStore(), nil

	default:
		return nil, fmt.Errorf("%w: vector store %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

func pingWithTimeout(ctx context.Context, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return ping(ctx)
}
