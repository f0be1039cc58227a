package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

func newTestModel(t *testing.T, handler http.HandlerFunc) *ChatModel {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m, err := NewChatModel(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)
	return m
}

func TestNewChatModel_RequiresAPIKey(t *testing.T) {
	_, err := NewChatModel(Config{Model: "gpt-4o-mini"})
	assert.EqualError(t, err, "openai: API key is required")
}

func TestChatModel_Chat(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.InDelta(t, 0.6, req.Temperature, 1e-9)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"It denoises in latent space."},"finish_reason":"stop"}]}`))
	})

	answer, err := m.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "You are a research assistant."},
		{Role: driven.RoleUser, Content: "What is latent diffusion?"},
	}, driven.ChatOptions{Temperature: 0.6})

	require.NoError(t, err)
	assert.Equal(t, "It denoises in latent space.", answer)
}

func TestChatModel_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"requests"}}`, "openai error: Rate limit reached"},
		{"non json", http.StatusBadGateway, "bad gateway", "openai error (status 502): bad gateway"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "openai: no response choices returned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := m.Chat(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "q"}}, driven.ChatOptions{})

			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestChatModel_Ping(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid key"))
	})

	err := m.Ping(context.Background())

	assert.EqualError(t, err, "openai: API returned status 401: invalid key")
	assert.Equal(t, "gpt-4o-mini", m.ModelName())
	assert.NoError(t, m.Close())
}
