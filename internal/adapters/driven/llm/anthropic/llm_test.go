package anthropic

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

	m, err := NewChatModel(Config{APIKey: "a-key", BaseURL: srv.URL, Model: "claude-3-5-haiku-latest"})
	require.NoError(t, err)
	return m
}

func TestNewChatModel_RequiresAPIKey(t *testing.T) {
	_, err := NewChatModel(Config{})
	assert.EqualError(t, err, "anthropic: API key is required")
}

func TestChatModel_Chat_LiftsSystemPrompt(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "a-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-3-5-haiku-latest", req.Model)
		assert.Equal(t, "Be brief.", req.System)
		assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Latent "},{"type":"tool_use"},{"type":"text","text":"diffusion."}],"stop_reason":"end_turn"}`))
	})

	answer, err := m.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "Be brief."},
		{Role: driven.RoleUser, Content: "What is it?"},
	}, driven.ChatOptions{Temperature: 0.6})

	require.NoError(t, err)
	assert.Equal(t, "Latent diffusion.", answer)
}

func TestChatModel_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusBadRequest, `{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens: too large"}}`, "anthropic error: max_tokens: too large"},
		{"non json", http.StatusServiceUnavailable, "overloaded", "anthropic error (status 503): overloaded"},
		{"empty content", http.StatusOK, `{"content":[]}`, "anthropic: no response content returned"},
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
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	assert.NoError(t, m.Ping(context.Background()))
}
