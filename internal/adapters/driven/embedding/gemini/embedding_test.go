package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) *Embedder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e, err := NewEmbedder(Config{APIKey: "g-key", BaseURL: srv.URL, Model: "text-embedding-004"})
	require.NoError(t, err)
	return e
}

// lengths answers each request with a one-dimensional vector holding the text length.
func lengths(t *testing.T, wantTask string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004:batchEmbedContents", r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))

		var req batchEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		out := make([]map[string]any, len(req.Requests))
		for i, item := range req.Requests {
			assert.Equal(t, "models/text-embedding-004", item.Model)
			assert.Equal(t, wantTask, item.TaskType)
			out[i] = map[string]any{"values": []float32{float32(len(item.Content.Parts[0].Text))}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": out})
	}
}

func TestNewEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbedder(Config{Model: "text-embedding-004"})
	assert.EqualError(t, err, "gemini: API key is required")
}

func TestNewEmbedder_StripsModelPrefix(t *testing.T) {
	e, err := NewEmbedder(Config{APIKey: "k", Model: "models/gemini-embedding-001"})

	require.NoError(t, err)
	assert.Equal(t, "gemini-embedding-001", e.ModelName())
	assert.Equal(t, DefaultBaseURL, e.baseURL)
}

func TestEmbedder_EmbedDocuments(t *testing.T) {
	e := newTestEmbedder(t, lengths(t, TaskRetrievalDocument))

	vectors, err := e.EmbedDocuments(context.Background(), []string{"a", "bb", "ccc"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}, {3}}, vectors)
}

func TestEmbedder_EmbedQuery(t *testing.T) {
	e := newTestEmbedder(t, lengths(t, TaskRetrievalQuery))

	vector, err := e.EmbedQuery(context.Background(), "diffusion")

	require.NoError(t, err)
	assert.Equal(t, []float32{9}, vector)
}

func TestEmbedder_APIError(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := e.EmbedDocuments(context.Background(), []string{"a"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini error: API key not valid")
}

func TestEmbedder_CountMismatch(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[1]}]}`))
	})

	_, err := e.EmbedQuery(context.Background(), "")
	require.NoError(t, err)

	_, err = e.EmbedDocuments(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 embeddings for 2 texts")
}

func TestEmbedder_RateLimitedResponseFails(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := e.EmbedDocuments(context.Background(), []string{"a"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resource has been exhausted")
}

func TestEmbedder_Ping(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004", r.URL.Path)
		if r.URL.Query().Get("key") != "g-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"name":"models/text-embedding-004"}`))
	})

	assert.NoError(t, e.Ping(context.Background()))

	e.apiKey = "wrong"
	err := e.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestRedact(t *testing.T) {
	err := redact(errors.New(`Post "http://x/?key=secret": dial tcp: refused`), "secret")

	assert.NotContains(t, err.Error(), "secret")
	assert.Contains(t, err.Error(), "REDACTED")
}
