package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// --- Mock implementations ---

// calls counts port invocations across all mocks of one test.
type calls struct {
	mu    sync.Mutex
	count map[string]int
}

func newCalls() *calls {
	return &calls{count: make(map[string]int)}
}

func (c *calls) hit(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count[name]++
}

func (c *calls) get(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count[name]
}

func (c *calls) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.count {
		n += v
	}
	return n
}

// mockTempStore implements driven.TempStore for testing.
type mockTempStore struct {
	calls     *calls
	writeErr  error
	removeErr error
	removed   []string
	written   map[string][]byte
}

func (m *mockTempStore) Reserve(filename string) string {
	m.calls.hit("reserve")
	return "/tmp/temp_1700000000000_" + filename
}

func (m *mockTempStore) Write(path string, data []byte) error {
	m.calls.hit("write")
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.written == nil {
		m.written = make(map[string][]byte)
	}
	m.written[path] = data
	return nil
}

func (m *mockTempStore) Remove(path string) error {
	m.calls.hit("remove")
	m.removed = append(m.removed, path)
	return m.removeErr
}

// mockLoader implements driven.DocumentLoader for testing.
type mockLoader struct {
	calls *calls
	pages []domain.Document
	err   error
}

func (m *mockLoader) Load(_ context.Context, path string) ([]domain.Document, error) {
	m.calls.hit("load")
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Document, len(m.pages))
	for i, p := range m.pages {
		p.Metadata.Source = path
		out[i] = p
	}
	return out, nil
}

// mockSplitter implements driven.Splitter for testing.
// Every page becomes one chunk.
type mockSplitter struct {
	calls *calls
	err   error
}

func (m *mockSplitter) SplitDocuments(_ context.Context, docs []domain.Document) ([]domain.Chunk, error) {
	m.calls.hit("split")
	if m.err != nil {
		return nil, m.err
	}
	chunks := make([]domain.Chunk, len(docs))
	for i, d := range docs {
		chunks[i] = domain.Chunk(d)
	}
	return chunks, nil
}

// mockEmbedder implements driven.EmbeddingProvider for testing.
type mockEmbedder struct {
	calls    *calls
	docErr   error
	queryErr error
	short    bool
	texts    []string
	queries  []string
}

func (m *mockEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	m.calls.hit("embed_documents")
	if m.docErr != nil {
		return nil, m.docErr
	}
	m.texts = append(m.texts, texts...)
	n := len(texts)
	if m.short {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(i), 1}
	}
	return out, nil
}

func (m *mockEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	m.calls.hit("embed_query")
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.queries = append(m.queries, text)
	return []float32{1, 0}, nil
}

func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	calls     *calls
	upsertErr error
	searchErr error
	passages  []domain.Passage
	records   []domain.VectorRecord
	lastK     int
}

func (m *mockVectorStore) Upsert(_ context.Context, records []domain.VectorRecord) error {
	m.calls.hit("upsert")
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ []float32, k int) ([]domain.Passage, error) {
	m.calls.hit("search")
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.passages) {
		return m.passages[:k], nil
	}
	return m.passages, nil
}

func (m *mockVectorStore) Ping(_ context.Context) error { return nil }
func (m *mockVectorStore) Close() error                 { return nil }

// mockChatModel implements driven.ChatModel for testing.
type mockChatModel struct {
	calls    *calls
	answer   string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockChatModel) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls.hit("chat")
	m.messages = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockChatModel) ModelName() string            { return "mock-chat" }
func (m *mockChatModel) Ping(_ context.Context) error { return nil }
func (m *mockChatModel) Close() error                 { return nil }

// mockValidator implements driven.AIConfigValidator for testing.
type mockValidator struct {
	embedErr, llmErr, vectorErr error
}

func (m *mockValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error     { return m.embedErr }
func (m *mockValidator) ValidateLLM(_ *domain.LLMSettings) error                 { return m.llmErr }
func (m *mockValidator) ValidateVectorStore(_ *domain.VectorStoreSettings) error { return m.vectorErr }

var errBoom = errors.New("boom")

func page(n int, text string) domain.Document {
	return domain.Document{PageContent: text, Metadata: domain.PageMetadata("", n)}
}
