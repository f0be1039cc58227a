// Package pinecone provides a vector store adapter for Pinecone indexes.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultControlPlaneURL = "https://api.pinecone.io"
	DefaultAPIVersion      = "2024-07"
	DefaultTimeout         = 60 * time.Second
	DefaultBatchSize       = 100
)

// Metadata keys written with every record.
const (
	MetadataText       = "text"
	MetadataSource     = "source"
	MetadataPageNumber = "pageNumber"
)

// Config holds configuration for the Pinecone store.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// IndexName names the index. Its data plane host is resolved through
	// the control plane on first use unless Host is set.
	IndexName string

	// Namespace scopes every write and search. Empty is the default namespace.
	Namespace string

	// Host is the index data plane host, e.g. "papers-abc123.svc.pinecone.io".
	Host string

	// ControlPlaneURL is the control plane base URL (default: https://api.pinecone.io).
	ControlPlaneURL string

	// APIVersion is sent as X-Pinecone-API-Version (default: 2024-07).
	APIVersion string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// BatchSize is the number of records per upsert request (default: 100).
	BatchSize int
}

// Store reads and writes vectors in one Pinecone index namespace.
type Store struct {
	client       *http.Client
	apiKey       string
	indexName    string
	namespace    string
	controlPlane string
	apiVersion   string
	batchSize    int

	mu   sync.Mutex
	host string
}

type vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []vector `json:"vectors"`
	Namespace string   `json:"namespace"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type queryRequest struct {
	Namespace       string    `json:"namespace"`
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

type describeIndexResponse struct {
	Name   string `json:"name"`
	Host   string `json:"host"`
	Status struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

// NewStore creates a new Pinecone store. No request is made until first use.
func NewStore(cfg Config) (*Store, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = DefaultControlPlaneURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:       cfg.APIKey,
		indexName:    cfg.IndexName,
		namespace:    cfg.Namespace,
		controlPlane: strings.TrimRight(cfg.ControlPlaneURL, "/"),
		apiVersion:   cfg.APIVersion,
		batchSize:    cfg.BatchSize,
		host:         normaliseHost(cfg.Host),
	}, nil
}

// Upsert writes records in sequential batches. The first failing batch
// stops the write; records in earlier batches stay in the index.
func (s *Store) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	host, err := s.resolveHost(ctx)
	if err != nil {
		return err
	}

	written := 0
	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))

		req := upsertRequest{
			Vectors:   make([]vector, 0, end-start),
			Namespace: s.namespace,
		}
		for _, r := range records[start:end] {
			req.Vectors = append(req.Vectors, vector{
				ID:       r.ID,
				Values:   r.Values,
				Metadata: toMetadata(r),
			})
		}

		var resp upsertResponse
		if err := s.do(ctx, http.MethodPost, host+"/vectors/upsert", req, &resp); err != nil {
			return fmt.Errorf("pinecone: upsert stopped after %d of %d records: %w", written, len(records), err)
		}
		written += end - start
	}
	return nil
}

// Search returns up to k nearest passages in the store's namespace.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.Passage, error) {
	host, err := s.resolveHost(ctx)
	if err != nil {
		return nil, err
	}

	req := queryRequest{
		Namespace:       s.namespace,
		Vector:          query,
		TopK:            k,
		IncludeMetadata: true,
	}
	var resp queryResponse
	if err := s.do(ctx, http.MethodPost, host+"/query", req, &resp); err != nil {
		return nil, fmt.Errorf("pinecone: query: %w", err)
	}

	passages := make([]domain.Passage, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		passages = append(passages, fromMetadata(m.Metadata, m.Score))
	}
	return passages, nil
}

// Ping resolves the index host and reads the index stats, which checks
// the key, the index and the data plane.
func (s *Store) Ping(ctx context.Context) error {
	host, err := s.resolveHost(ctx)
	if err != nil {
		return err
	}
	if err := s.do(ctx, http.MethodPost, host+"/describe_index_stats", struct{}{}, nil); err != nil {
		return fmt.Errorf("pinecone: describe index stats: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// Host returns the resolved data plane URL, or "" before first use.
func (s *Store) Host() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host
}

// resolveHost returns the data plane URL, describing the index once.
// A failed lookup is retried on the next call.
func (s *Store) resolveHost(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.host != "" {
		return s.host, nil
	}
	if s.indexName == "" {
		return "", fmt.Errorf("pinecone: index name is required")
	}

	var desc describeIndexResponse
	endpoint := s.controlPlane + "/indexes/" + url.PathEscape(s.indexName)
	if err := s.do(ctx, http.MethodGet, endpoint, nil, &desc); err != nil {
		if IsNotFound(err) {
			return "", fmt.Errorf("pinecone: index %q not found in this project: %w", s.indexName, err)
		}
		return "", fmt.Errorf("pinecone: describe index %q: %w", s.indexName, err)
	}
	if desc.Host == "" {
		return "", fmt.Errorf("pinecone: index %q has no host", s.indexName)
	}

	s.host = normaliseHost(desc.Host)
	return s.host, nil
}

// do sends a JSON request and decodes a JSON response.
func (s *Store) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("X-Pinecone-API-Version", s.apiVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response from Pinecone.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from Pinecone.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorMessage extracts the message from Pinecone's error envelopes,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != nil && envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(body))
}

func normaliseHost(host string) string {
	host = strings.TrimRight(host, "/")
	if host == "" || strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}

func toMetadata(r domain.VectorRecord) map[string]any {
	md := map[string]any{MetadataText: r.Text}
	if r.Metadata.Source != "" {
		md[MetadataSource] = r.Metadata.Source
	}
	if r.Metadata.PageNumber != nil {
		md[MetadataPageNumber] = *r.Metadata.PageNumber
	}
	return md
}

// fromMetadata rebuilds a passage. Records written by other tools may keep
// the page under "loc.pageNumber"; missing or mistyped fields stay empty.
func fromMetadata(md map[string]any, score float64) domain.Passage {
	p := domain.Passage{Score: score}
	if text, ok := md[MetadataText].(string); ok {
		p.PageContent = text
	}
	if src, ok := md[MetadataSource].(string); ok {
		p.Metadata.Source = src
	}
	page, ok := md[MetadataPageNumber].(float64)
	if !ok {
		page, ok = md["loc.pageNumber"].(float64)
	}
	if ok {
		n := int(page)
		p.Metadata.PageNumber = &n
	}
	return p
}
