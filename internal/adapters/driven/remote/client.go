// Package remote provides a client for a running research-assistant server.
// It implements the same driving ports as the local services, so the CLI
// and the chat TUI work against either.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
)

// Ensure Client implements the driving ports.
var (
	_ driving.IngestionService = (*Client)(nil)
	_ driving.ChatService      = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:3000"
	DefaultTimeout = 5 * time.Minute
)

// ErrServerUnavailable is returned while the circuit breaker is open.
var ErrServerUnavailable = errors.New("server unavailable")

// Config holds configuration for the remote client.
type Config struct {
	// BaseURL is the server URL (default: http://localhost:3000).
	BaseURL string

	// Timeout is the request timeout (default: 5m, ingestion can be slow).
	Timeout time.Duration

	// FailureThreshold is the number of consecutive server failures that
	// opens the circuit (default: 3).
	FailureThreshold uint32

	// OpenTimeout is how long the circuit stays open (default: 30s).
	OpenTimeout time.Duration
}

// Client calls the server's HTTP API.
type Client struct {
	client  *http.Client
	baseURL string
	breaker *gobreaker.CircuitBreaker
}

type messageResponse struct {
	Message string `json:"message"`
}

// serverError marks failures that count against the circuit breaker.
type serverError struct {
	err error
}

func (e *serverError) Error() string { return e.err.Error() }
func (e *serverError) Unwrap() error { return e.err }

// NewClient creates a new remote client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	threshold := cfg.FailureThreshold
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "research-assistant",
			Timeout: cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				var se *serverError
				return !errors.As(err, &se)
			},
		}),
	}
}

// BaseURL returns the server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IngestPDF uploads a file to POST /upload-pdf.
func (c *Client) IngestPDF(ctx context.Context, file *domain.UploadedFile) (*domain.IngestResult, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Filename)))
	mimeType := file.MIMEType
	if mimeType == "" {
		mimeType = domain.PDFMIMEType
	}
	header.Set("Content-Type", mimeType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	var result domain.IngestResult
	if err := c.do(ctx, "/upload-pdf", mw.FormDataContentType(), body.Bytes(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ask sends a query to POST /chat.
func (c *Client) Ask(ctx context.Context, query domain.ChatQuery) (*domain.ChatResponse, error) {
	if strings.TrimSpace(query.Query) == "" {
		return nil, domain.ErrQueryRequired
	}

	data, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var resp domain.ChatResponse
	if err := c.do(ctx, "/chat", "application/json", data, &resp); err != nil {
		return nil, err
	}
	if resp.Sources == nil {
		resp.Sources = []domain.Source{}
	}
	return &resp, nil
}

// Health fetches GET /healthz. A 503 report is returned without error.
func (c *Client) Health(ctx context.Context) (*domain.HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	var report domain.HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &report, nil
}

// do posts body through the circuit breaker and decodes a 2xx JSON response.
func (c *Client) do(ctx context.Context, path, contentType string, body []byte, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.post(ctx, path, contentType, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}
	return err
}

func (c *Client) post(ctx context.Context, path, contentType string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &serverError{fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &serverError{fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var msg messageResponse
	if err := json.Unmarshal(data, &msg); err != nil || msg.Message == "" {
		msg.Message = strings.TrimSpace(string(data))
	}

	err = decodeError(resp.StatusCode, msg.Message)
	if resp.StatusCode >= 500 && resp.StatusCode != http.StatusServiceUnavailable {
		return &serverError{err}
	}
	return err
}

// decodeError maps a server message back to the domain error it came from.
func decodeError(status int, message string) error {
	switch {
	case message == domain.ErrNoFile.Error():
		return domain.ErrNoFile
	case message == domain.ErrNotPDF.Error():
		return domain.ErrNotPDF
	case message == domain.ErrQueryRequired.Error():
		return domain.ErrQueryRequired
	case message == domain.ErrNotInitialized.Error() || status == http.StatusServiceUnavailable:
		return domain.ErrNotInitialized
	case strings.HasPrefix(message, domain.ProcessingErrorPrefix):
		return domain.NewProcessingError("remote", errors.New(strings.TrimPrefix(message, domain.ProcessingErrorPrefix)))
	default:
		return fmt.Errorf("server returned status %d: %s", status, message)
	}
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
