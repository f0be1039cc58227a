package rest

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// --- Mock implementations ---

// mockIngestion implements driving.IngestionService for testing.
type mockIngestion struct {
	result *domain.IngestResult
	err    error
	got    *domain.UploadedFile
	calls  int
}

func (m *mockIngestion) IngestPDF(_ context.Context, file *domain.UploadedFile) (*domain.IngestResult, error) {
	m.calls++
	m.got = file
	if err := file.Validate(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockChat implements driving.ChatService for testing.
type mockChat struct {
	resp  *domain.ChatResponse
	err   error
	got   domain.ChatQuery
	calls int
}

func (m *mockChat) Ask(_ context.Context, q domain.ChatQuery) (*domain.ChatResponse, error) {
	m.calls++
	m.got = q
	if strings.TrimSpace(q.Query) == "" {
		return nil, domain.ErrQueryRequired
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// mockReadiness implements driving.ReadinessReporter for testing.
type mockReadiness struct {
	ready bool
	err   error
}

func (m *mockReadiness) Ready() bool { return m.ready }
func (m *mockReadiness) Err() error  { return m.err }

// --- Helpers ---

func newTestServer(t *testing.T, ports *Ports, settings domain.ServerSettings) *Server {
	t.Helper()
	s, err := NewServer(ports, settings)
	require.NoError(t, err)
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, RouteUploadPDF, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func chatRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, RouteChat, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
