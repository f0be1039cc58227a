package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/research-assistant/internal/metrics"
)

// Ensure Readiness implements the interfaces.
var (
	_ driving.IngestionService  = (*Readiness)(nil)
	_ driving.ChatService       = (*Readiness)(nil)
	_ driving.ReadinessReporter = (*Readiness)(nil)
)

// ErrAlreadyReady is returned when capabilities are published twice.
var ErrAlreadyReady = errors.New("readiness already set")

// Capabilities are the workflows available once the AI components exist.
type Capabilities struct {
	Ingestion driving.IngestionService
	Chat      driving.ChatService
}

// Readiness gates requests on startup wiring.
// It is constructed once, handed to every driving adapter, and set at most
// once. Until then every workflow call fails with domain.ErrNotInitialized.
type Readiness struct {
	caps atomic.Pointer[Capabilities]

	mu      sync.RWMutex
	initErr error
}

// NewReadiness returns a Readiness in the not-ready state.
func NewReadiness() *Readiness {
	metrics.SetReady(false)
	return &Readiness{}
}

// MarkReady publishes the capabilities. It can succeed only once.
func (r *Readiness) MarkReady(caps Capabilities) error {
	if caps.Ingestion == nil || caps.Chat == nil {
		return errors.New("readiness: capabilities incomplete")
	}
	if !r.caps.CompareAndSwap(nil, &caps) {
		return ErrAlreadyReady
	}
	r.mu.Lock()
	r.initErr = nil
	r.mu.Unlock()
	metrics.SetReady(true)
	return nil
}

// MarkFailed records why initialisation failed. The state stays not-ready.
func (r *Readiness) MarkFailed(err error) {
	if r.Ready() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initErr = err
}

// Ready returns true once capabilities are published.
func (r *Readiness) Ready() bool {
	return r.caps.Load() != nil
}

// Err returns the initialisation failure, if any.
func (r *Readiness) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initErr
}

// IngestPDF delegates to the ingestion workflow once ready.
func (r *Readiness) IngestPDF(ctx context.Context, file *domain.UploadedFile) (*domain.IngestResult, error) {
	caps := r.caps.Load()
	if caps == nil {
		return nil, domain.ErrNotInitialized
	}
	return caps.Ingestion.IngestPDF(ctx, file)
}

// Ask delegates to the chat workflow once ready.
func (r *Readiness) Ask(ctx context.Context, q domain.ChatQuery) (*domain.ChatResponse, error) {
	caps := r.caps.Load()
	if caps == nil {
		return nil, domain.ErrNotInitialized
	}
	return caps.Chat.Ask(ctx, q)
}
