// Package watcher ingests PDFs dropped into a directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/upload"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/research-assistant/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is ingested.
const DefaultDebounce = 500 * time.Millisecond

// queueSize bounds files waiting for the ingestion worker.
const queueSize = 64

// Result is the outcome of ingesting one dropped file.
type Result struct {
	Path   string
	Ingest *domain.IngestResult
	Err    error
}

// Config holds watcher configuration.
type Config struct {
	// Dir is the drop folder. Subdirectories are not watched.
	Dir string

	// Debounce delays ingestion until writes to a file stop.
	Debounce time.Duration

	// IncludeExisting ingests PDFs already in Dir at startup.
	IncludeExisting bool

	// OnResult is called from the worker goroutine after every file.
	OnResult func(Result)
}

// Watcher ingests new PDFs one at a time, in the order they settle.
type Watcher struct {
	cfg       Config
	ingestion driving.IngestionService
	fs        *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer

	queue chan string
	done  chan struct{}
}

// New creates a watcher on cfg.Dir.
func New(cfg Config, ingestion driving.IngestionService) (*Watcher, error) {
	if ingestion == nil {
		return nil, errors.New("watcher: ingestion service is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watcher: %s is not a directory", cfg.Dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", cfg.Dir, err)
	}

	return &Watcher{
		cfg:       cfg,
		ingestion: ingestion,
		fs:        fsw,
		pending:   make(map[string]*time.Timer),
		queue:     make(chan string, queueSize),
		done:      make(chan struct{}),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.cfg.Dir
}

// Run watches until ctx is cancelled. Files still waiting are dropped.
func (w *Watcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.work(ctx)
	}()
	defer func() {
		w.stopTimers()
		close(w.done)
		wg.Wait()
		w.fs.Close()
	}()

	if w.cfg.IncludeExisting {
		if err := w.enqueueExisting(); err != nil {
			logger.Warn("scanning %s: %v", w.cfg.Dir, err)
		}
	}

	logger.Info("watching %s for PDFs", w.cfg.Dir)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && isCandidate(event.Name) {
				w.schedule(event.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// schedule restarts the quiet period for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.enqueue(path)
	})
}

func (w *Watcher) enqueue(path string) {
	select {
	case w.queue <- path:
	case <-w.done:
	}
}

func (w *Watcher) enqueueExisting() error {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(w.cfg.Dir, entry.Name())
		if entry.Type().IsRegular() && isCandidate(path) {
			w.enqueue(path)
		}
	}
	return nil
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) work(ctx context.Context) {
	for {
		select {
		case <-w.done:
			return
		case path := <-w.queue:
			result := w.process(ctx, path)
			if w.cfg.OnResult != nil {
				w.cfg.OnResult(result)
			}
		}
	}
}

func (w *Watcher) process(ctx context.Context, path string) Result {
	file, err := upload.FromPath(path)
	if err != nil {
		logger.Warn("skipping %s: %v", path, err)
		return Result{Path: path, Err: err}
	}

	ingest, err := w.ingestion.IngestPDF(ctx, file)
	if err != nil {
		logger.Error("ingesting %s: %v", path, err)
		return Result{Path: path, Err: err}
	}
	logger.Info("ingested %s: %d pages, %d chunks", file.Filename, ingest.Pages, ingest.Chunks)
	return Result{Path: path, Ingest: ingest}
}

// isCandidate accepts visible .pdf files.
func isCandidate(path string) bool {
	name := filepath.Base(path)
	return !strings.HasPrefix(name, ".") && upload.IsPDF(name)
}
