package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

type fakeIngestion struct {
	mu    sync.Mutex
	files []string
	err   error
}

func (f *fakeIngestion) IngestPDF(_ context.Context, file *domain.UploadedFile) (*domain.IngestResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, file.Filename)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.IngestResult{Filename: file.Filename, Pages: 1, Chunks: 2, Status: domain.StatusIngested}, nil
}

func (f *fakeIngestion) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.files...)
}

// startWatcher runs a watcher and returns its results channel.
func startWatcher(t *testing.T, cfg Config, ingestion *fakeIngestion) <-chan Result {
	t.Helper()
	results := make(chan Result, 16)
	cfg.Debounce = 20 * time.Millisecond
	cfg.OnResult = func(r Result) { results <- r }

	w, err := New(cfg, ingestion)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-errc)
	})
	return results
}

func waitResult(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for ingestion")
		return Result{}
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Dir: t.TempDir()}, nil)
	assert.Error(t, err)

	_, err = New(Config{Dir: filepath.Join(t.TempDir(), "missing")}, &fakeIngestion{})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a.pdf")
	writeFile(t, file)
	_, err = New(Config{Dir: file}, &fakeIngestion{})
	assert.Error(t, err)
}

func TestNew_DefaultDebounce(t *testing.T) {
	dir := t.TempDir()
	w, err := New(Config{Dir: dir}, &fakeIngestion{})
	require.NoError(t, err)
	defer w.fs.Close()

	assert.Equal(t, DefaultDebounce, w.cfg.Debounce)
	assert.Equal(t, dir, w.Dir())
}

func TestWatcher_IngestsNewPDF(t *testing.T) {
	dir := t.TempDir()
	ingestion := &fakeIngestion{}
	results := startWatcher(t, Config{Dir: dir}, ingestion)

	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, ".hidden.pdf"))
	writeFile(t, filepath.Join(dir, "ldm.pdf"))

	r := waitResult(t, results)
	require.NoError(t, r.Err)
	assert.Equal(t, filepath.Join(dir, "ldm.pdf"), r.Path)
	assert.Equal(t, 2, r.Ingest.Chunks)
	assert.Equal(t, []string{"ldm.pdf"}, ingestion.names())
}

func TestWatcher_DebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()
	ingestion := &fakeIngestion{}
	results := startWatcher(t, Config{Dir: dir}, ingestion)

	path := filepath.Join(dir, "paper.PDF")
	for i := 0; i < 3; i++ {
		writeFile(t, path)
	}

	waitResult(t, results)
	time.Sleep(100 * time.Millisecond)
	assert.Len(t, ingestion.names(), 1)
}

func TestWatcher_IncludeExisting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "old.pdf"))
	ingestion := &fakeIngestion{}

	results := startWatcher(t, Config{Dir: dir, IncludeExisting: true}, ingestion)

	r := waitResult(t, results)
	assert.Equal(t, filepath.Join(dir, "old.pdf"), r.Path)
}

func TestWatcher_ReportsIngestionErrors(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	results := startWatcher(t, Config{Dir: dir}, &fakeIngestion{err: boom})

	writeFile(t, filepath.Join(dir, "bad.pdf"))

	r := waitResult(t, results)
	assert.ErrorIs(t, r.Err, boom)
	assert.Nil(t, r.Ingest)
}

func TestIsCandidate(t *testing.T) {
	assert.True(t, isCandidate("/x/a.pdf"))
	assert.True(t, isCandidate("/x/A.PDF"))
	assert.False(t, isCandidate("/x/.a.pdf"))
	assert.False(t, isCandidate("/x/a.txt"))
}
