package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/research-assistant/internal/logger"
	"github.com/custodia-labs/research-assistant/internal/metrics"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// Ingestion stages reported in processing errors.
const (
	StageWrite  = "write"
	StageLoad   = "load"
	StageSplit  = "split"
	StageEmbed  = "embed"
	StageUpsert = "upsert"
	StageSample = "sample"
)

// IngestionOptions configures the diagnostic search run after every upsert.
type IngestionOptions struct {
	// SampleQuery is the diagnostic query text.
	SampleQuery string

	// SampleLimit is the number of passages returned by the diagnostic query.
	SampleLimit int
}

// IngestionService indexes uploaded PDFs into the vector store.
type IngestionService struct {
	temp     driven.TempStore
	loader   driven.DocumentLoader
	splitter driven.Splitter
	embedder driven.EmbeddingProvider
	store    driven.VectorStore
	opts     IngestionOptions
	newID    func() string
}

// NewIngestionService creates a new ingestion service.
// Zero-valued options fall back to the deployment defaults.
func NewIngestionService(
	temp driven.TempStore,
	loader driven.DocumentLoader,
	splitter driven.Splitter,
	embedder driven.EmbeddingProvider,
	store driven.VectorStore,
	opts IngestionOptions,
) *IngestionService {
	if opts.SampleQuery == "" {
		opts.SampleQuery = domain.DefaultSampleQuery
	}
	if opts.SampleLimit <= 0 {
		opts.SampleLimit = domain.DefaultSampleLimit
	}
	return &IngestionService{
		temp:     temp,
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		store:    store,
		opts:     opts,
		newID:    uuid.NewString,
	}
}

// IngestPDF validates, loads, splits, embeds and upserts a PDF.
func (s *IngestionService) IngestPDF(ctx context.Context, file *domain.UploadedFile) (*domain.IngestResult, error) {
	logger.Section("PDF Ingestion")
	start := time.Now()

	if err := file.Validate(); err != nil {
		logger.Debug("Rejected upload: %v", err)
		metrics.ObserveIngestion(metrics.ResultInvalid, 0, time.Since(start))
		return nil, err
	}

	filename := filepath.Base(file.Filename)
	logger.Debug("File: %s (%d bytes, %s)", filename, len(file.Data), file.MIMEType)

	path := s.temp.Reserve(filename)
	defer func() {
		if err := s.temp.Remove(path); err != nil {
			metrics.TempCleanupFailed()
			logger.Warn("Failed to remove temp file %s: %v", path, err)
		}
	}()

	result, err := s.ingest(ctx, path, filename, file.Data)
	if err != nil {
		logger.Warn("Ingestion of %s failed: %v", filename, err)
		metrics.ObserveIngestion(metrics.ResultError, 0, time.Since(start))
		return nil, err
	}

	metrics.ObserveIngestion(metrics.ResultOK, result.Chunks, time.Since(start))
	logger.Info("Ingested %s: %d pages, %d chunks", filename, result.Pages, result.Chunks)
	return result, nil
}

func (s *IngestionService) ingest(ctx context.Context, path, filename string, data []byte) (*domain.IngestResult, error) {
	if err := s.temp.Write(path, data); err != nil {
		return nil, domain.NewProcessingError(StageWrite, err)
	}
	logger.Debug("Wrote temp file: %s", path)

	pages, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, domain.NewProcessingError(StageLoad, err)
	}
	logger.Debug("Loaded %d pages", len(pages))

	chunks, err := s.splitter.SplitDocuments(ctx, pages)
	if err != nil {
		return nil, domain.NewProcessingError(StageSplit, err)
	}
	logger.Debug("Split into %d chunks", len(chunks))

	chunks = normaliseMetadata(chunks, filename)

	if err := s.index(ctx, chunks); err != nil {
		return nil, err
	}

	sample, err := s.sample(ctx)
	if err != nil {
		return nil, domain.NewProcessingError(StageSample, err)
	}

	return &domain.IngestResult{
		Filename:     filename,
		Pages:        len(pages),
		Chunks:       len(chunks),
		SampleResult: sample,
		Status:       domain.StatusIngested,
	}, nil
}

// normaliseMetadata strips chunk metadata down to source and page number.
// The source is the original upload name, not the temp path.
func normaliseMetadata(chunks []domain.Chunk, filename string) []domain.Chunk {
	out := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = domain.Chunk{
			PageContent: c.PageContent,
			Metadata: domain.Metadata{
				Source:     filename,
				PageNumber: c.Metadata.PageNumber,
			},
		}
	}
	return out
}

// index embeds every chunk and upserts the records in one store call.
func (s *IngestionService) index(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		logger.Debug("No chunks to index")
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.PageContent
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return domain.NewProcessingError(StageEmbed, err)
	}
	if len(vectors) != len(chunks) {
		return domain.NewProcessingError(StageEmbed,
			fmt.Errorf("embedding returned %d vectors for %d chunks", len(vectors), len(chunks)))
	}

	records := make([]domain.VectorRecord, len(chunks))
	for i, c := range chunks {
		records[i] = domain.VectorRecord{
			ID:       s.newID(),
			Values:   vectors[i],
			Text:     c.PageContent,
			Metadata: c.Metadata,
		}
	}

	if err := s.store.Upsert(ctx, records); err != nil {
		return domain.NewProcessingError(StageUpsert, err)
	}
	logger.Debug("Upserted %d records", len(records))
	return nil
}

// sample runs the diagnostic similarity search.
func (s *IngestionService) sample(ctx context.Context) ([]domain.Passage, error) {
	vec, err := s.embedder.EmbedQuery(ctx, s.opts.SampleQuery)
	if err != nil {
		return nil, err
	}
	passages, err := s.store.Search(ctx, vec, s.opts.SampleLimit)
	if err != nil {
		return nil, err
	}
	if passages == nil {
		passages = []domain.Passage{}
	}
	logger.Debug("Sample query %q returned %d passages", s.opts.SampleQuery, len(passages))
	return passages, nil
}
