// Package splitter divides page documents into overlapping chunks using
// the recursive character splitter from langchaingo.
package splitter

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// Splitter splits on paragraph, line, then word boundaries, falling back to
// single characters, so no chunk exceeds the configured size.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	inner        textsplitter.RecursiveCharacter
}

// New creates a splitter. Size is measured in characters.
func New(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("splitter: chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("splitter: chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}

	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
	}, nil
}

// SplitDocuments splits every document in order. Chunks copy the metadata
// of their page. Blank pages yield no chunks.
func (s *Splitter) SplitDocuments(ctx context.Context, docs []domain.Document) ([]domain.Chunk, error) {
	chunks := make([]domain.Chunk, 0, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(doc.PageContent) == "" {
			continue
		}

		parts, err := s.inner.SplitText(doc.PageContent)
		if err != nil {
			return nil, fmt.Errorf("split document %d: %w", i, err)
		}
		for _, part := range parts {
			chunks = append(chunks, domain.Chunk{
				PageContent: part,
				Metadata:    doc.Metadata,
			})
		}
	}
	return chunks, nil
}

// ChunkSize returns the maximum chunk length.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// ChunkOverlap returns the overlap between consecutive chunks of a page.
func (s *Splitter) ChunkOverlap() int {
	return s.chunkOverlap
}
