// Package pdf loads PDF files into page documents.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/research-assistant/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader extracts plain text per page with github.com/ledongthuc/pdf.
type Loader struct{}

// New creates a PDF loader.
func New() *Loader {
	return &Loader{}
}

// Load returns one document per page that carries text.
// Pages without text are skipped; page numbers keep their position in
// the file. Metadata.Source is the file's base name.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}

	reader, err := newReader(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	source := filepath.Base(path)
	pageCount := reader.NumPage()
	docs := make([]domain.Document, 0, pageCount)

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract text from page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			logger.Debug("pdf: page %d of %s has no text", i, source)
			continue
		}

		docs = append(docs, domain.Document{
			PageContent: text,
			Metadata:    domain.PageMetadata(source, i),
		})
	}

	return docs, nil
}

// newReader wraps pdf.NewReader, which panics on some malformed input.
func newReader(file *os.File, size int64) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	return pdf.NewReader(file, size)
}
