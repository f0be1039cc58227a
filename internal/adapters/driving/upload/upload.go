// Package upload turns local files into uploads for the ingestion workflow.
// The CLI, TUI, MCP server and drop-folder watcher all read PDFs from disk.
package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// FromPath reads path as an upload.
// The PDF MIME type is declared only for .pdf names so other files fail validation.
func FromPath(path string) (*domain.UploadedFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, domain.ErrNoFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	file := &domain.UploadedFile{
		Filename: filepath.Base(path),
		Data:     data,
	}
	if IsPDF(path) {
		file.MIMEType = domain.PDFMIMEType
	}
	return file, nil
}

// IsPDF reports whether the path has a .pdf extension, in any case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
