// Package tempfile keeps uploaded files on local disk while they are indexed.
package tempfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TempStore = (*Store)(nil)

// Store writes files under a single directory.
// Names are "temp_<unix millis>_<short id>_<original name>".
type Store struct {
	dir   string
	now   func() time.Time
	newID func() string
}

// New creates a store rooted at dir, or the OS temp dir when dir is empty.
// The directory is created if missing.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Store{
		dir: dir,
		now: time.Now,
		newID: func() string {
			return uuid.NewString()[:8]
		},
	}, nil
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Reserve returns a fresh path for filename. Only the base name of
// filename is used.
func (s *Store) Reserve(filename string) string {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	return filepath.Join(s.dir, fmt.Sprintf("temp_%d_%s_%s", s.now().UnixMilli(), s.newID(), name))
}

// Write stores data at path, which must be inside the store's directory.
func (s *Store) Write(path string, data []byte) error {
	if err := s.owns(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Remove deletes path. A path that does not exist is not an error.
func (s *Store) Remove(path string) error {
	if err := s.owns(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) owns(path string) error {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		return fmt.Errorf("tempfile: %s is outside %s", path, s.dir)
	}
	return nil
}
