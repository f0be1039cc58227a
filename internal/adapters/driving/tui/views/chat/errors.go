package chat

import "errors"

// ErrNoIngestionService is returned when /upload is used without an ingestion service.
var ErrNoIngestionService = errors.New("uploads are not available in this session")
