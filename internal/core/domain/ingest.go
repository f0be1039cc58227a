package domain

import "strings"

// PDFMIMEType is the declared content type accepted for uploads.
const PDFMIMEType = "application/pdf"

// StatusIngested is the status reported for a successful ingestion.
const StatusIngested = "ingested"

// UploadedFile is a PDF received from a client.
// It exists only for the duration of one ingestion request.
type UploadedFile struct {
	// Filename is the original client-side filename.
	Filename string

	// MIMEType is the declared content type.
	MIMEType string

	// Data is the raw file content.
	Data []byte
}

// Validate checks the file is present and looks like a PDF.
// A file is accepted when its MIME type is application/pdf OR its
// filename ends in .pdf (case-insensitive). Content is not inspected here;
// an empty or corrupt PDF fails later when it is loaded.
func (f *UploadedFile) Validate() error {
	if f == nil {
		return ErrNoFile
	}
	if f.MIMEType != PDFMIMEType && !strings.HasSuffix(strings.ToLower(f.Filename), ".pdf") {
		return ErrNotPDF
	}
	return nil
}

// IngestResult reports the outcome of indexing one uploaded file.
type IngestResult struct {
	Filename string `json:"filename"`
	Pages    int    `json:"pages"`
	Chunks   int    `json:"chunks"`

	// SampleResult is the outcome of the post-upsert diagnostic search.
	// It is informational only.
	SampleResult []Passage `json:"sampleResult"`

	Status string `json:"status"`
}
