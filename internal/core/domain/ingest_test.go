package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadedFile_Validate(t *testing.T) {
	pdf := []byte("%PDF-1.4")

	tests := []struct {
		name string
		file *UploadedFile
		want error
	}{
		{"nil file", nil, ErrNoFile},
		{"empty pdf is left to the loader", &UploadedFile{Filename: "a.pdf", MIMEType: PDFMIMEType}, nil},
		{"empty non-pdf", &UploadedFile{Filename: "notes.txt", MIMEType: "text/plain"}, ErrNotPDF},
		{"pdf mime and name", &UploadedFile{Filename: "a.pdf", MIMEType: PDFMIMEType, Data: pdf}, nil},
		{"pdf mime wrong name", &UploadedFile{Filename: "scan.bin", MIMEType: PDFMIMEType, Data: pdf}, nil},
		{"pdf name wrong mime", &UploadedFile{Filename: "Paper.PDF", MIMEType: "application/octet-stream", Data: pdf}, nil},
		{"wrong mime and name", &UploadedFile{Filename: "notes.txt", MIMEType: "text/plain", Data: pdf}, ErrNotPDF},
		{"pdf inside name only", &UploadedFile{Filename: "a.pdf.txt", MIMEType: "text/plain", Data: pdf}, ErrNotPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.file.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
