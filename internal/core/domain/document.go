package domain

// Metadata is the metadata carried by every page, chunk and stored record.
// It is deliberately narrow: loaders may know more, but only the source
// and page number survive into the vector store.
type Metadata struct {
	// Source identifies the uploaded file (its original filename).
	Source string `json:"source,omitempty"`

	// PageNumber is the 1-based page the text came from.
	// Nil when a stored record carries no page information.
	PageNumber *int `json:"pageNumber,omitempty"`
}

// Page returns the page number, or 0 when it is unknown.
func (m Metadata) Page() int {
	if m.PageNumber == nil {
		return 0
	}
	return *m.PageNumber
}

// PageMetadata builds metadata for the given source and page.
func PageMetadata(source string, page int) Metadata {
	return Metadata{Source: source, PageNumber: &page}
}

// Document represents one page of text extracted from a PDF.
// Documents are produced by the loader and consumed by the splitter;
// they are never persisted.
type Document struct {
	// PageContent is the extracted page text.
	PageContent string `json:"pageContent"`

	// Metadata identifies the source file and page.
	Metadata Metadata `json:"metadata"`
}

// Chunk represents a bounded span of a page's text.
// It is the unit that is embedded and stored. Consecutive chunks of the
// same page overlap by the configured amount.
type Chunk struct {
	// PageContent is the chunk text.
	PageContent string `json:"pageContent"`

	// Metadata is copied from the page the chunk came from.
	Metadata Metadata `json:"metadata"`
}

// VectorRecord is a chunk together with its embedding, as written to the
// vector store. The store owns records once written; this system only
// appends them.
type VectorRecord struct {
	// ID is the unique record identifier.
	ID string

	// Values is the embedding vector.
	Values []float32

	// Text is the chunk text stored alongside the vector.
	Text string

	// Metadata identifies the source file and page.
	Metadata Metadata
}

// Passage is a chunk returned by similarity search.
// Ranking is whatever the vector store returned.
type Passage struct {
	// PageContent is the stored chunk text.
	PageContent string `json:"pageContent"`

	// Metadata is the stored metadata; fields may be missing.
	Metadata Metadata `json:"metadata"`

	// Score is the similarity score reported by the store.
	Score float64 `json:"score,omitempty"`
}
