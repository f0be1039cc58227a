package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Input Errors.
	// The messages are returned to clients verbatim.

	// ErrNoFile indicates an upload request carried no file.
	ErrNoFile = errors.New("No PDF file provided") //nolint:stylecheck // client-facing message

	// ErrNotPDF indicates the uploaded file is neither declared nor named as a PDF.
	ErrNotPDF = errors.New("File must be a PDF") //nolint:stylecheck // client-facing message

	// ErrQueryRequired indicates a chat query was empty or whitespace only.
	ErrQueryRequired = errors.New("Query is required") //nolint:stylecheck // client-facing message

	// Initialisation Errors.

	// ErrNotInitialized indicates the AI components are not ready.
	// Requests fail with this error until startup wiring has succeeded.
	ErrNotInitialized = errors.New("AI components not initialized yet") //nolint:stylecheck // client-facing message

	// ErrLLMUnavailable indicates the chat model could not be created.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding provider could not be created.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store could not be created.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)

// ProcessingErrorPrefix prefixes every ingestion failure reported to clients.
const ProcessingErrorPrefix = "Failed to process PDF: "

// ProcessingError reports a downstream failure inside the PDF pipeline.
// Its message is client-facing; the wrapped error keeps the original cause.
type ProcessingError struct {
	// Stage names the pipeline step that failed (write, load, split, embed, upsert, sample).
	Stage string

	// Err is the original failure.
	Err error
}

// NewProcessingError wraps err as a failure of the given pipeline stage.
func NewProcessingError(stage string, err error) *ProcessingError {
	return &ProcessingError{Stage: stage, Err: err}
}

// Error returns "Failed to process PDF: <original message>".
func (e *ProcessingError) Error() string {
	if e.Err == nil {
		return ProcessingErrorPrefix + e.Stage
	}
	return ProcessingErrorPrefix + e.Err.Error()
}

// Unwrap returns the original failure.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err is a client-caused input error.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoFile) ||
		errors.Is(err, ErrNotPDF) ||
		errors.Is(err, ErrQueryRequired) ||
		errors.Is(err, ErrInvalidInput)
}
