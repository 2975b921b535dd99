package entity

import "errors"

// Domain errors
var (
	// Index build errors
	ErrIndexBuildFailed   = errors.New("index build failed")
	ErrDocumentUnreadable = errors.New("document is unreadable")
	ErrEmptyDocument      = errors.New("document has no text")
	ErrUnsupportedSource  = errors.New("unsupported document type")

	// Query pipeline errors
	ErrIndexUnavailable       = errors.New("index is unavailable")
	ErrEmbeddingModelMismatch = errors.New("index was built with a different embedding model")
	ErrEmbeddingFailed        = errors.New("embedding request failed")
	ErrRetrievalFailed        = errors.New("retrieval failed")
	ErrGenerationFailed       = errors.New("generation request failed")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrorKind names the pipeline stage an error belongs to. It is only ever
// logged, clients see a generic message.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmbeddingModelMismatch):
		return "index_mismatch"
	case errors.Is(err, ErrIndexUnavailable):
		return "index_unavailable"
	case errors.Is(err, ErrEmbeddingFailed):
		return "embedding"
	case errors.Is(err, ErrRetrievalFailed):
		return "retrieval"
	case errors.Is(err, ErrGenerationFailed):
		return "generation"
	case errors.Is(err, ErrIndexBuildFailed):
		return "index_build"
	default:
		return "internal"
	}
}
