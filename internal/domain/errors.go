package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrChunkNotFound signals a missing stored chunk.
	ErrChunkNotFound = errors.New("chunk not found")
	// ErrUnsupportedFile signals a file type no reader can handle.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrEmptyDocument signals a document with no extractable text.
	ErrEmptyDocument = errors.New("document has no extractable text")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding token budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// UnsupportedFileError wraps ErrUnsupportedFile with the offending extension.
type UnsupportedFileError struct {
	Ext string
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedFile.Error(), e.Ext)
}

func (e *UnsupportedFileError) Unwrap() error { return ErrUnsupportedFile }

// NewUnsupportedFile creates an unsupported file type error.
func NewUnsupportedFile(ext string) error {
	return &UnsupportedFileError{Ext: ext}
}
