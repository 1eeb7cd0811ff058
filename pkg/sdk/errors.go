package docdex

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/docdex/internal/domain"
)

// Sentinel errors matching the service error codes.
// Use errors.Is() to check.
var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrChunkNotFound          = domain.ErrChunkNotFound
	ErrUnsupportedFile        = domain.ErrUnsupportedFile
	ErrEmptyDocument          = domain.ErrEmptyDocument
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)

// sentinelByCode maps wire error codes to sentinels. Codes without a mapping
// (bad_request, validation_failed, internal_error) surface as a bare APIError.
var sentinelByCode = map[string]error{
	"unauthorized":             ErrUnauthorized,
	"chunk_not_found":          ErrChunkNotFound,
	"unsupported_file":         ErrUnsupportedFile,
	"empty_document":           ErrEmptyDocument,
	"rate_limited":             ErrRateLimited,
	"embedding_quota_exceeded": ErrEmbeddingQuotaExceeded,
	"embedding_provider_error": ErrEmbeddingProviderError,
}

// APIError is a non-2xx response decoded from the service error envelope.
type APIError struct {
	Status  int    // HTTP status code
	Code    string // machine-readable code from the envelope
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("docdex: %s (%s, http %d)", e.Message, e.Code, e.Status)
}

// Unwrap maps the wire code to its sentinel so errors.Is works across the
// HTTP boundary.
func (e *APIError) Unwrap() error {
	return sentinelByCode[e.Code]
}
