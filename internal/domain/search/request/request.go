package request

import (
	"fmt"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1000
	DefaultK       = 3
	MaxK           = 100
)

// Request is a validated search query.
type Request struct {
	query string
	k     int
}

// New validates and normalizes search parameters.
// K must be positive (callers apply DefaultK before construction when the
// field was omitted); values above MaxK are clamped. An empty query is legal
// here: the search service answers it with an empty result set.
func New(query string, k int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if k <= 0 {
		return Request{}, fmt.Errorf("k must be positive, got %d", k)
	}
	if k > MaxK {
		k = MaxK
	}

	return Request{query: query, k: k}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// K returns the maximum number of results to return.
func (r *Request) K() int { return r.k }
