package chi

import (
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/docdex/internal/domain/chunk"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
)

// Error codes returned in the error envelope.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeUnauthorized           = "unauthorized"
	codeChunkNotFound          = "chunk_not_found"
	codeUnsupportedFile        = "unsupported_file"
	codeEmptyDocument          = "empty_document"
	codeRateLimited            = "rate_limited"
	codeEmbeddingQuotaExceeded = "embedding_quota_exceeded"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeInternalError          = "internal_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type searchRequest struct {
	Query string `json:"query"`
	K     *int   `json:"k,omitempty"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Count   int                `json:"count"`
}

type searchResultItem struct {
	Content    string         `json:"content"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Source     *sourceInfo    `json:"source,omitempty"`
}

// sourceInfo is the presentation view of chunk provenance metadata.
type sourceInfo struct {
	File    string `json:"file,omitempty"`
	Page    *int   `json:"page,omitempty"`
	Creator string `json:"creator,omitempty"`
	Created string `json:"created,omitempty"`
}

type uploadResponse struct {
	Document string `json:"document"`
	Chunks   int    `json:"chunks"`
}

type chunkItem struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt int64          `json:"created_at,omitempty"`
}

type chunkListResponse struct {
	Chunks     []chunkItem `json:"chunks"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type clearResponse struct {
	Deleted int64 `json:"deleted"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func searchResultToDTO(r *result.Result) searchResultItem {
	return searchResultItem{
		Content:    r.Content(),
		Similarity: r.Similarity(),
		Metadata:   r.Metadata(),
		Source:     sourceFromMetadata(r.Metadata()),
	}
}

// sourceFromMetadata extracts the human-facing provenance view: file base
// name, 1-based page, creator and a readable creation date. Returns nil when
// the metadata carries none of those fields.
func sourceFromMetadata(meta map[string]any) *sourceInfo {
	if len(meta) == 0 {
		return nil
	}

	info := &sourceInfo{}
	populated := false

	if name, ok := meta["source"].(string); ok && name != "" {
		info.File = filepath.Base(name)
		populated = true
	}
	if page, ok := metaInt(meta["page"]); ok {
		p := page + 1
		info.Page = &p
		populated = true
	}
	if creator, ok := meta["creator"].(string); ok && creator != "" {
		info.Creator = creator
		populated = true
	}
	if raw, ok := meta["creationdate"].(string); ok {
		if date := formatPDFDate(raw); date != "" {
			info.Created = date
			populated = true
		}
	}

	if !populated {
		return nil
	}
	return info
}

// metaInt reads an integer metadata value. Values hydrated from JSONB arrive
// as float64, in-process values stay int.
func metaInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// formatPDFDate converts a PDF date string (D:YYYYMMDDHHmmSS...) to YYYY-MM-DD.
func formatPDFDate(raw string) string {
	s := strings.TrimPrefix(raw, "D:")
	if len(s) < 8 {
		return ""
	}
	for _, r := range s[:8] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:8]
}

const previewRunes = 200

// contentPreview truncates chunk content for list responses.
func contentPreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRunes {
		return content
	}
	return string(runes[:previewRunes]) + "…"
}

func chunkToDTO(c *chunk.Chunk) chunkItem {
	return chunkItem{
		ID:        c.ID(),
		Content:   contentPreview(c.Content()),
		Metadata:  c.Metadata(),
		CreatedAt: c.CreatedAt(),
	}
}
