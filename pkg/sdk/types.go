package docdex

// SearchResult is a single ranked search hit.
type SearchResult struct {
	Content    string         `json:"content"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Source     *SourceInfo    `json:"source,omitempty"`
}

// SourceInfo points back at the document a result came from.
type SourceInfo struct {
	File    string `json:"file,omitempty"`
	Page    *int   `json:"page,omitempty"`
	Creator string `json:"creator,omitempty"`
	Created string `json:"created,omitempty"`
}

// UploadSummary reports what ingesting one document produced.
type UploadSummary struct {
	Document string `json:"document"`
	Chunks   int    `json:"chunks"`
}

// Chunk is one stored fragment of an ingested document.
type Chunk struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt int64          `json:"created_at,omitempty"`
}

// ChunkPage is one page of the stored chunk listing. Pass NextCursor to the
// next Chunks call; an empty cursor means the listing is exhausted.
type ChunkPage struct {
	Chunks     []Chunk `json:"chunks"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type searchRequest struct {
	Query string `json:"query"`
	K     *int   `json:"k,omitempty"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

type clearResponse struct {
	Deleted int64 `json:"deleted"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
