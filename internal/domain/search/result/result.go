package result

// Result is a single ranked search hit.
type Result struct {
	content    string
	similarity float64
	metadata   map[string]any
}

// New creates a search result. Similarity is the ranker's derived score and is
// deliberately not clamped to [0,100]. Metadata is the originating candidate's
// map, passed through unchanged.
func New(content string, similarity float64, metadata map[string]any) Result {
	return Result{content: content, similarity: similarity, metadata: metadata}
}

// Content returns the (possibly refined) result content.
func (r *Result) Content() string { return r.content }

// Similarity returns the derived relevance score.
func (r *Result) Similarity() float64 { return r.similarity }

// Metadata returns the originating chunk metadata.
func (r *Result) Metadata() map[string]any { return r.metadata }
