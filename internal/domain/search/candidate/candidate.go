package candidate

// Candidate is one raw vector-search hit before ranking.
// Distance is cosine distance: lower means more similar. Values outside [0,1]
// are carried as-is; the ranker owns score interpretation.
type Candidate struct {
	content  string
	distance float64
	metadata map[string]any
}

// New creates a candidate. Metadata is held by reference and must flow to the
// ranked result untouched.
func New(content string, distance float64, metadata map[string]any) Candidate {
	return Candidate{content: content, distance: distance, metadata: metadata}
}

// Content returns the raw chunk text.
func (c *Candidate) Content() string { return c.content }

// Distance returns the cosine distance reported by the store.
func (c *Candidate) Distance() float64 { return c.distance }

// Metadata returns the chunk metadata.
func (c *Candidate) Metadata() map[string]any { return c.metadata }
