package chunk

import (
	"fmt"
)

// MaxContentSize is the maximum chunk content size in bytes.
const MaxContentSize = 65536 // 64KB

// Chunk is one stored fragment of an ingested document (immutable value object).
type Chunk struct {
	id        string
	content   string
	metadata  map[string]any
	vector    []float32
	createdAt int64
}

// New validates and creates a Chunk.
// ID: non-empty (UUID assigned at ingest). Content: non-empty, max 64KB.
func New(id, content string, metadata map[string]any, vector []float32) (Chunk, error) {
	if id == "" {
		return Chunk{}, fmt.Errorf("chunk ID is required")
	}
	if content == "" {
		return Chunk{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Chunk{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}

	return Chunk{
		id:       id,
		content:  content,
		metadata: cloneMetadata(metadata),
		vector:   vector,
	}, nil
}

// Reconstruct creates a Chunk without validation (storage hydration).
func Reconstruct(id, content string, metadata map[string]any, vector []float32, createdAt int64) Chunk {
	return Chunk{id: id, content: content, metadata: metadata, vector: vector, createdAt: createdAt}
}

// ID returns the chunk identifier.
func (c *Chunk) ID() string { return c.id }

// Content returns the chunk text content.
func (c *Chunk) Content() string { return c.content }

// Metadata returns the chunk metadata fields.
func (c *Chunk) Metadata() map[string]any { return c.metadata }

// Vector returns the embedding vector.
func (c *Chunk) Vector() []float32 { return c.vector }

// CreatedAt returns the storage timestamp in unix seconds (zero before persistence).
func (c *Chunk) CreatedAt() int64 { return c.createdAt }

// WithVector returns a copy with the given vector set.
func (c *Chunk) WithVector(v []float32) Chunk {
	return Chunk{id: c.id, content: c.content, metadata: c.metadata, vector: v, createdAt: c.createdAt}
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
