package docdex

import (
	"context"

	"github.com/kailas-cloud/docdex/internal/domain/chunk"
	"github.com/kailas-cloud/docdex/internal/domain/search/request"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
)

// DefaultK is the standard result count for Search. The client does not apply
// it implicitly: Search rejects non-positive k.
const DefaultK = request.DefaultK

// MaxK is the upper bound on requested results; larger values are clamped.
const MaxK = request.MaxK

// Result is one ranked search hit.
type Result struct {
	Content    string
	Similarity float64
	Metadata   map[string]any
}

// Summary reports what ingesting one document produced.
type Summary struct {
	Document string
	Pages    int
	Chunks   int
	Tokens   int
}

// Chunk is one stored fragment of an ingested document.
type Chunk struct {
	ID        string
	Content   string
	Metadata  map[string]any
	CreatedAt int64
}

// EmbeddingResult carries one embedding vector and its token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate
// token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text. Implement it to plug any embedding provider into
// the client.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder embeds many texts in one call. Optional: embedders that also
// implement it get one provider round-trip per ingested document instead of
// one per chunk.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

func fromSearchResults(results []result.Result) []Result {
	out := make([]Result, len(results))
	for i := range results {
		r := &results[i]
		out[i] = Result{
			Content:    r.Content(),
			Similarity: r.Similarity(),
			Metadata:   r.Metadata(),
		}
	}
	return out
}

func fromChunks(chunks []chunk.Chunk) []Chunk {
	out := make([]Chunk, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		out[i] = Chunk{
			ID:        c.ID(),
			Content:   c.Content(),
			Metadata:  c.Metadata(),
			CreatedAt: c.CreatedAt(),
		}
	}
	return out
}
