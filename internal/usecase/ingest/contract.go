package ingest

import (
	"context"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/chunk"
)

// Repository defines the storage contract for ingestion.
type Repository interface {
	Upsert(ctx context.Context, chunks []chunk.Chunk) error
}

// Embedder vectorizes chunk contents in batch.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
