package document

import (
	"context"

	"github.com/kailas-cloud/docdex/internal/domain/chunk"
)

// Repository defines the storage contract for stored chunks.
type Repository interface {
	List(ctx context.Context, cursor string, limit int) (chunks []chunk.Chunk, nextCursor string, err error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (deleted int64, err error)
	Count(ctx context.Context) (int64, error)
}
