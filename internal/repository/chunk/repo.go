// Package chunk persists document chunks and their embeddings in Postgres
// with the pgvector extension.
package chunk

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/docdex/internal/domain"
	domchunk "github.com/kailas-cloud/docdex/internal/domain/chunk"
	"github.com/kailas-cloud/docdex/internal/domain/search/candidate"
)

// SQL templates. The table name and vector dimension come from configuration
// and are baked in at construction.
const (
	sqlCreateExtension = `CREATE EXTENSION IF NOT EXISTS vector`

	sqlCreateTable = `
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			embedding vector(%d),
			metadata JSONB,
			created_at BIGINT
		)`

	sqlCreateIndex = `
		CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s
		USING hnsw (embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d)`

	sqlUpsertChunk = `
		INSERT INTO %s (id, content, embedding, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata`

	sqlSearchNearest = `
		SELECT content, metadata, embedding <=> $1 AS distance
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`

	sqlListAfter  = `SELECT id, content, metadata, created_at FROM %s WHERE id > $1 ORDER BY id LIMIT $2`
	sqlListFirst  = `SELECT id, content, metadata, created_at FROM %s ORDER BY id LIMIT $1`
	sqlDeleteByID = `DELETE FROM %s WHERE id = $1`
	sqlDeleteAll  = `DELETE FROM %s`
	sqlCount      = `SELECT count(*) FROM %s`
)

// pool is the consumer interface over pgx (ISP; *pgxpool.Pool satisfies it).
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HNSWConfig tunes the vector index build.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements chunk persistence over pgvector.
type Repo struct {
	pool       pool
	table      string
	dimensions int
	hnsw       HNSWConfig
}

// New creates a chunk repository for the given table and vector dimension.
func New(p pool, table string, dimensions int) *Repo {
	return &Repo{
		pool:       p,
		table:      table,
		dimensions: dimensions,
		hnsw:       HNSWConfig{M: 32, EFConstruct: 400},
	}
}

// WithHNSW overrides vector index build parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureSchema enables the vector extension and creates the chunk table and
// HNSW cosine index if missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, sqlCreateExtension); err != nil {
		return fmt.Errorf("enable vector extension: %w", err)
	}

	createTable := fmt.Sprintf(sqlCreateTable, r.table, r.dimensions)
	if _, err := r.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}

	createIndex := fmt.Sprintf(sqlCreateIndex, r.table, r.table, r.hnsw.M, r.hnsw.EFConstruct)
	if _, err := r.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("create vector index: %w", err)
	}

	return nil
}

// Upsert writes chunks with their embeddings. Vector dimensions are checked
// against the table definition before touching the database.
func (r *Repo) Upsert(ctx context.Context, chunks []domchunk.Chunk) error {
	upsert := fmt.Sprintf(sqlUpsertChunk, r.table)

	for i := range chunks {
		c := &chunks[i]
		if len(c.Vector()) != r.dimensions {
			return fmt.Errorf("chunk %s: %w: expected %d, got %d",
				c.ID(), domain.ErrVectorDimMismatch, r.dimensions, len(c.Vector()))
		}

		meta, err := metadataToJSON(c.Metadata())
		if err != nil {
			return fmt.Errorf("chunk %s: marshal metadata: %w", c.ID(), err)
		}

		createdAt := c.CreatedAt()
		if createdAt == 0 {
			createdAt = time.Now().Unix()
		}

		vec := pgvector.NewVector(c.Vector())
		if _, err := r.pool.Exec(ctx, upsert, c.ID(), c.Content(), vec, meta, createdAt); err != nil {
			return fmt.Errorf("upsert chunk %s: %w", c.ID(), err)
		}
	}
	return nil
}

// SearchNearest returns the closest chunks by cosine distance, ascending.
func (r *Repo) SearchNearest(ctx context.Context, vector []float32, limit int) ([]candidate.Candidate, error) {
	if len(vector) != r.dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrVectorDimMismatch, r.dimensions, len(vector))
	}
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf(sqlSearchNearest, r.table)
	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("search nearest: %w", err)
	}
	defer rows.Close()

	var candidates []candidate.Candidate
	for rows.Next() {
		var (
			content  string
			metaJSON []byte
			distance float64
		)
		if err := rows.Scan(&content, &metaJSON, &distance); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		meta, err := jsonToMetadata(metaJSON)
		if err != nil {
			return nil, fmt.Errorf("parse candidate metadata: %w", err)
		}

		candidates = append(candidates, candidate.New(content, distance, meta))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}

// List returns chunks ordered by id, starting after the cursor. The returned
// cursor is empty when no further page exists.
func (r *Repo) List(ctx context.Context, cursor string, limit int) ([]domchunk.Chunk, string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows pgx.Rows
		err  error
	)
	if cursor == "" {
		rows, err = r.pool.Query(ctx, fmt.Sprintf(sqlListFirst, r.table), limit+1)
	} else {
		rows, err = r.pool.Query(ctx, fmt.Sprintf(sqlListAfter, r.table), cursor, limit+1)
	}
	if err != nil {
		return nil, "", fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domchunk.Chunk
	for rows.Next() {
		var (
			id        string
			content   string
			metaJSON  []byte
			createdAt int64
		)
		if err := rows.Scan(&id, &content, &metaJSON, &createdAt); err != nil {
			return nil, "", fmt.Errorf("scan chunk: %w", err)
		}

		meta, err := jsonToMetadata(metaJSON)
		if err != nil {
			return nil, "", fmt.Errorf("parse chunk metadata: %w", err)
		}

		chunks = append(chunks, domchunk.Reconstruct(id, content, meta, nil, createdAt))
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate chunks: %w", err)
	}

	nextCursor := ""
	if len(chunks) > limit {
		chunks = chunks[:limit]
		nextCursor = chunks[len(chunks)-1].ID()
	}

	return chunks, nextCursor, nil
}

// Delete removes one chunk by id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(sqlDeleteByID, r.table), id)
	if err != nil {
		return fmt.Errorf("delete chunk %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChunkNotFound
	}
	return nil
}

// DeleteAll removes every chunk and reports how many were deleted.
func (r *Repo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(sqlDeleteAll, r.table))
	if err != nil {
		return 0, fmt.Errorf("delete all chunks: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the total number of stored chunks.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(sqlCount, r.table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}
