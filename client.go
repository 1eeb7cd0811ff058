package docdex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/chunking"
	"github.com/kailas-cloud/docdex/internal/db/postgres"
	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/request"
	chunkrepo "github.com/kailas-cloud/docdex/internal/repository/chunk"
	documentuc "github.com/kailas-cloud/docdex/internal/usecase/document"
	ingestuc "github.com/kailas-cloud/docdex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/docdex/internal/usecase/search"
)

const (
	defaultTable            = "chunks"
	defaultDimensions       = 384
	defaultReadinessTimeout = 10 * time.Second
)

// Client is the embedded docdex entry point: the same ingest, search and
// listing services the HTTP server exposes, wired in-process.
type Client struct {
	store     *postgres.Client
	searchSvc *searchuc.Service
	ingestSvc *ingestuc.Service
	docSvc    *documentuc.Service
}

// Open creates a docdex Client, connects to the database and ensures the
// chunk schema.
func Open(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		table:            defaultTable,
		dimensions:       defaultDimensions,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.databaseURL == "" {
		return nil, errors.New("docdex: database URL required (use WithDatabaseURL)")
	}

	ctx := context.Background()
	store, err := postgres.New(ctx, postgres.Config{URL: cfg.databaseURL})
	if err != nil {
		return nil, fmt.Errorf("docdex: connect: %w", err)
	}
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docdex: database not ready: %w", err)
	}

	c, err := wireClient(ctx, store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store *postgres.Client, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	repo := chunkrepo.New(store.Pool(), cfg.table, cfg.dimensions)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		repo = repo.WithHNSW(chunkrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("docdex: ensure schema: %w", err)
	}

	// Embedder: noop unless configured (Open succeeds, embedding calls error)
	var emb embedder = noopEmbedder{}
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
	}

	policy := searchuc.DefaultPolicy()
	if cfg.thresholdSet {
		policy.Threshold = cfg.threshold
	}
	if cfg.minWords > 0 {
		policy.MinWords = cfg.minWords
	}
	ranker := searchuc.NewRanker(policy, logger)

	var splitter chunking.Splitter
	if cfg.chunkingSet {
		splitter = chunking.NewRecursive(
			chunking.WithChunkSize(cfg.chunkSize),
			chunking.WithOverlap(cfg.overlap),
		)
	}

	return &Client{
		store:     store,
		searchSvc: searchuc.New(repo, emb, ranker, cfg.overfetch, logger),
		ingestSvc: ingestuc.New(repo, emb, splitter, logger),
		docSvc:    documentuc.New(repo),
	}, nil
}

// Close releases the database connection pool.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a ranked document search and returns up to k results, sorted by
// similarity descending. k must be positive; values above MaxK are clamped.
// An empty query and upstream provider failures both yield empty results, not
// an error.
func (c *Client) Search(ctx context.Context, query string, k int) ([]Result, error) {
	req, err := request.New(query, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	results, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromSearchResults(results), nil
}

// AddDocument ingests one document: the format is picked by the filename
// extension, the content read from r.
func (c *Client) AddDocument(ctx context.Context, filename string, r io.Reader) (Summary, error) {
	sum, err := c.ingestSvc.AddDocument(ctx, filename, r)
	if err != nil {
		return Summary{}, fmt.Errorf("add document: %w", err)
	}
	return Summary{
		Document: sum.Document,
		Pages:    sum.Pages,
		Chunks:   sum.Chunks,
		Tokens:   sum.Tokens,
	}, nil
}

// Chunks lists stored chunks one page at a time. Pass the returned cursor to
// fetch the next page; an empty cursor starts from the beginning.
func (c *Client) Chunks(ctx context.Context, cursor string, limit int) ([]Chunk, string, error) {
	chunks, next, err := c.docSvc.List(ctx, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("chunks: %w", err)
	}
	return fromChunks(chunks), next, nil
}

// DeleteChunk removes one chunk by id.
func (c *Client) DeleteChunk(ctx context.Context, id string) error {
	if err := c.docSvc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete chunk: %w", err)
	}
	return nil
}

// Clear removes every stored chunk and reports how many were deleted.
func (c *Client) Clear(ctx context.Context) (int64, error) {
	n, err := c.docSvc.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	return n, nil
}

// Count returns the number of stored chunks.
func (c *Client) Count(ctx context.Context) (int64, error) {
	n, err := c.docSvc.Stats(ctx)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// embedder combines single and batch embedding, the two contracts the search
// and ingest services need.
type embedder interface {
	domain.Embedder
	domain.BatchEmbedder
}

// embedderAdapter wraps the public Embedder to satisfy the internal contracts.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// BatchEmbed forwards to the wrapped embedder's batch call when it has one,
// otherwise embeds one text at a time.
func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		return domain.BatchFallback(ctx, a, texts)
	}
	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on every call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"docdex: embedder not configured (use WithEmbedder)",
	)
}

func (noopEmbedder) BatchEmbed(_ context.Context, _ []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchEmbeddingResult{}, errors.New(
		"docdex: embedder not configured (use WithEmbedder)",
	)
}
