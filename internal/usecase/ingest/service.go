// Package ingest turns uploaded documents into embedded chunks in the store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/chunking"
	"github.com/kailas-cloud/docdex/internal/domain"
	domchunk "github.com/kailas-cloud/docdex/internal/domain/chunk"
	"github.com/kailas-cloud/docdex/internal/metrics"
	"github.com/kailas-cloud/docdex/internal/reader"
)

// Summary reports what ingesting one document produced.
type Summary struct {
	Document string
	Pages    int
	Chunks   int
	Tokens   int
}

// Service extracts, splits, embeds and stores uploaded documents.
type Service struct {
	repo     Repository
	embed    Embedder
	splitter chunking.Splitter
	logger   *zap.Logger
}

// New creates an ingest service. A nil splitter falls back to the recursive
// splitter with default parameters.
func New(repo Repository, embed Embedder, splitter chunking.Splitter, logger *zap.Logger) *Service {
	if splitter == nil {
		splitter = chunking.NewRecursive()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		embed:    embed,
		splitter: splitter,
		logger:   logger,
	}
}

// AddDocument ingests one uploaded file: extract text per page, split into
// chunks, embed the chunk contents in one batch and upsert them into the store.
// Chunk metadata carries the source filename, the chunk index, the page index
// for paginated formats and the document info fields the reader extracted.
func (s *Service) AddDocument(ctx context.Context, filename string, content io.Reader) (Summary, error) {
	docType := typeOf(filename)

	rd, err := reader.ByExtension(filename)
	if err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues(docType, "error").Inc()
		return Summary{}, err
	}

	doc, err := rd.Read(filename, content)
	if err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues(docType, "error").Inc()
		return Summary{}, fmt.Errorf("read document: %w", err)
	}

	pieces, err := s.splitPages(doc)
	if err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues(docType, "error").Inc()
		return Summary{}, err
	}
	if len(pieces) == 0 {
		metrics.IngestDocumentsTotal.WithLabelValues(docType, "error").Inc()
		return Summary{}, fmt.Errorf("%s: %w", filename, domain.ErrEmptyDocument)
	}

	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.text
	}

	batch, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues(docType, "error").Inc()
		return Summary{}, fmt.Errorf("embed chunks: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(batch.TotalTokens)
	if len(batch.Embeddings) != len(pieces) {
		metrics.IngestDocumentsTotal.WithLabelValues(docType, "error").Inc()
		return Summary{}, fmt.Errorf(
			"embedder returned %d vectors for %d chunks", len(batch.Embeddings), len(pieces),
		)
	}

	chunks := make([]domchunk.Chunk, 0, len(pieces))
	for i, p := range pieces {
		meta := map[string]any{
			"source": doc.Name,
			"chunk":  i,
		}
		if p.page >= 0 {
			meta["page"] = p.page
		}
		for k, v := range doc.Info {
			meta[k] = v
		}

		c, err := domchunk.New(uuid.NewString(), p.text, meta, batch.Embeddings[i])
		if err != nil {
			metrics.IngestDocumentsTotal.WithLabelValues(docType, "error").Inc()
			return Summary{}, fmt.Errorf("build chunk %d: %w", i, err)
		}
		chunks = append(chunks, c)
	}

	if err := s.repo.Upsert(ctx, chunks); err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues(docType, "error").Inc()
		return Summary{}, fmt.Errorf("store chunks: %w", err)
	}

	metrics.IngestDocumentsTotal.WithLabelValues(docType, "ok").Inc()
	metrics.IngestChunksTotal.Add(float64(len(chunks)))

	s.logger.Info("Document ingested",
		zap.String("document", doc.Name),
		zap.Int("pages", len(doc.Pages)),
		zap.Int("chunks", len(chunks)),
		zap.Int("tokens", batch.TotalTokens))

	return Summary{
		Document: doc.Name,
		Pages:    len(doc.Pages),
		Chunks:   len(chunks),
		Tokens:   batch.TotalTokens,
	}, nil
}

// piece is one chunk text with its page of origin (-1 for plain text sources).
type piece struct {
	text string
	page int
}

// splitPages splits every extracted page. Pages with no text left after
// normalization are skipped.
func (s *Service) splitPages(doc reader.Document) ([]piece, error) {
	var pieces []piece
	for _, page := range doc.Pages {
		parts, err := s.splitter.Split(page.Text)
		if errors.Is(err, chunking.ErrEmptyText) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("split text: %w", err)
		}
		for _, part := range parts {
			pieces = append(pieces, piece{text: part, page: page.Index})
		}
	}
	return pieces, nil
}

// typeOf maps the filename extension to the ingest metric label.
func typeOf(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf"
	case ".txt", ".md", ".text":
		return "text"
	default:
		return "other"
	}
}
