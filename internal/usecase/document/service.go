// Package document manages the stored chunk library.
package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/docdex/internal/domain/chunk"
)

// Service handles listing and removal of stored chunks.
type Service struct {
	repo            Repository
	defaultPageSize int
	maxPageSize     int
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{
		repo:            repo,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// List returns a paginated list of stored chunks.
func (s *Service) List(ctx context.Context, cursor string, limit int) ([]chunk.Chunk, string, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	chunks, nextCursor, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list chunks: %w", err)
	}
	return chunks, nextCursor, nil
}

// Delete removes one chunk by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete chunk: %w", err)
	}
	return nil
}

// Clear removes every stored chunk and reports how many were deleted.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear chunks: %w", err)
	}
	return deleted, nil
}

// Stats returns the total number of stored chunks.
func (s *Service) Stats(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}
