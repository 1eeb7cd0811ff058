package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/chunk"
)

func TestList_HappyPath(t *testing.T) {
	svc, mr := newTestService(t)

	stored := []chunk.Chunk{
		chunk.Reconstruct("c-1", "Jane Doe is an engineer.", map[string]any{"source": "resume.pdf"}, nil, 1700000000),
		chunk.Reconstruct("c-2", "Jane Doe led the project.", nil, nil, 1700000001),
	}
	mr.listFn = func(_ context.Context, cursor string, limit int) ([]chunk.Chunk, string, error) {
		if cursor != "after-this" {
			t.Errorf("cursor = %q", cursor)
		}
		if limit != 5 {
			t.Errorf("limit = %d, want 5", limit)
		}
		return stored, "c-2", nil
	}

	chunks, nextCursor, err := svc.List(context.Background(), "after-this", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].ID() != "c-1" || chunks[1].ID() != "c-2" {
		t.Errorf("chunk IDs = %q, %q", chunks[0].ID(), chunks[1].ID())
	}
	if nextCursor != "c-2" {
		t.Errorf("nextCursor = %q", nextCursor)
	}
}

func TestList_DefaultLimit(t *testing.T) {
	svc, mr := newTestService(t)

	var gotLimit int
	mr.listFn = func(_ context.Context, _ string, limit int) ([]chunk.Chunk, string, error) {
		gotLimit = limit
		return nil, "", nil
	}

	if _, _, err := svc.List(context.Background(), "", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 20 {
		t.Errorf("limit = %d, want default 20", gotLimit)
	}
}

func TestList_ClampsLimit(t *testing.T) {
	svc, mr := newTestService(t)

	var gotLimit int
	mr.listFn = func(_ context.Context, _ string, limit int) ([]chunk.Chunk, string, error) {
		gotLimit = limit
		return nil, "", nil
	}

	if _, _, err := svc.List(context.Background(), "", 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 100 {
		t.Errorf("limit = %d, want clamped 100", gotLimit)
	}
}

func TestList_RepoError(t *testing.T) {
	svc, mr := newTestService(t)
	mr.listFn = func(_ context.Context, _ string, _ int) ([]chunk.Chunk, string, error) {
		return nil, "", errors.New("connection refused")
	}

	_, _, err := svc.List(context.Background(), "", 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "list chunks") {
		t.Errorf("error = %v", err)
	}
}

func TestWithPagination(t *testing.T) {
	mr := &mockRepo{}
	svc := New(mr).WithPagination(5, 10)

	var gotLimit int
	mr.listFn = func(_ context.Context, _ string, limit int) ([]chunk.Chunk, string, error) {
		gotLimit = limit
		return nil, "", nil
	}

	if _, _, err := svc.List(context.Background(), "", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 5 {
		t.Errorf("default limit = %d, want 5", gotLimit)
	}

	if _, _, err := svc.List(context.Background(), "", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 10 {
		t.Errorf("clamped limit = %d, want 10", gotLimit)
	}
}

func TestDelete_HappyPath(t *testing.T) {
	svc, mr := newTestService(t)

	var gotID string
	mr.deleteFn = func(_ context.Context, id string) error {
		gotID = id
		return nil
	}

	if err := svc.Delete(context.Background(), "c-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "c-1" {
		t.Errorf("deleted ID = %q", gotID)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, mr := newTestService(t)
	mr.deleteFn = func(_ context.Context, _ string) error {
		return domain.ErrChunkNotFound
	}

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrChunkNotFound) {
		t.Fatalf("expected ErrChunkNotFound, got %v", err)
	}
}

func TestClear_ReturnsDeleted(t *testing.T) {
	svc, mr := newTestService(t)
	mr.deleteAllFn = func(_ context.Context) (int64, error) {
		return 7, nil
	}

	deleted, err := svc.Clear(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 7 {
		t.Errorf("deleted = %d, want 7", deleted)
	}
}

func TestStats_ReturnsCount(t *testing.T) {
	svc, mr := newTestService(t)
	mr.countFn = func(_ context.Context) (int64, error) {
		return 42, nil
	}

	count, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("count = %d, want 42", count)
	}
}
