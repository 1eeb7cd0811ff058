package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/docdex/internal/domain/chunk"
)

// mockRepo implements the Repository consumer interface for tests.
type mockRepo struct {
	listFn      func(ctx context.Context, cursor string, limit int) ([]chunk.Chunk, string, error)
	deleteFn    func(ctx context.Context, id string) error
	deleteAllFn func(ctx context.Context) (int64, error)
	countFn     func(ctx context.Context) (int64, error)
}

func (m *mockRepo) List(ctx context.Context, cursor string, limit int) ([]chunk.Chunk, string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, cursor, limit)
	}
	return nil, "", nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepo) DeleteAll(ctx context.Context) (int64, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx)
	}
	return 0, nil
}

func (m *mockRepo) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	mr := &mockRepo{}
	return New(mr), mr
}
