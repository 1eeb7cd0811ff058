package chunk

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domchunk "github.com/kailas-cloud/docdex/internal/domain/chunk"
)

// mockPool implements the consumer interface for tests.
type mockPool struct {
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (m *mockPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, args...)
	}
	return pgconn.NewCommandTag(""), nil
}

func (m *mockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return &fakeRows{}, nil
}

func (m *mockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &fakeRow{values: []any{int64(0)}}
}

// fakeRows is a canned pgx.Rows backed by in-memory values.
type fakeRows struct {
	rows    [][]any
	idx     int
	rowsErr error
	scanErr error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.rowsErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	return scanInto(r.rows[r.idx-1], dest)
}

// fakeRow is a canned pgx.Row.
type fakeRow struct {
	values []any
	err    error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

func scanInto(src []any, dest []any) error {
	if len(dest) != len(src) {
		return fmt.Errorf("scan: want %d destinations, got %d", len(src), len(dest))
	}
	for i, v := range src {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *[]byte:
			*d = v.([]byte)
		case *float64:
			*d = v.(float64)
		case *int64:
			*d = v.(int64)
		default:
			return fmt.Errorf("scan: unsupported destination %T", dest[i])
		}
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockPool) {
	t.Helper()
	mp := &mockPool{}
	repo := New(mp, "chunks", 4)
	return repo, mp
}

func testChunk(t *testing.T, id string) domchunk.Chunk {
	t.Helper()
	c, err := domchunk.New(id, "Jane Doe is an engineer.",
		map[string]any{"source": "resume.pdf", "page": 0},
		[]float32{0.1, 0.2, 0.3, 0.4},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}
