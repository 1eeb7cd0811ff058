package chi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/chunk"
	"github.com/kailas-cloud/docdex/internal/domain/search/candidate"
	"github.com/kailas-cloud/docdex/internal/metrics"
	documentuc "github.com/kailas-cloud/docdex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docdex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/docdex/internal/usecase/search"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

// fakeSearchRepo implements the search usecase repository contract.
type fakeSearchRepo struct {
	candidates []candidate.Candidate
	err        error
}

func (f *fakeSearchRepo) SearchNearest(_ context.Context, _ []float32, _ int) ([]candidate.Candidate, error) {
	return f.candidates, f.err
}

// fakeEmbedder implements the single and batch embedding contracts.
type fakeEmbedder struct {
	err    error
	tokens int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2, 0.3, 0.4},
		TotalTokens: f.tokens,
	}, nil
}

func (f *fakeEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if f.err != nil {
		return domain.BatchEmbeddingResult{}, f.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{0.1, 0.2, 0.3, 0.4}
	}
	return domain.BatchEmbeddingResult{
		Embeddings:  embeddings,
		TotalTokens: 5 * len(texts),
	}, nil
}

// fakeChunkRepo implements the ingest and document repository contracts.
type fakeChunkRepo struct {
	chunks     []chunk.Chunk
	nextCursor string
	listErr    error
	deleted    []string
	deleteErr  error
	clearCount int64
	count      int64
	upserted   [][]chunk.Chunk
}

func (f *fakeChunkRepo) Upsert(_ context.Context, chunks []chunk.Chunk) error {
	f.upserted = append(f.upserted, chunks)
	return nil
}

func (f *fakeChunkRepo) List(_ context.Context, _ string, _ int) ([]chunk.Chunk, string, error) {
	return f.chunks, f.nextCursor, f.listErr
}

func (f *fakeChunkRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeChunkRepo) DeleteAll(_ context.Context) (int64, error) {
	return f.clearCount, nil
}

func (f *fakeChunkRepo) Count(_ context.Context) (int64, error) {
	return f.count, nil
}

// fakePinger implements the health DBPinger contract.
type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

// fakeHealthChecker implements the health EmbeddingChecker contract.
type fakeHealthChecker struct {
	err error
}

func (f *fakeHealthChecker) HealthCheck(_ context.Context) error { return f.err }

type testEnv struct {
	server     *Server
	handler    http.Handler
	searchRepo *fakeSearchRepo
	chunkRepo  *fakeChunkRepo
	embedder   *fakeEmbedder
	db         *fakePinger
}

// newTestEnv wires fakes through the real usecase services into a routed server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sr := &fakeSearchRepo{}
	cr := &fakeChunkRepo{}
	emb := &fakeEmbedder{}
	db := &fakePinger{}

	ranker := searchuc.NewRanker(searchuc.DefaultPolicy(), zap.NewNop())
	searchSvc := searchuc.New(sr, emb, ranker, 2, zap.NewNop())
	ingestSvc := ingestuc.New(cr, emb, nil, zap.NewNop())
	docSvc := documentuc.New(cr)
	healthSvc := healthuc.New(db, nil, nil)

	server := NewServer(searchSvc, ingestSvc, docSvc, healthSvc, zap.NewNop())
	return &testEnv{
		server:     server,
		handler:    server.Router(nil),
		searchRepo: sr,
		chunkRepo:  cr,
		embedder:   emb,
		db:         db,
	}
}

// multipartBody builds a multipart request body with one file field.
func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
