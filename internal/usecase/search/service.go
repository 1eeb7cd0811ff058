package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/request"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
	"github.com/kailas-cloud/docdex/internal/metrics"
)

// DefaultOverfetchFactor is how many times k candidates are requested from the
// vector store to compensate for ranking discarding low-relevance hits.
const DefaultOverfetchFactor = 2

// Service handles the search path: vectorize the query, over-fetch nearest
// chunks, rank.
type Service struct {
	repo      Repository
	embed     Embedder
	ranker    *Ranker
	overfetch int
	logger    *zap.Logger
}

// New creates a search service. An overfetch factor below 1 falls back to the
// default.
func New(repo Repository, embed Embedder, ranker *Ranker, overfetch int, logger *zap.Logger) *Service {
	if overfetch < 1 {
		overfetch = DefaultOverfetchFactor
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		embed:     embed,
		ranker:    ranker,
		overfetch: overfetch,
		logger:    logger,
	}
}

// Search executes a document search. Upstream failures (embedding provider,
// vector store) degrade to an empty result set so the caller renders "no
// results" instead of an error page; the failure is logged and counted.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	if strings.TrimSpace(req.Query()) == "" {
		metrics.SearchRequestsTotal.WithLabelValues("empty_query").Inc()
		return nil, nil
	}

	emb, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		s.logger.Warn("Query embedding failed, returning no results", zap.Error(err))
		metrics.SearchRequestsTotal.WithLabelValues("degraded").Inc()
		return nil, nil
	}
	domain.UsageFromContext(ctx).AddTokens(emb.TotalTokens)

	candidates, err := s.repo.SearchNearest(ctx, emb.Embedding, req.K()*s.overfetch)
	if err != nil {
		s.logger.Warn("Vector search failed, returning no results", zap.Error(err))
		metrics.SearchRequestsTotal.WithLabelValues("degraded").Inc()
		return nil, nil
	}

	metrics.SearchCandidates.Observe(float64(len(candidates)))

	results, err := s.ranker.Rank(req.Query(), req.K(), candidates)
	if err != nil {
		return nil, err
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchResults.Observe(float64(len(results)))

	return results, nil
}
