package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/chunking"
	"github.com/kailas-cloud/docdex/internal/config"
	"github.com/kailas-cloud/docdex/internal/db"
	"github.com/kailas-cloud/docdex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/docdex/internal/db/redis"
	"github.com/kailas-cloud/docdex/internal/domain"
	logpkg "github.com/kailas-cloud/docdex/internal/logger"
	"github.com/kailas-cloud/docdex/internal/metrics"
	budgetrepo "github.com/kailas-cloud/docdex/internal/repository/budget"
	chunkrepo "github.com/kailas-cloud/docdex/internal/repository/chunk"
	"github.com/kailas-cloud/docdex/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/docdex/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/docdex/internal/transport/openai"
	documentuc "github.com/kailas-cloud/docdex/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/docdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/docdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docdex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/docdex/internal/usecase/search"
	"github.com/kailas-cloud/docdex/internal/version"
)

// providerName labels embedding metrics and budget keys.
const providerName = "openai"

func main() {
	// Load .env file if it exists (local development)
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_table", cfg.Database.Table),
	)

	// Connect to Postgres and wait for it to accept connections
	ctx := context.Background()
	client, err := postgres.New(ctx, postgres.Config{URL: cfg.Database.URL})
	if err != nil {
		logger.Fatal("Failed to create database client", zap.Error(err))
	}
	defer client.Close()

	if err := client.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Chunk repository owns the table and the HNSW index
	repo := chunkrepo.New(client.Pool(), cfg.Database.Table, cfg.Embedding.Dimensions).
		WithHNSW(chunkrepo.HNSWConfig{
			M:           cfg.Index.HNSWM,
			EFConstruct: cfg.Index.HNSWEFConstruct,
		})
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	// Optional Redis embedding cache. Empty addrs leave it disabled.
	var cache db.KVStore
	if len(cfg.Cache.Addrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer redisStore.Close()
		cache = redisStore
		logger.Info("Embedding cache enabled", zap.Strings("cache_addrs", cfg.Cache.Addrs))
	}

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Single BudgetTracker shared across both embedder chains.
	var budget *embeddinguc.BudgetTracker
	budgetCfg := cfg.Embedding.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := embeddinguc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = embeddinguc.BudgetActionReject
		}
		budget = embeddinguc.NewBudgetTracker(
			providerName, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
		if cache != nil {
			// Persist counters so a restart does not reset the budget.
			budget.WithStore(ctx, budgetrepo.New(cache, 48*time.Hour, 62*24*time.Hour))
		}
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker embeddinguc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	// Shared base provider; the health check probes it directly, below the
	// decorators.
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   providerName,
		Logger:     logger,
	})

	docEmbedder := buildEmbedder(base, cfg, cache, budgetChecker, cfg.Embedding.DocumentInstruction, logger)
	queryEmbedder := buildEmbedder(base, cfg, cache, budgetChecker, cfg.Embedding.QueryInstruction, logger)
	logger.Info("Embedders created",
		zap.String("provider", providerName),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Ranking policy starts from the canonical defaults; config overrides
	// the tunable knobs.
	policy := searchuc.DefaultPolicy()
	policy.Threshold = cfg.Search.Threshold
	policy.MinWords = cfg.Search.MinWords
	ranker := searchuc.NewRanker(policy, logger)

	splitter := chunking.NewRecursive(
		chunking.WithChunkSize(cfg.Ingest.ChunkSize),
		chunking.WithOverlap(cfg.Ingest.ChunkOverlap),
	)

	// Create use case services
	searchSvc := searchuc.New(repo, queryEmbedder, ranker, cfg.Search.OverfetchFactor, logger)
	ingestSvc := ingestuc.New(repo, docEmbedder, splitter, logger)
	docSvc := documentuc.New(repo).WithPagination(cfg.Index.DefaultPageSize, cfg.Index.MaxPageSize)

	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(client, cachePinger, base)

	server := chiTransport.NewServer(searchSvc, ingestSvc, docSvc, healthSvc, logger).
		WithMaxUpload(cfg.Ingest.MaxUploadBytes)
	handler := server.Router(cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embedder combines single and batch embedding. Every layer of the decorator
// chain supports both.
type embedder interface {
	domain.Embedder
	domain.BatchEmbedder
}

// buildEmbedder assembles the decorator chain around the shared base
// provider: Cached -> Instrumented -> Instruction.
func buildEmbedder(
	base domain.Embedder,
	cfg config.Config,
	cache db.KVStore,
	budget embeddinguc.BudgetChecker,
	instruction string,
	logger *zap.Logger,
) embedder {
	chain := base
	if cache != nil {
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		chain = embcache.New(base, cache, cfg.Embedding.Model, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	instrumented := embeddinguc.NewInstrumentedEmbedder(
		chain, providerName, cfg.Embedding.Model, budget, logger,
	)

	// Instruction prefix goes outermost so cache keys include it.
	if instruction != "" {
		return domain.NewInstructionEmbedder(instrumented, instruction)
	}
	return instrumented
}
