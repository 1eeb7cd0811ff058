package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			URL: "postgres://localhost:5432/docdex",
		},
		Embedding: EmbeddingConfig{Dimensions: 384},
		Search:    SearchConfig{OverfetchFactor: 2},
		Ingest:    IngestConfig{ChunkSize: 300, ChunkOverlap: 100},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database url")
	}

	expected := "database.url is required"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_InvalidOverfetch(t *testing.T) {
	for _, factor := range []int{0, -1, 11} {
		cfg := validConfig()
		cfg.Search.OverfetchFactor = factor

		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for overfetch_factor=%d", factor)
		}
	}
}

func TestValidate_OverlapNotSmallerThanChunkSize(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.ChunkSize = 100
	cfg.Ingest.ChunkOverlap = 100

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for overlap >= chunk size")
	}

	expected := "ingest.chunk_overlap must be smaller than ingest.chunk_size, got 100 >= 100"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_BudgetAction(t *testing.T) {
	for _, action := range []string{"", "warn", "reject"} {
		cfg := validConfig()
		cfg.Embedding.Budget.Action = action

		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error for action=%q: %v", action, err)
		}
	}

	cfg := validConfig()
	cfg.Embedding.Budget.Action = "block"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown budget action")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.Table != "chunks" {
		t.Errorf("expected Table=chunks, got %q", cfg.Database.Table)
	}
	if cfg.Embedding.Model != "all-MiniLM-L6-v2" {
		t.Errorf("expected default model, got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("expected Dimensions=384, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Search.Threshold != 30 {
		t.Errorf("expected Threshold=30, got %f", cfg.Search.Threshold)
	}
	if cfg.Search.OverfetchFactor != 2 {
		t.Errorf("expected OverfetchFactor=2, got %d", cfg.Search.OverfetchFactor)
	}
	if cfg.Search.MinWords != 0 {
		t.Errorf("expected MinWords=0 (disabled), got %d", cfg.Search.MinWords)
	}
	if cfg.Ingest.ChunkSize != 300 || cfg.Ingest.ChunkOverlap != 100 {
		t.Errorf("expected chunking 300/100, got %d/%d", cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	}
	if cfg.Index.HNSWM != 32 || cfg.Index.HNSWEFConstruct != 400 {
		t.Errorf("expected HNSW 32/400, got %d/%d", cfg.Index.HNSWM, cfg.Index.HNSWEFConstruct)
	}
}

func TestApplyDefaults_DropsEmptyCacheAddrs(t *testing.T) {
	// ${VAR:-} substitution leaves "" entries that must not enable the cache.
	cfg := Config{Cache: CacheConfig{Addrs: []string{"", "  ", "localhost:6379"}}}
	cfg.ApplyDefaults()

	if len(cfg.Cache.Addrs) != 1 || cfg.Cache.Addrs[0] != "localhost:6379" {
		t.Errorf("expected single real addr, got %v", cfg.Cache.Addrs)
	}

	cfg = Config{Cache: CacheConfig{Addrs: []string{""}}}
	cfg.ApplyDefaults()
	if len(cfg.Cache.Addrs) != 0 {
		t.Errorf("expected no addrs, got %v", cfg.Cache.Addrs)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Search: SearchConfig{Threshold: 40, OverfetchFactor: 4, MinWords: 10},
		Ingest: IngestConfig{ChunkSize: 500, ChunkOverlap: 50},
	}
	cfg.ApplyDefaults()

	if cfg.Search.Threshold != 40 {
		t.Errorf("expected Threshold=40, got %f", cfg.Search.Threshold)
	}
	if cfg.Search.OverfetchFactor != 4 {
		t.Errorf("expected OverfetchFactor=4, got %d", cfg.Search.OverfetchFactor)
	}
	if cfg.Search.MinWords != 10 {
		t.Errorf("expected MinWords=10, got %d", cfg.Search.MinWords)
	}
	if cfg.Ingest.ChunkSize != 500 || cfg.Ingest.ChunkOverlap != 50 {
		t.Errorf("expected chunking 500/50, got %d/%d", cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("DOCDEX_TEST_URL", "postgres://db.internal:5432/docdex")
	defer os.Unsetenv("DOCDEX_TEST_URL")

	in := []byte("url: ${DOCDEX_TEST_URL}\nkey: ${DOCDEX_TEST_MISSING:-fallback}\n")
	out := string(expandEnvVars(in))

	want := "url: postgres://db.internal:5432/docdex\nkey: fallback\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestGetEnv_Default(t *testing.T) {
	os.Unsetenv("ENV")
	if env := GetEnv(); env != "local" {
		t.Errorf("GetEnv() = %q, want local", env)
	}
}
