package docdex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the client at Open time.
type Option func(*clientConfig)

type clientConfig struct {
	databaseURL string
	table       string
	dimensions  int

	hnswM           int
	hnswEFConstruct int

	embedder Embedder

	chunkSize   int
	overlap     int
	chunkingSet bool

	threshold    float64
	thresholdSet bool
	minWords     int
	overfetch    int

	readinessTimeout time.Duration
	logger           *zap.Logger
}

// WithDatabaseURL sets the Postgres DSN. Required.
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.databaseURL = url
	}
}

// WithTable sets the chunk table name. Defaults to "chunks".
func WithTable(name string) Option {
	return func(c *clientConfig) {
		c.table = name
	}
}

// WithDimensions sets the embedding vector width the schema is created with.
// Must match the configured embedder's output.
func WithDimensions(n int) Option {
	return func(c *clientConfig) {
		c.dimensions = n
	}
}

// WithHNSW overrides the vector index build parameters.
func WithHNSW(m, efConstruct int) Option {
	return func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	}
}

// WithEmbedder plugs in the embedding provider. Without one, Open still
// succeeds but Search and AddDocument return an error.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithChunking overrides the text splitter's chunk size and overlap
// (characters).
func WithChunking(size, overlap int) Option {
	return func(c *clientConfig) {
		c.chunkSize = size
		c.overlap = overlap
		c.chunkingSet = true
	}
}

// WithThreshold overrides the ranking similarity cutoff. Results scoring at
// or below it are discarded.
func WithThreshold(v float64) Option {
	return func(c *clientConfig) {
		c.threshold = v
		c.thresholdSet = true
	}
}

// WithMinWords drops results whose content has n words or fewer. Zero, the
// default, disables the filter.
func WithMinWords(n int) Option {
	return func(c *clientConfig) {
		c.minWords = n
	}
}

// WithOverfetch sets how many times k candidates are fetched from the vector
// store before ranking.
func WithOverfetch(factor int) Option {
	return func(c *clientConfig) {
		c.overfetch = factor
	}
}

// WithReadinessTimeout bounds how long Open waits for the database to accept
// connections. Defaults to 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.readinessTimeout = d
	}
}

// WithLogger sets the logger for the wired services. Defaults to a no-op.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
