package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and ingest Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docdex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"}, // "ok" / "degraded" / "empty_query"
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docdex",
			Name:      "search_candidates",
			Help:      "Raw candidates fetched from the store per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docdex",
			Name:      "search_results",
			Help:      "Ranked results returned per search",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)

	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docdex",
			Name:      "ingest_documents_total",
			Help:      "Total number of ingested documents",
		},
		[]string{"type", "status"}, // type: "pdf" / "text"
	)

	IngestChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "docdex",
			Name:      "ingest_chunks_total",
			Help:      "Total number of chunks written to the store",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and ingest metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(IngestDocumentsTotal)
	prometheus.MustRegister(IngestChunksTotal)
	searchMetricsRegistered = true
}
