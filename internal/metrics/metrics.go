// Package metrics exposes pipeline counters for prometheus scraping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "docrag"

var (
	// DocumentsProcessed counts processing attempts by result (success, failed, skipped).
	DocumentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_processed_total",
		Help:      "Document processing attempts by result.",
	}, []string{"result"})

	ChunksEmbedded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chunks_embedded_total",
		Help:      "Chunks embedded and persisted.",
	})

	ChunkSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "chunk_size_characters",
		Help:      "Size of emitted chunks in characters.",
		Buckets:   []float64{50, 100, 250, 500, 750, 1000, 2000},
	})

	// Queries counts query pipeline outcomes (answered, no_context, model_error).
	Queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rag_queries_total",
		Help:      "Query pipeline outcomes.",
	}, []string{"outcome"})
)
