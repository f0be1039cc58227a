// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Workflow results.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

var (
	// Counters
	ingestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_assistant_ingestions_total",
			Help: "Total number of PDF ingestion requests",
		},
		[]string{"result"},
	)

	chunksIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "research_assistant_chunks_indexed_total",
			Help: "Total number of chunks upserted into the vector store",
		},
	)

	chatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_assistant_chat_requests_total",
			Help: "Total number of chat requests",
		},
		[]string{"result"},
	)

	tempCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "research_assistant_temp_cleanup_failures_total",
			Help: "Temporary upload files that could not be removed",
		},
	)

	// Gauges
	ready = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "research_assistant_ready",
			Help: "1 when the AI components are initialised",
		},
	)

	// Histograms
	workflowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "research_assistant_workflow_duration_seconds",
			Help:    "Ingestion and chat workflow duration distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"workflow"},
	)
)

// ObserveIngestion records one ingestion outcome.
func ObserveIngestion(result string, chunks int, elapsed time.Duration) {
	ingestions.WithLabelValues(result).Inc()
	if chunks > 0 {
		chunksIndexed.Add(float64(chunks))
	}
	workflowDuration.WithLabelValues("ingest").Observe(elapsed.Seconds())
}

// ObserveChat records one chat outcome.
func ObserveChat(result string, elapsed time.Duration) {
	chatRequests.WithLabelValues(result).Inc()
	workflowDuration.WithLabelValues("chat").Observe(elapsed.Seconds())
}

// TempCleanupFailed counts a temp file removal failure.
func TempCleanupFailed() {
	tempCleanupFailures.Inc()
}

// SetReady publishes the readiness state.
func SetReady(ok bool) {
	if ok {
		ready.Set(1)
		return
	}
	ready.Set(0)
}
