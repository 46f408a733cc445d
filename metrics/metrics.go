/*
# Module: metrics/metrics.go
Prometheus metrics for directory fetches and rendering.

## Linked Modules
(None - standalone setup)

## Tags
metrics, prometheus, observability

## Exports
FetchTotal, FetchDuration, RenderedBlocks, ErrorsTotal, RateLimitedTotal, RecordFetch, SetRenderedBlocks, RecordError

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "metrics/metrics.go" ;
    code:description "Prometheus metrics for directory fetches and rendering" ;
    code:exports :FetchTotal, :FetchDuration, :RenderedBlocks, :ErrorsTotal, :RateLimitedTotal, :RecordFetch, :SetRenderedBlocks, :RecordError ;
    code:tags "metrics", "prometheus", "observability" .
<!-- End LinkedDoc RDF -->
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts fetch-and-render attempts by terminal status.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "directory",
			Name:      "fetch_total",
			Help:      "Total number of directory fetch attempts",
		},
		[]string{"status"},
	)

	// FetchDuration measures directory fetch duration.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "directory",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of directory fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	// RenderedBlocks is the number of blocks currently in the results container.
	RenderedBlocks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "directory",
			Name:      "rendered_blocks",
			Help:      "Number of business blocks in the results container",
		},
	)

	// ErrorsTotal counts failures of supporting operations.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "directory",
			Name:      "errors_total",
			Help:      "Total number of errors",
		},
		[]string{"operation"},
	)

	// RateLimitedTotal counts trigger requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "directory",
			Name:      "rate_limited_total",
			Help:      "Total number of rate-limited fetch triggers",
		},
	)
)

// RecordFetch records one fetch attempt.
func RecordFetch(status string, duration float64) {
	FetchTotal.WithLabelValues(status).Inc()
	FetchDuration.WithLabelValues(status).Observe(duration)
}

// SetRenderedBlocks sets the container size.
func SetRenderedBlocks(n int) {
	RenderedBlocks.Set(float64(n))
}

// RecordError records a failed supporting operation.
func RecordError(operation string) {
	ErrorsTotal.WithLabelValues(operation).Inc()
}
