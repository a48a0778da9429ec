// Package metrics holds the service's Prometheus collectors. Collectors are
// registered on the default registerer so promhttp exposes them without
// extra wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets is a common set of latency histogram buckets in seconds.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// ScansTotal counts completed scans by input type and resulting risk level.
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safescan_scans_total",
		Help: "Completed scans by input type and risk level.",
	}, []string{"input_type", "risk_level"})

	// ScanDuration observes end-to-end scan latency.
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "safescan_scan_duration_seconds",
		Help:    "End-to-end scan latency.",
		Buckets: DefaultBuckets,
	})

	// SignalErrors counts upstream signal-source failures by source name.
	SignalErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safescan_signal_errors_total",
		Help: "Signal source calls that returned unavailable.",
	}, []string{"source"})

	// RateLimited counts requests rejected by the sliding-window limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safescan_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})
)
