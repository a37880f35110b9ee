// Package metrics has prometheus metrics for parsing and serializing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricParse = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "imf_parse_total",
		Help: "Messages parsed, per production and result.",
	},
	[]string{
		"kind",   // Production parsed, e.g. message, mailbox, datetime.
		"result", // ok, softfail, error.
	},
)

var metricParseDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "imf_parse_duration_seconds",
		Help:    "Parse duration per production.",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.100, 0.5, 1},
	},
	[]string{
		"kind", // Production parsed.
	},
)

// ParseInc increases the parse counter for parsing kind, with result "ok",
// "softfail" or "error".
func ParseInc(kind, result string) {
	metricParse.WithLabelValues(kind, result).Inc()
}

// ParseObserve adds a sample to the parse duration histogram for kind.
func ParseObserve(kind string, d time.Duration) {
	metricParseDuration.WithLabelValues(kind).Observe(d.Seconds())
}
