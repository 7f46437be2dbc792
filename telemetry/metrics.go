// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	MessagesSeen     prometheus.Counter
	URLMatches       prometheus.Counter
	FetchesSucceeded prometheus.Counter
	FetchesFailed    prometheus.Counter
	InsertsSucceeded prometheus.Counter
	InsertsFailed    prometheus.Counter

	// Histograms (seconds)
	FetchDuration  prometheus.Observer
	IngestDuration prometheus.Observer

	// Gauges
	IngestedGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		MessagesSeen = promauto.NewCounter(prometheus.CounterOpts{Name: "bragi_messages_total", Help: "Number of chat messages handed to the ingestion pipeline"})
		URLMatches = promauto.NewCounter(prometheus.CounterOpts{Name: "bragi_url_matches_total", Help: "Number of messages containing a recognizable video URL"})
		FetchesSucceeded = promauto.NewCounter(prometheus.CounterOpts{Name: "bragi_fetches_succeeded_total", Help: "Number of successful metadata lookups"})
		FetchesFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "bragi_fetches_failed_total", Help: "Number of failed metadata lookups"})
		InsertsSucceeded = promauto.NewCounter(prometheus.CounterOpts{Name: "bragi_inserts_succeeded_total", Help: "Number of video records written"})
		InsertsFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "bragi_inserts_failed_total", Help: "Number of rejected video record writes"})
		FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "bragi_fetch_duration_seconds", Help: "Metadata lookup duration seconds", Buckets: prometheus.DefBuckets})
		IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "bragi_ingest_duration_seconds", Help: "End-to-end ingestion duration seconds", Buckets: prometheus.DefBuckets})
		IngestedGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "bragi_videos_ingested", Help: "Current number of rows in the videos table"})
	})
}

// SetIngestedCount records the current videos row count.
func SetIngestedCount(n int) {
	if IngestedGauge != nil {
		IngestedGauge.Set(float64(n))
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding correlation id (if absent) and the id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
