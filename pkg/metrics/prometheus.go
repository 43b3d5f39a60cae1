package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerFetches *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	fetchLatency    *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kib_provider_fetches_total",
				Help: "Total number of upstream provider fetches",
			},
			[]string{"provider", "kind"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kib_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"kind"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kib_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"kind"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kib_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kib_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kib_fetch_duration_seconds",
				Help:    "Duration of provider fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "kind"},
		),
	}
}

// RecordFetch records a provider fetch.
func (r *Recorder) RecordFetch(provider, kind string) {
	r.providerFetches.WithLabelValues(provider, kind).Inc()
}

// RecordCacheHit records a cache hit for a data kind.
func (r *Recorder) RecordCacheHit(kind string) {
	r.cacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheMiss records a cache miss for a data kind.
func (r *Recorder) RecordCacheMiss(kind string) {
	r.cacheMisses.WithLabelValues(kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last observed price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordFetchLatency records provider fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(provider, kind string, seconds float64) {
	r.fetchLatency.WithLabelValues(provider, kind).Observe(seconds)
}
