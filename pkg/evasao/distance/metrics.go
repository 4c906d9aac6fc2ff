package distance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for distance resolution.
type Metrics struct {
	// Provider calls by outcome: "ok" or "error"
	ProviderCalls *prometheus.CounterVec

	// Keys served from the cache
	CacheHits prometheus.Counter

	// Keys resolved without a call (destination neighborhood)
	SpecialCases prometheus.Counter

	ProviderLatency prometheus.Histogram
}

// NewMetrics registers the distance metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProviderCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "evasao_distance_provider_calls_total",
			Help: "Routing provider calls by outcome",
		}, []string{"outcome"}),

		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "evasao_distance_cache_hits_total",
			Help: "Origins answered from the distance cache",
		}),

		SpecialCases: f.NewCounter(prometheus.CounterOpts{
			Name: "evasao_distance_special_cases_total",
			Help: "Origins in the destination neighborhood, resolved without a provider call",
		}),

		ProviderLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "evasao_distance_provider_duration_seconds",
			Help:    "Duration of routing provider calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveCall records a provider call.
func (m *Metrics) ObserveCall(outcome string, d time.Duration) {
	if m != nil {
		m.ProviderCalls.WithLabelValues(outcome).Inc()
		m.ProviderLatency.Observe(d.Seconds())
	}
}

// IncrementCacheHit records a cache hit.
func (m *Metrics) IncrementCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// IncrementSpecialCase records a destination-neighborhood origin.
func (m *Metrics) IncrementSpecialCase() {
	if m != nil {
		m.SpecialCases.Inc()
	}
}
