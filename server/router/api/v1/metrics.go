package v1

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hrygo/timedim/store/cache"
)

// Metrics are the engine's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	builds *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// NewMetrics registers the engine collectors with reg. When stats is not nil
// the cache counters are exported as well.
func NewMetrics(reg prometheus.Registerer, stats func() cache.Stats) *Metrics {
	m := &Metrics{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timedim",
			Name:      "dimension_builds_total",
			Help:      "Time dimensions built, by source and range kind.",
		}, []string{"source", "kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timedim",
			Name:      "request_errors_total",
			Help:      "Rejected requests, by error code.",
		}, []string{"code"}),
	}
	reg.MustRegister(m.builds, m.errors)

	if stats != nil {
		reg.MustRegister(
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: "timedim",
				Name:      "cache_hits_total",
				Help:      "Dimension cache hits in memory.",
			}, func() float64 { return float64(stats().Hits) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: "timedim",
				Name:      "cache_store_hits_total",
				Help:      "Dimension cache hits in the persistent store.",
			}, func() float64 { return float64(stats().L2Hits) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: "timedim",
				Name:      "cache_misses_total",
				Help:      "Dimension cache misses.",
			}, func() float64 { return float64(stats().Misses) }),
		)
	}
	return m
}

func (m *Metrics) observeBuild(source, kind string) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(source, kind).Inc()
}

func (m *Metrics) observeError(code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(code).Inc()
}
