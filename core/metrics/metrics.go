package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for report computation.
type Metrics struct {
	// Cache lookups by report kind and result ("hit", "miss")
	CacheLookups *prometheus.CounterVec

	// Reconciliation latency by operation
	ReconcileDuration *prometheus.HistogramVec

	// Lints produced by source and reason
	Lints *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "area_reconciler_cache_lookups_total",
			Help: "Report cache lookups by report kind and result",
		}, []string{"report", "result"}),

		ReconcileDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "area_reconciler_reconcile_duration_seconds",
			Help:    "Duration of reconciliation operations",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),

		Lints: f.NewCounterVec(prometheus.CounterOpts{
			Name: "area_reconciler_lints_total",
			Help: "Lints produced by source and reason",
		}, []string{"source", "reason"}),
	}
}

// CacheHit records a report served from the cache.
func (m *Metrics) CacheHit(report string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(report, "hit").Inc()
	}
}

// CacheMiss records a report that had to be recomputed.
func (m *Metrics) CacheMiss(report string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(report, "miss").Inc()
	}
}

// ObserveReconcile records the duration of one engine operation.
func (m *Metrics) ObserveReconcile(operation string, d time.Duration) {
	if m != nil {
		m.ReconcileDuration.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// AddLints records n lints of one kind.
func (m *Metrics) AddLints(source, reason string, n int) {
	if m != nil && n > 0 {
		m.Lints.WithLabelValues(source, reason).Add(float64(n))
	}
}
