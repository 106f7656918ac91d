// Package metrics holds the Prometheus collectors for the verification pipeline.
// All methods are safe to call on a nil *Metrics so components can run unobserved.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Verifications   *prometheus.CounterVec
	VerifyDuration  prometheus.Histogram
	PostalLookups   *prometheus.CounterVec
	OracleCalls     *prometheus.CounterVec
	CriticalRemarks prometheus.Counter
	BatchRows       *prometheus.CounterVec
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pinpoint_verifications_total",
			Help: "Verifications completed, by record status and address quality",
		}, []string{"status", "quality"}),
		VerifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pinpoint_verify_duration_seconds",
			Help:    "End-to-end latency of a single verification",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		PostalLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pinpoint_postal_lookups_total",
			Help: "PIN lookups by cache result and reference status",
		}, []string{"cache", "status"}),
		OracleCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pinpoint_oracle_calls_total",
			Help: "Text extraction calls by outcome",
		}, []string{"outcome"}),
		CriticalRemarks: factory.NewCounter(prometheus.CounterOpts{
			Name: "pinpoint_critical_remarks_total",
			Help: "Critical alerts raised during reconciliation",
		}),
		BatchRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pinpoint_batch_rows_total",
			Help: "Batch rows processed by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveVerification records a finished verification.
func (m *Metrics) ObserveVerification(status, quality string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(status, quality).Inc()
	m.VerifyDuration.Observe(elapsed.Seconds())
}

// ObservePostalLookup records a PIN lookup.
func (m *Metrics) ObservePostalLookup(cacheHit bool, status string) {
	if m == nil {
		return
	}
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	m.PostalLookups.WithLabelValues(cache, status).Inc()
}

// ObserveOracleCall records the outcome of one extraction.
func (m *Metrics) ObserveOracleCall(outcome string) {
	if m == nil {
		return
	}
	m.OracleCalls.WithLabelValues(outcome).Inc()
}

// AddCriticalRemarks counts critical alerts.
func (m *Metrics) AddCriticalRemarks(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CriticalRemarks.Add(float64(n))
}

// ObserveBatchRow records a processed batch row.
func (m *Metrics) ObserveBatchRow(outcome string) {
	if m == nil {
		return
	}
	m.BatchRows.WithLabelValues(outcome).Inc()
}
