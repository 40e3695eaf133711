package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the store. All methods are safe on a nil receiver so
// callers can opt out by passing nil to New.
type Metrics struct {
	mutationsTotal  *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	refreshFailures prometheus.Counter
	activeWatches   prometheus.Gauge
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		mutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendtrack_store_mutations_total",
				Help: "Total number of store mutations",
			},
			[]string{"operation", "status"},
		),
		refreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spendtrack_watch_refresh_duration_seconds",
				Help:    "Live query refresh duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
			},
		),
		refreshFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spendtrack_watch_refresh_failures_total",
				Help: "Total number of failed live query refreshes",
			},
		),
		activeWatches: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "spendtrack_active_watches",
				Help: "Number of currently registered live queries",
			},
		),
	}
}

func (m *Metrics) recordMutation(operation string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.mutationsTotal.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) observeRefresh(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.refreshDuration.Observe(d.Seconds())
	if err != nil {
		m.refreshFailures.Inc()
	}
}

func (m *Metrics) watchOpened() {
	if m == nil {
		return
	}
	m.activeWatches.Inc()
}

func (m *Metrics) watchClosed() {
	if m == nil {
		return
	}
	m.activeWatches.Dec()
}
