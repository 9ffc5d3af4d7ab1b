// Package metrics exposes rondo's Prometheus instrumentation.
//
// Nothing here sits on the record() hot path: that call is documented as
// allocation-free and syscall-free, and a prometheus counter increment does
// not preserve that contract cheaply enough to justify it. Everything
// exported here is updated from the cold paths — register, consolidate,
// query, and drain — which already allocate and touch the filesystem,
// except RecordsTotal, which record_batch() bumps once per batch.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SeriesTotal tracks registered series per schema.
	SeriesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rondo_series_total",
			Help: "Number of registered series by schema.",
		},
		[]string{"schema"},
	)

	// SeriesCapacity tracks the max_series cap per schema, for headroom alerting.
	SeriesCapacity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rondo_series_capacity",
			Help: "Configured max_series cap by schema.",
		},
		[]string{"schema"},
	)

	// RegistrationsTotal counts register() outcomes.
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rondo_registrations_total",
			Help: "Total register() calls that reached column allocation, by schema and outcome (ok, rejected).",
		},
		[]string{"schema", "outcome"},
	)

	// RecordsTotal counts samples written through record_batch(), by schema
	// and tier. Incremented once per batch; the single-sample record() hot
	// path does not touch it.
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rondo_records_total",
			Help: "Total samples written, by schema and tier.",
		},
		[]string{"schema", "tier"},
	)

	// ConsolidationWindowsTotal counts destination windows written per sweep.
	ConsolidationWindowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rondo_consolidation_windows_total",
			Help: "Total destination windows written by consolidate(), by schema, source tier, and dest tier.",
		},
		[]string{"schema", "source_tier", "dest_tier"},
	)

	// ConsolidationDuration times one full consolidate() sweep.
	ConsolidationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rondo_consolidation_duration_seconds",
			Help:    "Time taken by one consolidate() sweep across all schemas.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// QueryDuration times query() and query_auto() calls.
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rondo_query_duration_seconds",
			Help:    "Time taken by query()/query_auto(), by schema and tier.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"schema", "tier"},
	)

	// DrainPointsTotal counts samples handed off by drain(), by destination.
	DrainPointsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rondo_drain_points_total",
			Help: "Total points returned by drain(), by schema, tier, and destination.",
		},
		[]string{"schema", "tier", "destination"},
	)

	// SlabBytes reports the deterministic on-disk size of each (schema, tier) slab.
	SlabBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rondo_slab_bytes",
			Help: "On-disk size in bytes of each (schema, tier) slab.",
		},
		[]string{"schema", "tier"},
	)
)

func init() {
	prometheus.MustRegister(
		SeriesTotal,
		SeriesCapacity,
		RegistrationsTotal,
		RecordsTotal,
		ConsolidationWindowsTotal,
		ConsolidationDuration,
		QueryDuration,
		DrainPointsTotal,
		SlabBytes,
	)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a small helper for timing an operation and recording it to a
// histogram when it completes.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed time to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
