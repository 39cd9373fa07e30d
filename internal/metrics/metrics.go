// Package metrics exposes Prometheus instrumentation for the drive core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the drive collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	OperationsTotal    *prometheus.CounterVec   // drive_operations_total{operation,status}
	OperationDuration  *prometheus.HistogramVec // drive_operation_duration_seconds{operation}
	PurgedItemsTotal   *prometheus.CounterVec   // drive_purged_items_total{item_type}
	PurgeRunsTotal     *prometheus.CounterVec   // drive_purge_runs_total{status}
	BlobDeleteFailures prometheus.Counter       // drive_blob_delete_failures_total
	NotifierDropped    prometheus.Counter       // drive_notifier_dropped_events_total
	NotifierSubs       prometheus.Gauge         // drive_notifier_subscribers
	HTTPRequestsTotal  *prometheus.CounterVec   // drive_http_requests_total{method,route,code}
}

// New registers the drive collectors on registry (the default registerer when nil)
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drive_operations_total",
			Help: "Tree operations by operation and outcome",
		}, []string{"operation", "status"}),

		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drive_operation_duration_seconds",
			Help:    "Tree operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),

		PurgedItemsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drive_purged_items_total",
			Help: "Items permanently removed by purge, empty-trash or permanent delete",
		}, []string{"item_type"}),

		PurgeRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drive_purge_runs_total",
			Help: "Scheduled purge sweeps by outcome",
		}, []string{"status"}),

		BlobDeleteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "drive_blob_delete_failures_total",
			Help: "Blob deletions that failed and were left behind",
		}),

		NotifierDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "drive_notifier_dropped_events_total",
			Help: "Events dropped because a subscriber buffer was full",
		}),

		NotifierSubs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "drive_notifier_subscribers",
			Help: "Currently connected room subscribers",
		}),

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drive_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "code"}),
	}
}

// ObserveOperation records the outcome and duration of one operation
func (m *Metrics) ObserveOperation(operation string, err error, start time.Time) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordPurged counts n permanently removed items of itemType
func (m *Metrics) RecordPurged(itemType string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.PurgedItemsTotal.WithLabelValues(itemType).Add(float64(n))
}

// RecordPurgeRun counts one scheduled sweep
func (m *Metrics) RecordPurgeRun(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.PurgeRunsTotal.WithLabelValues(status).Inc()
}

// RecordBlobDeleteFailure counts a leaked blob
func (m *Metrics) RecordBlobDeleteFailure() {
	if m == nil {
		return
	}
	m.BlobDeleteFailures.Inc()
}

// RecordDropped counts an event dropped by the notifier
func (m *Metrics) RecordDropped() {
	if m == nil {
		return
	}
	m.NotifierDropped.Inc()
}

// AddSubscribers moves the subscriber gauge by delta
func (m *Metrics) AddSubscribers(delta int) {
	if m == nil {
		return
	}
	m.NotifierSubs.Add(float64(delta))
}

// RecordHTTP counts one served request
func (m *Metrics) RecordHTTP(method, route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusLabel(code)).Inc()
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
