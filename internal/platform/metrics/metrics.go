// Package metrics holds all Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the gateway's Prometheus collectors.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	ClaimsCreated   prometheus.Counter
	BulkRows        *prometheus.CounterVec
	OCRJobs         *prometheus.CounterVec
	OCRDuration     prometheus.Histogram
	AuditDropped    prometheus.Counter
}

// New creates and registers all collectors with the default registry.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bhulekh_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		ClaimsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bhulekh_claims_created_total",
			Help: "Total claims created, directly or via bulk import",
		}),
		BulkRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bhulekh_bulk_rows_total",
			Help: "Bulk import/action items by outcome",
		}, []string{"operation", "outcome"}),
		OCRJobs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bhulekh_ocr_jobs_total",
			Help: "OCR extraction jobs by terminal status",
		}, []string{"status"}),
		OCRDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bhulekh_ocr_duration_seconds",
			Help:    "Wall time of OCR extraction jobs",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		AuditDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bhulekh_audit_entries_dropped_total",
			Help: "Audit entries lost to store failures; must stay at zero",
		}),
	}
}
