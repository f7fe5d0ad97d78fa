// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carbon_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carbon_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	TasksTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carbon_tasks_triggered_total",
			Help: "Background tasks handed to the queue",
		},
		[]string{"type", "result"},
	)

	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carbon_task_duration_seconds",
			Help:    "Time the worker spent running a task",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"type", "result"},
	)

	PDFRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carbon_pdf_render_duration_seconds",
			Help:    "Template plus Chrome rendering time per document",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"doc_type", "result"},
	)

	SequenceRollbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carbon_sequence_rollbacks_total",
			Help: "Compensating decrements after a failed insert",
		},
		[]string{"document_type", "applied"},
	)

	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carbon_webhooks_received_total",
			Help: "Webhook deliveries by integration and outcome",
		},
		[]string{"integration", "result"},
	)
)

// Result maps an error to the result label
func Result(err error) string {
	if err != nil {
		return ResultFailed
	}
	return ResultSuccess
}

// RecordHTTPRequestDuration records one HTTP request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement
func TrackInFlight() func() {
	HTTPRequestsInFlight.Inc()
	return HTTPRequestsInFlight.Dec
}

// IncrementTaskTriggered counts a Trigger call
func IncrementTaskTriggered(taskType string, err error) {
	TasksTriggered.WithLabelValues(taskType, Result(err)).Inc()
}

// RecordTaskDuration records one task run in the worker
func RecordTaskDuration(taskType string, err error, duration time.Duration) {
	TaskDuration.WithLabelValues(taskType, Result(err)).Observe(duration.Seconds())
}

// RecordPDFRender records one PDF render
func RecordPDFRender(docType string, err error, duration time.Duration) {
	PDFRenderDuration.WithLabelValues(docType, Result(err)).Observe(duration.Seconds())
}

// IncrementSequenceRollback counts a rollback attempt; applied is false when
// another number was issued in between
func IncrementSequenceRollback(documentType string, applied bool) {
	label := "false"
	if applied {
		label = "true"
	}
	SequenceRollbacks.WithLabelValues(documentType, label).Inc()
}

// IncrementWebhook counts a webhook delivery
func IncrementWebhook(integration, result string) {
	WebhooksReceived.WithLabelValues(integration, result).Inc()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
