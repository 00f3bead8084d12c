// Package metrics provides Prometheus metrics for the intake service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the intake service. Each instance
// owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	MessagesTotal     *prometheus.CounterVec
	StageDuration     *prometheus.HistogramVec
	JudgmentCalls     *prometheus.CounterVec
	JudgmentDuration  *prometheus.HistogramVec
	TicketOperations  *prometheus.CounterVec
	FeedPublishErrors prometheus.Counter
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_messages_total",
				Help: "Total number of processed messages by status tag",
			},
			[]string{"status"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_stage_duration_seconds",
				Help:    "Duration of workflow stages in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		JudgmentCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_judgment_calls_total",
				Help: "Total number of structured judgment calls",
			},
			[]string{"kind", "status"},
		),
		JudgmentDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_judgment_duration_seconds",
				Help:    "Duration of structured judgment calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		TicketOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_ticket_operations_total",
				Help: "Total number of ticket store writes",
			},
			[]string{"operation", "status"},
		),
		FeedPublishErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "intake_feed_publish_errors_total",
				Help: "Total number of ticket events that could not be published",
			},
		),
	}
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns the HTTP handler that exposes the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordMessage counts a processed message.
func (m *Metrics) RecordMessage(status string) {
	m.MessagesTotal.WithLabelValues(status).Inc()
}

// RecordStage records how long a workflow stage ran.
func (m *Metrics) RecordStage(stage string, duration time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordJudgment records a structured judgment call.
func (m *Metrics) RecordJudgment(kind string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.JudgmentCalls.WithLabelValues(kind, status).Inc()
	m.JudgmentDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordTicketOperation counts a ticket create or update.
func (m *Metrics) RecordTicketOperation(operation string, ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}
	m.TicketOperations.WithLabelValues(operation, status).Inc()
}
