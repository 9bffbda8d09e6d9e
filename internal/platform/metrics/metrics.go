// Package metrics registers all Prometheus instruments for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus instrument. One instance is created in main
// and shared via injection; promauto registers on the default registry.
type Metrics struct {
	Submissions        *prometheus.CounterVec
	StatusTransitions  *prometheus.CounterVec
	AuditWriteFailures prometheus.Counter
	EmailsSent         *prometheus.CounterVec
	EmailFailures      *prometheus.CounterVec
	RealtimeClients    prometheus.Gauge
	RealtimeDropped    prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathcrm_submissions_total",
			Help: "Accepted public submissions by entity kind",
		}, []string{"kind"}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathcrm_status_transitions_total",
			Help: "Accepted status transitions by entity kind and new status",
		}, []string{"kind", "status"}),
		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pathcrm_audit_write_failures_total",
			Help: "Status history appends that failed after a successful status update",
		}),
		EmailsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathcrm_emails_sent_total",
			Help: "Outbound emails delivered, by template",
		}, []string{"template"}),
		EmailFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathcrm_email_failures_total",
			Help: "Outbound emails that failed to send, by template",
		}, []string{"template"}),
		RealtimeClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pathcrm_realtime_clients",
			Help: "Currently connected realtime observers",
		}),
		RealtimeDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pathcrm_realtime_dropped_events_total",
			Help: "Realtime events dropped because a client buffer was full",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathcrm_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
