// Package metrics defines the Prometheus metrics exported by the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	CheckIns       prometheus.Counter
	CheckOuts      prometheus.Counter
	Preregs        prometheus.Counter
	PreregDecision *prometheus.CounterVec
	Feedback       *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
	Exports        prometheus.Counter
	HTTPDuration   *prometheus.HistogramVec
}

// New creates a registry and registers every metric on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CheckIns: f.NewCounter(prometheus.CounterOpts{
			Name: "visitor_register_checkins_total",
			Help: "Total number of visitor check-ins",
		}),
		CheckOuts: f.NewCounter(prometheus.CounterOpts{
			Name: "visitor_register_checkouts_total",
			Help: "Total number of visitor check-outs",
		}),
		Preregs: f.NewCounter(prometheus.CounterOpts{
			Name: "visitor_register_preregistrations_total",
			Help: "Total number of pre-registrations submitted",
		}),
		PreregDecision: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visitor_register_preregistration_decisions_total",
			Help: "Pre-registration decisions by outcome",
		}, []string{"decision"}),
		Feedback: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visitor_register_feedback_total",
			Help: "Feedback submissions by type",
		}, []string{"type"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "visitor_register_notifications_total",
			Help: "Notification emails by result",
		}, []string{"result"}),
		Exports: f.NewCounter(prometheus.CounterOpts{
			Name: "visitor_register_exports_total",
			Help: "Total number of visitor log exports",
		}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visitor_register_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// NotificationResult records the outcome of one notification attempt.
func (m *Metrics) NotificationResult(err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.Notifications.WithLabelValues(result).Inc()
}
