package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the WSP server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Auth metrics.
	AuthFailuresTotal  *prometheus.CounterVec
	AuthSuccessesTotal *prometheus.CounterVec

	// Rate limiting metrics.
	RateLimitRejectionsTotal *prometheus.CounterVec

	// Domain metrics.
	TasksCreatedTotal  prometheus.Counter
	TasksPlannedTotal  prometheus.Counter
	ExportsTotal       prometheus.Counter
	AuditEventsTotal   prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wsp_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wsp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wsp_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"kind"}),

		AuthSuccessesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wsp_auth_successes_total",
			Help: "Total number of successful authentications.",
		}, []string{"kind"}),

		RateLimitRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wsp_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}, []string{"scope"}),

		TasksCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wsp_tasks_created_total",
			Help: "Total number of tasks created.",
		}),

		TasksPlannedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wsp_tasks_planned_total",
			Help: "Total number of unplanned tasks converted into planned tasks.",
		}),

		ExportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wsp_exports_total",
			Help: "Total number of CSV exports served.",
		}),

		AuditEventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wsp_audit_events_total",
			Help: "Total number of audit events recorded.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wsp_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	// Register all metrics.
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.RateLimitRejectionsTotal,
		m.TasksCreatedTotal,
		m.TasksPlannedTotal,
		m.ExportsTotal,
		m.AuditEventsTotal,
		m.ServerStartTime,
	)

	// Set server start time.
	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, pathPattern string, statusCode int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, fmt.Sprintf("%d", statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(seconds)
}

// IncAuthFailure increments the auth failure counter for the given kind.
func (m *Metrics) IncAuthFailure(kind string) {
	m.AuthFailuresTotal.WithLabelValues(kind).Inc()
}

// IncAuthSuccess increments the auth success counter for the given kind.
func (m *Metrics) IncAuthSuccess(kind string) {
	m.AuthSuccessesTotal.WithLabelValues(kind).Inc()
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection(scope string) {
	m.RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
}
