package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "unilite"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Origin metrics
	OriginRequests *prometheus.CounterVec
	OriginDuration *prometheus.HistogramVec
	BreakerState   prometheus.Gauge

	// Session metrics
	SessionsActive      prometheus.Gauge
	SessionsCreated     prometheus.Counter
	SessionsExpired     prometheus.Counter
	SessionsInvalidated prometheus.Counter

	// Transform metrics
	TransformInputBytes  prometheus.Counter
	TransformOutputBytes prometheus.Counter
	LoginPrompts         prometheus.Counter

	// Demo stats cache
	StatsLookups *prometheus.CounterVec

	startTime time.Time
}

// NewMetrics creates a metrics collector backed by its own registry, so
// several instances can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "route"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route"},
		),

		OriginRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "origin_requests_total",
				Help:      "Requests issued to the origin portal by outcome",
			},
			[]string{"method", "outcome"},
		),
		OriginDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "origin_request_duration_seconds",
				Help:      "Origin round-trip duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
			},
			[]string{"method"},
		),
		BreakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "origin_breaker_state",
				Help:      "Origin circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Number of registered sessions",
			},
		),
		SessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_created_total",
				Help:      "Total number of sessions created",
			},
		),
		SessionsExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_expired_total",
				Help:      "Total number of sessions evicted after expiry",
			},
		),
		SessionsInvalidated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_invalidated_total",
				Help:      "Total number of sessions explicitly invalidated",
			},
		),

		TransformInputBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transform_input_bytes_total",
				Help:      "Bytes of origin HTML fed to the transform pipeline",
			},
		),
		TransformOutputBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transform_output_bytes_total",
				Help:      "Bytes of rewritten HTML sent to clients",
			},
		),
		LoginPrompts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_prompts_total",
				Help:      "Pages that looked like a login prompt outside the login flow",
			},
		),

		StatsLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stats_lookups_total",
				Help:      "Demo stats lookups by source",
			},
			[]string{"source"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format for this collector.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, route).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, route).Observe(float64(respSize))
}

// RecordOriginRequest records one origin round trip.
func (m *Metrics) RecordOriginRequest(method, outcome string, duration time.Duration) {
	m.OriginRequests.WithLabelValues(method, outcome).Inc()
	m.OriginDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// SetBreakerState mirrors the breaker state as a number.
func (m *Metrics) SetBreakerState(state int) {
	m.BreakerState.Set(float64(state))
}

// RecordTransform records the size of a page before and after rewriting.
func (m *Metrics) RecordTransform(inBytes, outBytes int) {
	m.TransformInputBytes.Add(float64(inBytes))
	m.TransformOutputBytes.Add(float64(outBytes))
}

// IncLoginPrompts counts a suspected session loss.
func (m *Metrics) IncLoginPrompts() {
	m.LoginPrompts.Inc()
}

// RecordStatsLookup counts a demo stats lookup served from source.
func (m *Metrics) RecordStatsLookup(source string) {
	m.StatsLookups.WithLabelValues(source).Inc()
}

// SessionCreated implements the session registry observer.
func (m *Metrics) SessionCreated(active int) {
	m.SessionsCreated.Inc()
	m.SessionsActive.Set(float64(active))
}

// SessionsEvicted implements the session registry observer.
func (m *Metrics) SessionsEvicted(expired int, active int) {
	m.SessionsExpired.Add(float64(expired))
	m.SessionsActive.Set(float64(active))
}

// SessionInvalidated implements the session registry observer.
func (m *Metrics) SessionInvalidated(active int) {
	m.SessionsInvalidated.Inc()
	m.SessionsActive.Set(float64(active))
}
