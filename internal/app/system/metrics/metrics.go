// internal/app/system/metrics/metrics.go

// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the application metrics and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	loginSuccess prometheus.Counter
	loginFailure prometheus.Counter
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulseboard_http_requests_total",
			Help: "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulseboard_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulseboard_login_success_total",
			Help: "Successful logins across both auth flows.",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulseboard_login_failure_total",
			Help: "Rejected logins across both auth flows.",
		}),
	}

	c.registry.MustRegister(c.requests, c.duration, c.loginSuccess, c.loginFailure)
	return c
}

// RecordLoginSuccess counts a successful login.
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure counts a rejected login.
func (c *Collector) RecordLoginFailure() {
	c.loginFailure.Inc()
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware instruments every request with the counter and the latency
// histogram. The route label is the chi pattern, not the raw path, so
// /api/users/{id} stays one series.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		c.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
