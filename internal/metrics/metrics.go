// Package metrics exposes Prometheus instrumentation for the service.
//
// Each Metrics value owns its own registry, so tests and multiple servers in
// one process never collide on duplicate registration.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fibonacci_api"

// Outcome labels for RequestsTotal besides the validation error kinds.
const (
	OutcomeSuccess  = "success"
	OutcomeInternal = "internal_error"
)

// Metrics holds every collector the service records.
type Metrics struct {
	Registry *prometheus.Registry

	// RequestsTotal counts /fib requests by outcome: "success",
	// "internal_error", or a validation error kind.
	RequestsTotal *prometheus.CounterVec

	// ComputeDuration observes how long each computation takes.
	ComputeDuration prometheus.Histogram

	// ComputationsInFlight is the number of computations currently running.
	ComputationsInFlight prometheus.Gauge

	// RateLimitHits counts requests rejected by the rate limiter, by route.
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fibonacci_requests_total",
			Help:      "Total number of Fibonacci requests by outcome.",
		}, []string{"outcome"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fibonacci_compute_duration_seconds",
			Help:      "Time spent computing Fibonacci numbers.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 8),
		}),
		ComputationsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fibonacci_computations_in_flight",
			Help:      "Number of Fibonacci computations currently running.",
		}),
		RateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		}, []string{"endpoint"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.ComputeDuration,
		m.ComputationsInFlight,
		m.RateLimitHits,
	)

	return m
}

// RecordRequest increments RequestsTotal for outcome.
func (m *Metrics) RecordRequest(outcome string) {
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCompute records a finished computation that took d.
func (m *Metrics) ObserveCompute(d time.Duration) {
	m.ComputeDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
