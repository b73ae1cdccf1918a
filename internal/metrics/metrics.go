// Package metrics collects Prometheus metrics for the HTTP API and exposes them.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus instruments.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	signups  *prometheus.CounterVec
	logins   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contactbook_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contactbook_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contactbook_signups_total",
			Help: "Signup attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contactbook_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.requests, c.latency, c.signups, c.logins)
	return c
}

// ObserveRequest records one completed HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSignup counts a signup attempt.
func (c *Collector) RecordSignup(outcome string) {
	c.signups.WithLabelValues(outcome).Inc()
}

// RecordLogin counts a login attempt.
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// Handler serves the gatherer's metrics in the Prometheus text format.
func Handler(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
