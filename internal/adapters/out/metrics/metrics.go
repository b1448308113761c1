// Package metrics exposes service counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"sendit/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests and multiple servers in one process do
// not collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	notificationsSent   *prometheus.CounterVec
	notificationsFailed *prometheus.CounterVec
	couriersReleased    prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sendit_notifications_sent_total",
			Help: "Notifications delivered, by kind",
		}, []string{"kind"}),
		notificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sendit_notifications_failed_total",
			Help: "Notifications that failed or panicked, by kind",
		}, []string{"kind"}),
		couriersReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sendit_idle_couriers_released_total",
			Help: "Couriers made available again by the idle reconciliation job",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.notificationsSent,
		m.notificationsFailed,
		m.couriersReleased,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) NotificationSent(kind ports.NotificationKind) {
	m.notificationsSent.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) NotificationFailed(kind ports.NotificationKind) {
	m.notificationsFailed.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) CouriersReleased(n int) {
	if n > 0 {
		m.couriersReleased.Add(float64(n))
	}
}

// ObserveRequest records one HTTP request. path must be the route pattern,
// not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.httpDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
