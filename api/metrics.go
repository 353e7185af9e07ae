package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics bundles Prometheus collectors for the books API.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	BooksStored     prometheus.Gauge
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "books_api_requests_total",
			Help: "HTTP requests served by the books API.",
		},
		[]string{"method", "route", "status"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "books_api_request_duration_seconds",
			Help:    "Latency of books API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	stored := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "books_api_books_stored",
			Help: "Books currently held by the store.",
		},
	)

	registry.MustRegister(
		requests,
		duration,
		stored,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: duration,
		BooksStored:     stored,
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetBooks records the current store size.
func (m *Metrics) SetBooks(n int) {
	if m == nil {
		return
	}
	m.BooksStored.Set(float64(n))
}
