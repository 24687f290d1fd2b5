package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer is the process wide metrics instance.
var Observer = NewMetrics()

// Metrics records the service metrics into its own registry.
type Metrics struct {
	registry   *prometheus.Registry
	prometheus Prometheus
}

// NewMetrics creates a new metrics instance with all collectors registered.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	p := NewPrometheusMetrics()
	registry.MustRegister(p.collectors()...)
	return &Metrics{
		registry:   registry,
		prometheus: p,
	}
}

// Handler exposes the metrics in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Request records a served http request.
func (m *Metrics) Request(route, method string, code int, duration time.Duration) {
	m.prometheus.Requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.prometheus.Latency.WithLabelValues(route).Observe(duration.Seconds())
}

// Prediction records a recommendation outcome.
func (m *Metrics) Prediction(policy string, premium float64) {
	m.prometheus.Predictions.WithLabelValues(policy, "ok").Inc()
	m.prometheus.Premium.Observe(premium)
}

// Failure records a failed prediction.
func (m *Metrics) Failure(reason string) {
	m.prometheus.Predictions.WithLabelValues("", reason).Inc()
}
