package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "cover"

// Prometheus holds the collectors of the service.
type Prometheus struct {
	Requests    *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
	Predictions *prometheus.CounterVec
	Premium     prometheus.Histogram
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status code.",
			}, []string{"route", "method", "code"}),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Recommendations by policy type and outcome.",
			}, []string{"policy", "outcome"}),
		Premium: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "predicted_premium",
				Help:      "Predicted yearly premium.",
				Buckets:   prometheus.ExponentialBuckets(1000, 2, 10),
			}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.Requests,
		p.Latency,
		p.Predictions,
		p.Premium,
	}
}
