package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.Request("/api/test", "GET", 200, 10*time.Millisecond)
	m.Request("/api/test", "GET", 200, 20*time.Millisecond)
	m.Request("/api/predict", "POST", 400, time.Millisecond)
	m.Prediction("ULIP", 25000)
	m.Failure("invalid")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.prometheus.Requests.WithLabelValues("/api/test", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Requests.WithLabelValues("/api/predict", "POST", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Predictions.WithLabelValues("ULIP", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prometheus.Predictions.WithLabelValues("", "invalid")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cover_http_requests_total")
	assert.Contains(t, string(body), "cover_predicted_premium_bucket")
}

func TestNewMetrics_Isolated(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	a.Failure("not_loaded")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.prometheus.Predictions.WithLabelValues("", "not_loaded")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.prometheus.Predictions.WithLabelValues("", "not_loaded")))
}
