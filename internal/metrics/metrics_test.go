package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAction(t *testing.T) {
	m := New()
	m.ObserveAction("assigned", "ok")
	m.ObserveAction("assigned", "ok")
	m.ObserveAction("assigned", "InvalidState")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.transitions.WithLabelValues("assigned", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transitions.WithLabelValues("assigned", "InvalidState")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAction("paid", "ok")
		m.ObserveRequest(http.MethodGet, "GET /api/jobs", "200", time.Millisecond)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "GET /api/jobs", "200", 15*time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `rentr_http_request_duration_seconds_count{code="200",method="GET",route="GET /api/jobs"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
