package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	m := New()

	m.RecordRequest(OutcomeSuccess)
	m.RecordRequest(OutcomeSuccess)
	m.RecordRequest("not_positive")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("not_positive")))
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveCompute(2 * time.Millisecond)
	m.RecordRequest(OutcomeInternal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "fibonacci_api_fibonacci_compute_duration_seconds_count 1")
	assert.Contains(t, string(body), `fibonacci_api_fibonacci_requests_total{outcome="internal_error"} 1`)
}
