package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CountsTogglesByTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.IncToggle("STARTED")
	svc.IncToggle("EXTENDED")
	svc.IncToggle("EXTENDED")
	svc.IncReservationsSubmitted()

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.Toggles.WithLabelValues("STARTED")))
	assert.Equal(t, 2.0, testutil.ToFloat64(svc.Toggles.WithLabelValues("EXTENDED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.ReservationsSubmitted))
}

func TestMetricsHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)
	svc.SetStartupTime(1.5)

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "arena_startup_duration_seconds 1.5")
}
