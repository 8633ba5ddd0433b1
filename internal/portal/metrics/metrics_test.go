package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.ObserveHTTP("GET /livez", 200, time.Millisecond)
		m.IncGateDecision("read", false)
		m.IncResidentsCreated()
		m.IncIDCollision()
		m.IncQRCode("cached")
		m.IncLogin("success")
		m.IncRateLimited("strict")
	})
}

func TestCountersAndHandler(t *testing.T) {
	m := metrics.New()

	m.IncGateDecision("read", true)
	m.IncGateDecision("read", false)
	m.IncGateDecision("read", false)
	m.IncQRCode("generated")
	m.ObserveHTTP("GET /v1/residents", 200, 10*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.GateDecisions.WithLabelValues("read", "denied")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.GateDecisions.WithLabelValues("read", "allowed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.QRCodes.WithLabelValues("generated")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "barangay_portal_authorization_decisions_total")
	require.Contains(t, string(body), `route="GET /v1/residents"`)
	require.Contains(t, string(body), "go_goroutines")
}
