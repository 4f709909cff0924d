package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
		m.BookingCreated()
		m.BookingCancelled()
		m.BookingRejected(ReasonQuota)
		m.ChargeRecorded("paid")
		m.ChargeCacheLookup(true)
		m.VoucherResolved("stored")
	})
}

func TestDomainCounters(t *testing.T) {
	m := New("test")

	m.BookingCreated()
	m.BookingCreated()
	m.BookingRejected(ReasonConflict)
	m.ChargeRecorded("failed")
	m.VoucherResolved("bookings")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingRejections.WithLabelValues(ReasonConflict)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.bookingRejections.WithLabelValues(ReasonQuota)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chargesRecorded.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.voucherResolutions.WithLabelValues("bookings")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New("test")
	m.ObserveHTTP(http.MethodPost, "/api/bookings", http.StatusCreated, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `tenniscourts_http_requests_total{method="POST",route="/api/bookings",service="test",status="201"} 1`))
	assert.Contains(t, body, "tenniscourts_http_request_duration_seconds")
}
