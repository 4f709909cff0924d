// Package metrics exposes Prometheus collectors for HTTP traffic and the
// booking domain. A nil *Metrics is valid and records nothing, so callers do
// not need to branch on whether metrics are enabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tenniscourts"

// Booking rejection reasons.
const (
	ReasonValidation = "validation"
	ReasonConflict   = "conflict"
	ReasonQuota      = "quota"
	ReasonLocked     = "locked"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	bookingsCreated    prometheus.Counter
	bookingsCancelled  prometheus.Counter
	bookingRejections  *prometheus.CounterVec
	chargesRecorded    *prometheus.CounterVec
	chargeCacheLookups *prometheus.CounterVec
	voucherResolutions *prometheus.CounterVec
}

func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests by route, method and status code.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by route and method.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "bookings_created_total",
			Help:        "Bookings confirmed.",
			ConstLabels: labels,
		}),
		bookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "bookings_cancelled_total",
			Help:        "Bookings moved to cancelled.",
			ConstLabels: labels,
		}),
		bookingRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "booking_rejections_total",
			Help:        "Booking attempts rejected, by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		chargesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "charges_recorded_total",
			Help:        "Mock charges recorded, by status.",
			ConstLabels: labels,
		}, []string{"status"}),
		chargeCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "charge_cache_lookups_total",
			Help:        "Charge cache lookups, by result.",
			ConstLabels: labels,
		}, []string{"result"}),
		voucherResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "voucher_resolutions_total",
			Help:        "Voucher lookups, by the source that resolved them.",
			ConstLabels: labels,
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.bookingsCreated,
		m.bookingsCancelled,
		m.bookingRejections,
		m.chargesRecorded,
		m.chargeCacheLookups,
		m.voucherResolutions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one request. route is the registered pattern, never the
// raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

func (m *Metrics) BookingCancelled() {
	if m == nil {
		return
	}
	m.bookingsCancelled.Inc()
}

func (m *Metrics) BookingRejected(reason string) {
	if m == nil {
		return
	}
	m.bookingRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ChargeRecorded(status string) {
	if m == nil {
		return
	}
	m.chargesRecorded.WithLabelValues(status).Inc()
}

func (m *Metrics) ChargeCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.chargeCacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) VoucherResolved(source string) {
	if m == nil {
		return
	}
	m.voucherResolutions.WithLabelValues(source).Inc()
}
