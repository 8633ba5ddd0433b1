// Package metrics holds the Prometheus collectors of the portal service.
// Every helper is safe on a nil *Metrics so services can run without them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "barangay_portal"

type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	RateLimited  *prometheus.CounterVec

	// GateDecisions counts authorization outcomes by operation.
	GateDecisions *prometheus.CounterVec

	ResidentsCreated prometheus.Counter
	IDCollisions     prometheus.Counter

	// QRCodes counts artifact lookups by result: cached, generated, failed.
	QRCodes *prometheus.CounterVec

	Logins *prometheus.CounterVec
}

// New registers every collector, plus the Go and process collectors, on a
// private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),

		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"profile"}),

		GateDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_decisions_total",
			Help:      "Resident authorization decisions by operation and outcome.",
		}, []string{"operation", "decision"}),

		ResidentsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "residents_created_total",
			Help:      "Residents registered.",
		}),

		IDCollisions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "id_allocation_collisions_total",
			Help:      "Allocated identifiers that were already taken and retried.",
		}),

		QRCodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_codes_total",
			Help:      "QR artifact lookups by result.",
		}, []string{"result"}),

		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ObserveHTTP(route string, code int, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
	}
}

func (m *Metrics) IncRateLimited(profile string) {
	if m != nil {
		m.RateLimited.WithLabelValues(profile).Inc()
	}
}

func (m *Metrics) IncGateDecision(operation string, allowed bool) {
	if m != nil {
		decision := "denied"
		if allowed {
			decision = "allowed"
		}
		m.GateDecisions.WithLabelValues(operation, decision).Inc()
	}
}

func (m *Metrics) IncResidentsCreated() {
	if m != nil {
		m.ResidentsCreated.Inc()
	}
}

func (m *Metrics) IncIDCollision() {
	if m != nil {
		m.IDCollisions.Inc()
	}
}

func (m *Metrics) IncQRCode(result string) {
	if m != nil {
		m.QRCodes.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncLogin(result string) {
	if m != nil {
		m.Logins.WithLabelValues(result).Inc()
	}
}
