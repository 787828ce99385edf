package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the client's Prometheus collectors on a private registry.
type Metrics struct {
	Registry        *prometheus.Registry
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Throttled       prometheus.Counter
	Toasts          *prometheus.CounterVec
	Appointments    prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_client_requests_total",
			Help: "Backend requests by endpoint and status code",
		}, []string{"endpoint", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "booking_client_request_duration_seconds",
			Help:    "Duration of backend requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		Throttled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_client_throttled_total",
			Help: "Auth calls refused by the client-side limiter",
		}),
		Toasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_client_toasts_total",
			Help: "Toasts shown by type",
		}, []string{"type"}),
		Appointments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "booking_client_appointments",
			Help: "Appointments held by the current session",
		}),
	}
	reg.MustRegister(m.Requests, m.RequestDuration, m.Throttled, m.Toasts, m.Appointments)
	return m
}

// ObserveRequest records one backend call. code 0 means the request never
// got a response.
func (m *Metrics) ObserveRequest(endpoint string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ObserveThrottle() {
	if m == nil {
		return
	}
	m.Throttled.Inc()
}

func (m *Metrics) ObserveToast(kind string) {
	if m == nil {
		return
	}
	m.Toasts.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetAppointments(n int) {
	if m == nil {
		return
	}
	m.Appointments.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
