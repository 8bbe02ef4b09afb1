package uasession

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the optional Prometheus instrumentation surface for a
// Session (SPEC_FULL.md §4.4). A nil *Metrics disables all recording, so
// the reactor never depends on Prometheus being wired.
type Metrics struct {
	pendingRequests prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics registers opcua_pending_requests and opcua_requests_total on
// reg and returns a Metrics ready to pass to NewSession. Pass a nil reg to
// skip registration and keep the metric objects usable but unrecorded
// anywhere, or pass nil Metrics itself to disable instrumentation
// entirely.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pendingRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "opcua_pending_requests",
			Help: "Number of service transactions awaiting a response, timeout, or channel close.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "opcua_requests_total",
			Help: "Service transactions completed, by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.pendingRequests, m.requestsTotal)
	}
	return m
}

const (
	outcomeRouted        = "routed"
	outcomeTimeout        = "timeout"
	outcomeChannelClosed = "channel_closed"
)

func (m *Metrics) setPending(n int) {
	if m == nil {
		return
	}
	m.pendingRequests.Set(float64(n))
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
}
