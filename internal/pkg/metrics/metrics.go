// Package metrics exposes Prometheus instrumentation for the notification
// dispatcher. Dispatch is best-effort, so counters are the only way to see
// how many messages were actually delivered, retried, or dropped.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DispatchMetrics counts notification delivery outcomes per channel.
type DispatchMetrics struct {
	Deliveries *prometheus.CounterVec
}

// NewDispatchMetrics creates and registers dispatch counters on the provided
// registerer. Pass prometheus.DefaultRegisterer in production wiring and a
// fresh registry in tests.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace",
		Subsystem: "notifications",
		Name:      "deliveries_total",
		Help:      "Notification delivery attempts by channel and outcome.",
	}, []string{"channel", "outcome"})

	reg.MustRegister(deliveries)
	return &DispatchMetrics{Deliveries: deliveries}
}

// ObserveDelivery records one delivery outcome (delivered, dropped, or
// skipped) for a channel.
func (m *DispatchMetrics) ObserveDelivery(channel, outcome string) {
	m.Deliveries.WithLabelValues(channel, outcome).Inc()
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
