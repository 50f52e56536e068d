package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics carries the process counters around an explicit registry so tests
// can construct isolated instances.
type Metrics struct {
	Registry *prometheus.Registry

	LiveConnections      prometheus.Gauge
	NotificationsCreated prometheus.Counter
	EventsDelivered      prometheus.Counter
	DroppedEvents        prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		LiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notifications_live_connections",
			Help: "Currently open live-stream connections.",
		}),
		NotificationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notifications persisted since process start.",
		}),
		EventsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_events_delivered_total",
			Help: "Live events accepted by a connection send buffer.",
		}),
		DroppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_events_dropped_total",
			Help: "Live events dropped because a connection was dead or slow.",
		}),
	}
	reg.MustRegister(
		m.LiveConnections,
		m.NotificationsCreated,
		m.EventsDelivered,
		m.DroppedEvents,
		collectors.NewGoCollector(),
	)
	return m
}
