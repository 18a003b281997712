package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "questline",
		Subsystem: "ws",
		Name:      "connections",
		Help:      "Open websocket connections",
	})
	wsEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "questline",
			Subsystem: "ws",
			Name:      "events_total",
			Help:      "Realtime events, by event and delivery outcome",
		},
		[]string{"event", "outcome"},
	)
)
