package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connection metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "onyxdrift_connections_active",
			Help: "Currently open WebSocket connections",
		},
	)

	RegisteredUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "onyxdrift_registered_users",
			Help: "Users currently present in the connection registry",
		},
	)

	// Relay metrics
	MessagesRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onyxdrift_messages_relayed_total",
			Help: "Direct messages forwarded to a recipient connection",
		},
	)

	RoutingMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onyxdrift_routing_misses_total",
			Help: "Direct messages dropped because the recipient was offline",
		},
	)

	// Call signaling metrics
	SignalsRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onyxdrift_signals_relayed_total",
			Help: "Call-signaling payloads forwarded to room peers",
		},
	)

	ActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "onyxdrift_call_rooms_active",
			Help: "Call rooms with at least one member",
		},
	)

	// Transport metrics
	FramesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onyxdrift_frames_rejected_total",
			Help: "Inbound frames rejected before reaching the hub",
		},
		[]string{"reason"},
	)
)
