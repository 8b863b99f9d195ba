// Package metrics exposes Prometheus instrumentation for the postbox server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Connection metrics
var (
	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "postbox_connections_total",
			Help: "Total number of accepted connections",
		},
	)

	ConnectionsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "postbox_connections_current",
			Help: "Current number of open connections",
		},
	)

	FrameErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "postbox_frame_errors_total",
			Help: "Connections closed because of a malformed frame",
		},
	)
)

// Request metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postbox_requests_total",
			Help: "Requests handled, by request type and response code",
		},
		[]string{"type", "code"},
	)

	MessagesDeposited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "postbox_messages_deposited_total",
			Help: "Messages accepted into a mailbox",
		},
	)

	MessagesDrained = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "postbox_messages_drained_total",
			Help: "Messages handed out by DOWNLOAD",
		},
	)
)

// Store metrics
var (
	UsersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "postbox_users_total",
			Help: "Registered users",
		},
	)

	PendingMessages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "postbox_pending_messages",
			Help: "Messages waiting in mailboxes",
		},
	)
)

// KnownRequestType folds arbitrary client-supplied request types into a
// bounded label set.
func KnownRequestType(t string) string {
	switch t {
	case "REGISTER", "LOGIN", "MESSAGE", "DOWNLOAD":
		return t
	default:
		return "UNKNOWN"
	}
}
