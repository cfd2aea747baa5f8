// Package metrics defines the custom Prometheus metrics for the realty API.
// It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "realty"

// InquiriesCreatedTotal counts opened negotiation threads.
var InquiriesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inquiries_created_total",
		Help:      "Total number of inquiries created.",
	},
)

// InquiryPaymentsTotal counts inquiry payment attempts.
// Label:
//   - result: "success", "insufficient_funds", or "error"
var InquiryPaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inquiry_payments_total",
		Help:      "Total number of inquiry payment attempts, by result.",
	},
	[]string{"result"},
)

// BookingsCreatedTotal counts booking requests.
// Label:
//   - kind: "rent" or "pg"
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of booking requests, by kind.",
	},
	[]string{"kind"},
)

// WalletOperationsTotal counts ledger mutations.
// Labels:
//   - type: "CREDIT" or "DEBIT"
//   - result: "success" or "error"
var WalletOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wallet_operations_total",
		Help:      "Total number of wallet ledger operations, by type and result.",
	},
	[]string{"type", "result"},
)

// WsConnections tracks the number of live WebSocket connections.
var WsConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_connections",
		Help:      "Current number of live WebSocket connections.",
	},
)

// HubGauge adapts the connection gauge to the hub's metrics interface.
type HubGauge struct{}

func (HubGauge) ConnectionOpened() { WsConnections.Inc() }
func (HubGauge) ConnectionClosed() { WsConnections.Dec() }
