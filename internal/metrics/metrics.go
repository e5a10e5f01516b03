package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myapp_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	ClaimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myapp_claims_total",
		Help: "Claim attempts by result (won, conflict, error).",
	},
		[]string{"result"},
	)

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myapp_order_transitions_total",
		Help: "Committed order status transitions.",
	},
		[]string{"from", "to"},
	)

	ProofScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myapp_proof_scans_total",
		Help: "Proof-of-delivery scans by result.",
	},
		[]string{"result"},
	)

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myapp_notifications_total",
		Help: "Notification sends by event and result.",
	},
		[]string{"event", "result"},
	)

	RefundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myapp_refunds_total",
		Help: "Refund requests by recorded transaction status.",
	},
		[]string{"status"},
	)

	PayoutsApprovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "myapp_payouts_approved_total",
		Help: "Total number of payouts approved by an operator.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myapp_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OutboxMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myapp_outbox_messages_total",
		Help: "Outbox tasks handed to the broker by topic and result (sent, failed, dropped).",
	},
		[]string{"topic", "result"},
	)

	ClaimableCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "myapp_claimable_cache_items",
		Help: "Current number of orders in the claimable cache.",
	})
)
