package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksync_operations_created_total",
		Help: "Total number of sync operations created.",
	})

	OperationsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_operations_processed_total",
		Help: "Total number of advance() outcomes by result.",
	},
		[]string{"result"},
	)

	StockDeductionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksync_stock_deductions_total",
		Help: "Total number of orders fully deducted from the stock ledger.",
	})

	ValidationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksync_validation_failures_total",
		Help: "Total number of advance() cycles blocked by insufficient stock.",
	})

	ReconcileDiscrepanciesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_reconcile_discrepancies_total",
		Help: "Total number of reconciliation discrepancies by resolution.",
	},
		[]string{"resolution"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocksync_notifications_sent_total",
		Help: "Total number of notifications sent by channel.",
	},
		[]string{"channel"},
	)

	NotificationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksync_notifications_dropped_total",
		Help: "Total number of queued notifications dropped after exhausting retries.",
	})

	NotificationsSuppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocksync_notifications_suppressed_total",
		Help: "Total number of notifications withheld by the anti-spam tracker.",
	})

	PendingOperationsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stocksync_pending_operations",
		Help: "Current number of non-terminal sync operations.",
	})

	AccountCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stocksync_account_cache_items",
		Help: "Current number of entries in the account name cache.",
	})
)
