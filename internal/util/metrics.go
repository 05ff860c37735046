package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_created_total",
		Help: "Total number of sales committed",
	})

	SalesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_failed_total",
		Help: "Total number of sale transactions rolled back",
	}, []string{"reason"})

	SalesAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_amount_total",
		Help: "Sum of monto_total over committed sales",
	})

	SaleTransactionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sale_transaction_latency_seconds",
		Help:    "Latency of the sale creation transaction",
		Buckets: prometheus.DefBuckets,
	})

	IdempotentReplaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sale_idempotent_replays_total",
		Help: "Total number of sale requests answered from a stored Idempotency-Key response",
	})

	DeleteOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_delete_outcomes_total",
		Help: "Delete attempts by entity and outcome",
	}, []string{"entity", "outcome"})

	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_errors_total",
		Help: "Store failures logged at the service boundary",
	}, []string{"operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
