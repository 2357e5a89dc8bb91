// Package metrics exposes Prometheus collectors for ledger operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MovementsAppended counts movements successfully appended to the ledger.
	MovementsAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "movements_appended_total",
		Help:      "Movements appended to the stock ledger.",
	}, []string{"direction", "source"})

	// MovementsRejected counts movement requests rejected before append.
	MovementsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "movements_rejected_total",
		Help:      "Movement requests rejected by validation or stock checks.",
	}, []string{"reason"})

	// ConflictRetries counts internal retries after serialization conflicts.
	ConflictRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "conflict_retries_total",
		Help:      "Transactions retried after a per-product serialization conflict.",
	})

	// RequestDuration observes HTTP request latency by route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Rejection reasons.
const (
	ReasonValidation        = "validation"
	ReasonNotFound          = "not_found"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonConflict          = "conflict"
)
