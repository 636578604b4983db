package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PurchasesTotal counts purchase attempts by outcome (completed, replayed, failed, conflict)
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "purchases",
			Name:      "total",
			Help:      "The total number of purchase attempts by outcome",
		},
		[]string{"outcome"},
	)

	// PurchaseDuration time spent processing purchases (summary with quantiles 0.5, 0.9, and 0.99)
	PurchaseDuration = promauto.NewSummary(
		prometheus.SummaryOpts{
			Namespace:  "purchases",
			Name:       "duration_seconds",
			Help:       "The total time spent processing purchases",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
	)

	// TicketSubmissionsTotal counts ticket submission attempts by result (submitted, failed)
	TicketSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticket_submissions",
			Name:      "total",
			Help:      "The total number of ticket submission attempts by result",
		},
		[]string{"result"},
	)

	// IdempotencyRecordsCleaned counts idempotency records removed by the cleanup sweep
	IdempotencyRecordsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "idempotency",
			Name:      "records_cleaned_total",
			Help:      "The total number of expired idempotency records removed",
		},
	)
)
