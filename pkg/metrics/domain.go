package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Materializations counts materializer runs by outcome:
	// created, already_materialized, lock_busy, failed.
	Materializations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "materializer",
			Name:      "runs_total",
			Help:      "Order materialization runs by result",
		},
		[]string{"result"},
	)

	MaterializationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "materializer",
			Name:      "run_duration_seconds",
			Help:      "Duration of materialization runs that acquired the lock",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	VendorGroups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "materializer",
			Name:      "vendor_groups_total",
			Help:      "Vendor groups processed by result: created, existing, failed",
		},
		[]string{"result"},
	)

	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Payment gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "retries_total",
			Help:      "Payment gateway retry attempts by operation",
		},
		[]string{"operation"},
	)

	PaymentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "transitions_total",
			Help:      "Payment status transitions by target status",
		},
		[]string{"type", "status"},
	)

	EscrowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "escrow",
			Name:      "transitions_total",
			Help:      "Escrow transitions by action and result",
		},
		[]string{"action", "result"},
	)

	CommissionRemittances = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commission",
			Name:      "remittances_total",
			Help:      "COD commission remittances by result",
		},
		[]string{"result"},
	)

	SweepUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "updated_total",
			Help:      "Entities moved forward by the expiry sweep",
		},
		[]string{"kind"},
	)
)

func init() {
	Registry.MustRegister(
		Materializations,
		MaterializationDuration,
		VendorGroups,
		GatewayRequests,
		GatewayRetries,
		PaymentTransitions,
		EscrowTransitions,
		CommissionRemittances,
		SweepUpdates,
	)
}
