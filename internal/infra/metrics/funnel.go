package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		leadsCreatedTotal,
		leadStatusTransitions,
		notificationsTotal,
		reconcilerRunsTotal,
		reconcilerRecoveredTotal,
	)
}

var (
	leadsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Leads captured through the funnel.",
		},
	)

	leadStatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_status_transitions_total",
			Help: "Lead status transitions by resulting status.",
		},
		[]string{"to"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification deliveries by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)

	reconcilerRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "capture_reconciler_runs_total",
			Help: "Reconciler sweep iterations.",
		},
	)

	reconcilerRecoveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "capture_reconciler_recovered_total",
			Help: "Stale checkouts recovered to captured by the reconciler.",
		},
	)
)

func IncLeadCreated() { leadsCreatedTotal.Inc() }

func IncLeadTransition(to string) {
	leadStatusTransitions.WithLabelValues(norm(to)).Inc()
}

func IncNotification(channel, outcome string) {
	notificationsTotal.WithLabelValues(norm(channel), norm(outcome)).Inc()
}

func IncReconcilerRun() { reconcilerRunsTotal.Inc() }

func IncReconcilerRecovered() { reconcilerRecoveredTotal.Inc() }
