package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentOrdersTotal,
		paymentCapturesTotal,
		paymentRevenueTotal,
		gatewayCallsTotal,
	)
}

var (
	paymentOrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_orders_total",
			Help: "Gateway orders created, by kind (contact_fee/plan/checkout/contact_request).",
		},
		[]string{"kind"},
	)

	paymentCapturesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_captures_total",
			Help: "Capture attempts by kind and outcome (succeeded/failed).",
		},
		[]string{"kind", "outcome"},
	)

	paymentRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_revenue_total",
			Help: "Monetary value of successful captures, by kind.",
		},
		[]string{"kind"},
	)

	gatewayCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Outbound payment-gateway calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)
)

func IncPaymentOrder(kind string) {
	paymentOrdersTotal.WithLabelValues(norm(kind)).Inc()
}

func IncPaymentCapture(kind, outcome string) {
	paymentCapturesTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}

func AddPaymentRevenue(kind string, amount float64) {
	paymentRevenueTotal.WithLabelValues(norm(kind)).Add(amount)
}

func IncGatewayCall(op, outcome string) {
	gatewayCallsTotal.WithLabelValues(norm(op), norm(outcome)).Inc()
}
