package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goqs_orders_submitted_total",
			Help: "Total number of orders submitted (by strategy and direction).",
		},
		[]string{"strategy", "direction"},
	)

	FillsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goqs_fills_applied_total",
			Help: "Total number of completed fills reconciled into strategy state.",
		},
		[]string{"strategy"},
	)

	PL = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "goqs_pl",
			Help: "Realized plus mark-to-market profit/loss per strategy.",
		},
		[]string{"strategy"},
	)

	PortfolioValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "goqs_portfolio_value",
			Help: "Starting capital plus PL per strategy.",
		},
		[]string{"strategy"},
	)

	PositionOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "goqs_position_open",
			Help: "1 while the strategy holds a position, 0 when flat.",
		},
		[]string{"strategy"},
	)
)

func init() {
	prometheus.MustRegister(OrdersSubmitted, FillsApplied, PL, PortfolioValue, PositionOpen)
}
