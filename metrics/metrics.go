package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gomp_orders_submitted_total",
			Help: "Total number of orders submitted (by strategy).",
		},
		[]string{"strategy"},
	)

	SignalsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gomp_signals_detected_total",
			Help: "Structure / profile / pair signals detected (by kind).",
		},
		[]string{"kind"},
	)

	ProfilesBuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gomp_profiles_built_total",
			Help: "Volume profiles computed.",
		},
	)

	SpreadZScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gomp_pair_spread_zscore",
			Help: "Current spread z-score per monitored pair.",
		},
		[]string{"pair"},
	)

	EquityGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gomp_equity",
			Help: "Current equity of the executor (paper or live).",
		},
	)
)

func init() {
	prometheus.MustRegister(OrdersSubmitted, SignalsDetected, ProfilesBuilt, SpreadZScore, EquityGauge)
}
