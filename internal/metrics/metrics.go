package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argo_strategy_decisions_total",
			Help: "Total number of live evaluations (by decision kind).",
		},
		[]string{"kind"},
	)

	ProviderFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "argo_strategy_provider_failures_total",
			Help: "Total number of market data provider failures observed by the decision engine.",
		},
	)

	BacktestRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "argo_strategy_backtest_runs_total",
			Help: "Total number of backtest runs executed.",
		},
	)

	BacktestTradesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "argo_strategy_backtest_trades_total",
			Help: "Total number of fills recorded across backtest runs.",
		},
	)
)

func init() {
	prometheus.MustRegister(DecisionsTotal, ProviderFailuresTotal, BacktestRunsTotal, BacktestTradesTotal)
}
