// Package backtest replays a compiled strategy bar-by-bar over a historical
// price series and derives trade, equity, and summary statistics.
package backtest

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-strategy/internal/indicator"
	"github.com/rxtech-lab/argo-strategy/internal/logger"
	"github.com/rxtech-lab/argo-strategy/internal/metrics"
	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultInitialCapital is the notional equity a run starts with.
	DefaultInitialCapital = 10000.0

	// exitThreshold is the fixed exit rule: close any open position once the
	// indicator rises above 70, independent of the compiled condition. The
	// entry condition comes from the strategy; the exit does not.
	exitThreshold = 70.0
)

// SimulatorConfig is the YAML-configurable part of the simulator.
type SimulatorConfig struct {
	InitialCapital float64 `yaml:"initial_capital" validate:"gte=0"`
}

// Simulator replays strategies over historical candles. It performs no I/O
// and runs to completion synchronously; all state is local to a single Run
// invocation, so a Simulator may be shared across goroutines as long as
// OnProgress is set before first use.
type Simulator struct {
	config   SimulatorConfig
	registry indicator.IndicatorRegistry
	log      *logger.Logger

	// OnProgress, when set, is called after each processed bar with the
	// number of bars done and the total.
	OnProgress func(done, total int)
}

// NewSimulator creates a simulator with default configuration and all
// built-in indicators registered.
func NewSimulator(log *logger.Logger) *Simulator {
	return &Simulator{
		config:     SimulatorConfig{InitialCapital: DefaultInitialCapital},
		registry:   indicator.NewDefaultIndicatorRegistry(),
		log:        log,
		OnProgress: nil,
	}
}

// Initialize parses a YAML config document. Omitted fields keep their
// defaults.
func (s *Simulator) Initialize(config string) error {
	if err := yaml.Unmarshal([]byte(config), &s.config); err != nil {
		return err
	}

	if s.config.InitialCapital == 0 {
		s.config.InitialCapital = DefaultInitialCapital
	}

	if err := validator.New().Struct(s.config); err != nil {
		return err
	}

	return nil
}

// position is the simulator's state machine: flat or holding exactly one
// open position.
type position struct {
	open       bool
	entryPrice float64
}

// Run replays the strategy over the candle series. It has no failure
// channel: a malformed or partially specified strategy is repaired with the
// same defaults the compiler applies, rather than rejected. This is
// deliberately asymmetric with the compiler's strict validation; callers
// wanting strictness should compile first.
func (s *Simulator) Run(strategy types.Strategy, candles []types.MarketData) types.BacktestResult {
	strategy = strategy.WithDefaults()
	series := s.computeSeries(&strategy, candles)

	initialEquity := decimal.NewFromFloat(s.config.InitialCapital)
	equity := initialEquity
	peakEquity := initialEquity
	maxDrawdown := decimal.Zero

	var (
		pos           position
		trades        []types.Trade
		equityCurve   []types.PortfolioPoint
		priceSeries   []types.AnnotatedBar
		winningTrades int
		grossProfit   = decimal.Zero
		grossLoss     = decimal.Zero
	)

	for i, candle := range candles {
		value := series[i]
		priceSeries = append(priceSeries, types.AnnotatedBar{
			MarketData: candle,
			Indicator:  value,
		})

		if s.OnProgress != nil {
			s.OnProgress(i+1, len(candles))
		}

		if value.IsNone() {
			continue
		}

		indicatorValue := value.Unwrap()

		if !pos.open && conditionHolds(strategy.Condition.Operator, indicatorValue, strategy.Condition.Threshold) {
			pos = position{open: true, entryPrice: candle.Close}
			trades = append(trades, types.Trade{
				Time:  candle.Time,
				Side:  types.TradeSideBuy,
				Price: candle.Close,
			})
		} else if pos.open && indicatorValue > exitThreshold {
			profit := decimal.NewFromFloat(candle.Close).Sub(decimal.NewFromFloat(pos.entryPrice))
			equity = equity.Add(profit)

			if profit.IsPositive() {
				winningTrades++

				grossProfit = grossProfit.Add(profit)
			} else {
				grossLoss = grossLoss.Add(profit.Neg())
			}

			trades = append(trades, types.Trade{
				Time:  candle.Time,
				Side:  types.TradeSideSell,
				Price: candle.Close,
			})
			pos = position{open: false, entryPrice: 0}
		}

		if equity.GreaterThan(peakEquity) {
			peakEquity = equity
		}

		if peakEquity.IsPositive() {
			drawdown := peakEquity.Sub(equity).Div(peakEquity)
			if drawdown.GreaterThan(maxDrawdown) {
				maxDrawdown = drawdown
			}
		}

		equityCurve = append(equityCurve, types.PortfolioPoint{
			Time:   candle.Time,
			Equity: equity.InexactFloat64(),
		})
	}

	stats := deriveStats(initialEquity, equity, maxDrawdown, grossProfit, grossLoss, len(trades), winningTrades)

	metrics.BacktestRunsTotal.Inc()
	metrics.BacktestTradesTotal.Add(float64(len(trades)))

	result := types.BacktestResult{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Symbol:      symbolOf(candles),
		Strategy:    strategy,
		EquityCurve: equityCurve,
		Trades:      trades,
		PriceSeries: priceSeries,
		Stats:       stats,
	}

	s.log.Info("backtest run complete",
		zap.String("run_id", result.ID),
		zap.Int("bars", len(candles)),
		zap.Int("total_trades", stats.TotalTrades),
		zap.Float64("net_profit_pct", stats.NetProfitPct),
		zap.Float64("max_drawdown_pct", stats.MaxDrawdownPct),
	)

	return result
}

// computeSeries resolves and configures the indicator, falling back to the
// defaults when the strategy names something unknown. The simulator has no
// failure channel, so repair is the only option here.
func (s *Simulator) computeSeries(strategy *types.Strategy, candles []types.MarketData) indicator.Series {
	ind, err := s.registry.GetIndicator(strategy.Indicator.Type)
	if err != nil {
		s.log.Warn("unknown indicator type, substituting default",
			zap.String("type", string(strategy.Indicator.Type)),
			zap.String("default", string(types.DefaultIndicatorType)),
		)

		strategy.Indicator.Type = types.DefaultIndicatorType
		ind, _ = s.registry.GetIndicator(strategy.Indicator.Type)
	}

	if err := ind.Config(strategy.Indicator.Period); err != nil {
		s.log.Warn("invalid indicator period, substituting default",
			zap.Int("period", strategy.Indicator.Period),
			zap.Int("default", types.DefaultPeriod),
		)

		strategy.Indicator.Period = types.DefaultPeriod
		//nolint:errcheck // default period is always valid
		ind.Config(strategy.Indicator.Period)
	}

	series, err := ind.Compute(types.ClosePrices(candles))
	if err != nil {
		// Built-in indicators only fail on configuration, which was repaired
		// above; an empty series keeps the run total and harmless.
		series = make(indicator.Series, len(candles))
		for i := range series {
			series[i] = optional.None[float64]()
		}
	}

	return series
}

// conditionHolds is the entry trigger. Unlike the decision engine it has no
// error channel: operators without evaluation semantics (crossover included)
// simply never trigger an entry.
func conditionHolds(operator types.Operator, value, threshold float64) bool {
	switch operator {
	case types.OperatorGreaterThan:
		return value > threshold
	case types.OperatorLessThan:
		return value < threshold
	default:
		return false
	}
}

func deriveStats(initialEquity, equity, maxDrawdown, grossProfit, grossLoss decimal.Decimal, fills, winningTrades int) types.BacktestStats {
	totalTrades := fills / 2

	winRate := 0.0
	if totalTrades > 0 {
		winRate = float64(winningTrades) / float64(totalTrades) * 100
	}

	netProfitPct := 0.0
	if initialEquity.IsPositive() {
		netProfitPct = equity.Sub(initialEquity).Div(initialEquity).InexactFloat64() * 100
	}

	profitFactor := 0.0

	switch {
	case grossLoss.IsZero() && grossProfit.IsPositive():
		profitFactor = math.Inf(1)
	case grossLoss.IsPositive():
		profitFactor = grossProfit.Div(grossLoss).InexactFloat64()
	}

	return types.BacktestStats{
		NetProfitPct:   netProfitPct,
		TotalTrades:    totalTrades,
		WinRatePct:     winRate,
		MaxDrawdownPct: maxDrawdown.InexactFloat64() * 100,
		ProfitFactor:   profitFactor,
	}
}

func symbolOf(candles []types.MarketData) string {
	if len(candles) == 0 {
		return ""
	}

	return candles[0].Symbol
}
