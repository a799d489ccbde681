package types

import (
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// TradeSide is the side of a simulated trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Trade is a single fill recorded by the backtest simulator.
type Trade struct {
	Time  time.Time `yaml:"time"`
	Side  TradeSide `yaml:"side"`
	Price float64   `yaml:"price"`
}

// PortfolioPoint is one point of the equity curve.
type PortfolioPoint struct {
	Time   time.Time `yaml:"time"`
	Equity float64   `yaml:"equity"`
}

// AnnotatedBar is a candle joined with the indicator value computed for it.
type AnnotatedBar struct {
	MarketData `yaml:",inline"`
	// Indicator is None during the warm-up period.
	Indicator optional.Option[float64] `yaml:"-"`
}

// BacktestStats is the summary of a backtest run.
type BacktestStats struct {
	// NetProfitPct is the equity change relative to initial equity, in percent.
	NetProfitPct float64 `yaml:"net_profit_pct"`
	// TotalTrades counts completed round trips (paired buy/sell).
	TotalTrades int `yaml:"total_trades"`
	// WinRatePct is winning round trips over total round trips, in percent.
	WinRatePct float64 `yaml:"win_rate_pct"`
	// MaxDrawdownPct is the largest peak-relative equity decline, in percent.
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct"`
	// ProfitFactor is gross profit over gross loss. +Inf when there are
	// winners and no losers, 0 when there are no trades at all.
	ProfitFactor float64 `yaml:"profit_factor"`
}

// BacktestResult is the full output of a backtest run.
type BacktestResult struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// Symbol of the trading pair, when known.
	Symbol string `yaml:"symbol"`
	// Strategy is the (default-repaired) strategy the run used.
	Strategy Strategy `yaml:"strategy"`
	// EquityCurve has one point per bar with a defined indicator value.
	EquityCurve []PortfolioPoint `yaml:"-"`
	// Trades lists all fills in order.
	Trades []Trade `yaml:"trades"`
	// PriceSeries is the input series annotated with indicator values.
	PriceSeries []AnnotatedBar `yaml:"-"`
	// Stats is the derived summary.
	Stats BacktestStats `yaml:"stats"`
}

// WriteBacktestStats marshals the result header (strategy, trades, stats) to
// YAML and writes it to the given path. The equity curve and annotated price
// series are presentation data and are left to the caller to serialize.
func WriteBacktestStats(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
