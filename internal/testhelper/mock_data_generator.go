// Package testhelper provides a seedable synthetic candle generator and a
// canned market data provider for tests and offline backtest runs.
package testhelper

import (
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-strategy/internal/types"
)

// SimulationPattern defines the type of price simulation pattern
type SimulationPattern string

const (
	// PatternIncreasing simulates a continuously increasing price trend
	PatternIncreasing SimulationPattern = "increasing"
	// PatternDecreasing simulates a continuously decreasing price trend
	PatternDecreasing SimulationPattern = "decreasing"
	// PatternVolatile simulates a volatile price oscillating around its start
	PatternVolatile SimulationPattern = "volatile"
)

// Default configuration constants
const (
	// DefaultMinimumPrice is the price floor preventing zero or negative prices
	DefaultMinimumPrice = 0.01
	// DefaultBaseVolume is the base volume for generated bars
	DefaultBaseVolume = 1000000.0
)

// MockDataConfig holds the configuration for generating mock market data
type MockDataConfig struct {
	// Symbol is the ticker symbol for the generated data
	Symbol string
	// StartTime is the open time of the first generated bar
	StartTime time.Time
	// Interval is the time between bars
	Interval time.Duration
	// NumDataPoints is the number of bars to generate
	NumDataPoints int
	// Pattern is the simulation pattern to use
	Pattern SimulationPattern
	// InitialPrice is the starting price for the simulation
	InitialPrice float64
	// TrendStrength is the per-bar trend as a fraction of price (0.0 to 1.0)
	TrendStrength float64
	// VolatilityPercent is the noise amplitude as a percentage of price
	VolatilityPercent float64
	// Seed is the random seed for reproducible results. If 0, uses current time
	Seed int64
}

// MockDataGenerator generates deterministic mock market data. The random
// source is owned by the generator so two generators with the same seed and
// config produce identical series.
type MockDataGenerator struct {
	config MockDataConfig
	rng    *rand.Rand
}

// NewMockDataGenerator creates a new MockDataGenerator with the given configuration
func NewMockDataGenerator(config MockDataConfig) *MockDataGenerator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if config.InitialPrice <= 0 {
		config.InitialPrice = 100.0
	}

	if config.TrendStrength <= 0 {
		config.TrendStrength = 0.01
	}

	if config.VolatilityPercent <= 0 {
		config.VolatilityPercent = 2.0
	}

	if config.Interval <= 0 {
		config.Interval = time.Minute
	}

	if config.StartTime.IsZero() {
		config.StartTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	return &MockDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Generate produces the configured number of candles.
func (g *MockDataGenerator) Generate() []types.MarketData {
	candles := make([]types.MarketData, 0, g.config.NumDataPoints)
	price := g.config.InitialPrice

	for i := 0; i < g.config.NumDataPoints; i++ {
		open := price
		price = g.nextClose(price)

		high := open
		if price > high {
			high = price
		}

		low := open
		if price < low {
			low = price
		}

		// Stretch the wick a little beyond the body.
		wick := price * g.config.VolatilityPercent / 100 * g.rng.Float64() * 0.5
		high += wick
		low -= wick

		if low < DefaultMinimumPrice {
			low = DefaultMinimumPrice
		}

		candles = append(candles, types.MarketData{
			Time:   g.config.StartTime.Add(time.Duration(i) * g.config.Interval),
			Symbol: g.config.Symbol,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: DefaultBaseVolume * (0.5 + g.rng.Float64()),
		})
	}

	return candles
}

func (g *MockDataGenerator) nextClose(price float64) float64 {
	noise := (g.rng.Float64() - 0.5) * price * g.config.VolatilityPercent / 100
	trend := price * g.config.TrendStrength

	var next float64

	switch g.config.Pattern {
	case PatternIncreasing:
		next = price + trend + noise*0.3
	case PatternDecreasing:
		next = price - trend + noise*0.3
	case PatternVolatile:
		next = price + noise
	default:
		next = price + noise
	}

	if next < DefaultMinimumPrice {
		next = DefaultMinimumPrice
	}

	return next
}
