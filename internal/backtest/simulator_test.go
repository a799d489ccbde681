package backtest

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-strategy/internal/logger"
	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/stretchr/testify/suite"
)

type SimulatorTestSuite struct {
	suite.Suite
	simulator *Simulator
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorTestSuite))
}

func (suite *SimulatorTestSuite) SetupTest() {
	suite.simulator = NewSimulator(logger.NewNopLogger())
}

func barsFromCloses(closes []float64) []types.MarketData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.MarketData, len(closes))

	for i, c := range closes {
		candles[i] = types.MarketData{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Symbol: "BTCUSDT",
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1,
		}
	}

	return candles
}

// vShapedCloses falls long enough to pin RSI at 0, then rises long enough to
// push it over the fixed exit threshold: one full round trip, entered low and
// exited high.
func vShapedCloses() []float64 {
	var closes []float64

	price := 100.0
	for i := 0; i < 20; i++ {
		closes = append(closes, price)
		price -= 0.75
	}

	for i := 0; i < 30; i++ {
		price += 1.0
		closes = append(closes, price)
	}

	return closes
}

func defaultStrategy() types.Strategy {
	return types.Strategy{}.WithDefaults()
}

func (suite *SimulatorTestSuite) TestNoTradesOnMonotonicRise() {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	result := suite.simulator.Run(defaultStrategy(), barsFromCloses(closes))

	suite.Empty(result.Trades)
	suite.Equal(0, result.Stats.TotalTrades)
	suite.Equal(0.0, result.Stats.NetProfitPct)
	suite.Equal(0.0, result.Stats.MaxDrawdownPct)
	suite.Equal(0.0, result.Stats.WinRatePct)
	suite.Equal(0.0, result.Stats.ProfitFactor)
}

func (suite *SimulatorTestSuite) TestSingleWinningRoundTrip() {
	result := suite.simulator.Run(defaultStrategy(), barsFromCloses(vShapedCloses()))

	suite.Len(result.Trades, 2)
	suite.Equal(types.TradeSideBuy, result.Trades[0].Side)
	suite.Equal(types.TradeSideSell, result.Trades[1].Side)
	suite.Greater(result.Trades[1].Price, result.Trades[0].Price)

	suite.Equal(1, result.Stats.TotalTrades)
	suite.Equal(100.0, result.Stats.WinRatePct)
	suite.Greater(result.Stats.NetProfitPct, 0.0)
	suite.True(math.IsInf(result.Stats.ProfitFactor, 1))
	suite.Equal(0.0, result.Stats.MaxDrawdownPct)
}

func (suite *SimulatorTestSuite) TestEquityCurveCoversDefinedBars() {
	candles := barsFromCloses(vShapedCloses())
	result := suite.simulator.Run(defaultStrategy(), candles)

	// One equity point per bar past the indicator warm-up.
	suite.Len(result.EquityCurve, len(candles)-(types.DefaultPeriod-1))
	suite.Len(result.PriceSeries, len(candles))

	for i, bar := range result.PriceSeries {
		if i < types.DefaultPeriod-1 {
			suite.True(bar.Indicator.IsNone(), "bar %d should be warm-up", i)
		} else {
			suite.True(bar.Indicator.IsSome(), "bar %d should carry an indicator value", i)
		}
	}
}

func (suite *SimulatorTestSuite) TestLosingTradeDrawsDown() {
	// Fall steeply to trigger the entry, then recover so slowly that the
	// smoothed RSI crosses the exit threshold while the price is still far
	// below the entry, realizing a loss.
	var closes []float64

	price := 100.0
	for i := 0; i < 20; i++ {
		closes = append(closes, price)
		price -= 3.0
	}

	price += 3.0 // last appended close

	for i := 0; i < 50; i++ {
		price += 0.3
		closes = append(closes, price)
	}

	result := suite.simulator.Run(defaultStrategy(), barsFromCloses(closes))

	suite.Len(result.Trades, 2)
	suite.Less(result.Trades[1].Price, result.Trades[0].Price)
	suite.Equal(1, result.Stats.TotalTrades)
	suite.Equal(0.0, result.Stats.WinRatePct)
	suite.Less(result.Stats.NetProfitPct, 0.0)
	suite.Greater(result.Stats.MaxDrawdownPct, 0.0)
	suite.Equal(0.0, result.Stats.ProfitFactor)
}

func (suite *SimulatorTestSuite) TestDanglingOpenPositionNotCounted() {
	// Enter but never reach the exit threshold: the unpaired buy does not
	// count as a completed trade.
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 - float64(i)*0.5
	}

	result := suite.simulator.Run(defaultStrategy(), barsFromCloses(closes))

	suite.Len(result.Trades, 1)
	suite.Equal(types.TradeSideBuy, result.Trades[0].Side)
	suite.Equal(0, result.Stats.TotalTrades)
	suite.Equal(0.0, result.Stats.WinRatePct)
}

func (suite *SimulatorTestSuite) TestMalformedStrategyIsRepaired() {
	strategy := types.Strategy{
		Indicator: types.IndicatorSpec{Type: "bogus", Period: -5},
	}

	result := suite.simulator.Run(strategy, barsFromCloses(vShapedCloses()))

	// The simulator never fails: unknown indicator and invalid period are
	// substituted with defaults, matching the compiler's defaulting.
	suite.Equal(types.DefaultIndicatorType, result.Strategy.Indicator.Type)
	suite.Equal(types.DefaultPeriod, result.Strategy.Indicator.Period)
	suite.Equal(types.DefaultOperator, result.Strategy.Condition.Operator)
	suite.NotEmpty(result.Trades)
}

func (suite *SimulatorTestSuite) TestCrossoverNeverEnters() {
	strategy := defaultStrategy()
	strategy.Condition.Operator = types.OperatorCrossover

	result := suite.simulator.Run(strategy, barsFromCloses(vShapedCloses()))

	suite.Empty(result.Trades)
	suite.Equal(0, result.Stats.TotalTrades)
}

func (suite *SimulatorTestSuite) TestEmptySeries() {
	result := suite.simulator.Run(defaultStrategy(), nil)

	suite.Empty(result.Trades)
	suite.Empty(result.EquityCurve)
	suite.Equal(0, result.Stats.TotalTrades)
	suite.Equal(0.0, result.Stats.NetProfitPct)
	suite.NotEmpty(result.ID)
}

func (suite *SimulatorTestSuite) TestInitializeConfig() {
	suite.NoError(suite.simulator.Initialize("initial_capital: 50000\n"))
	suite.Equal(50000.0, suite.simulator.config.InitialCapital)

	suite.Error(suite.simulator.Initialize("initial_capital: -1\n"))
	suite.Error(suite.simulator.Initialize("initial_capital: [broken\n"))
}

func (suite *SimulatorTestSuite) TestOnProgressCalledPerBar() {
	candles := barsFromCloses(vShapedCloses())

	var calls int

	suite.simulator.OnProgress = func(done, total int) {
		calls++
		suite.Equal(len(candles), total)
	}

	suite.simulator.Run(defaultStrategy(), candles)
	suite.Equal(len(candles), calls)
}

func (suite *SimulatorTestSuite) TestConcurrentRunsAreIndependent() {
	// A shared simulator must not let one run's indicator period leak into
	// another: every run configures its own indicator instance.
	candles := barsFromCloses(vShapedCloses())

	short := defaultStrategy()
	short.Indicator.Period = 2

	long := defaultStrategy()
	long.Indicator.Period = 30

	wantShort := suite.simulator.Run(short, candles).Stats
	wantLong := suite.simulator.Run(long, candles).Stats
	suite.NotEqual(wantShort, wantLong)

	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			suite.Equal(wantShort, suite.simulator.Run(short, candles).Stats)
		}()

		go func() {
			defer wg.Done()
			suite.Equal(wantLong, suite.simulator.Run(long, candles).Stats)
		}()
	}

	wg.Wait()
}

func (suite *SimulatorTestSuite) TestRunIDsAreUnique() {
	candles := barsFromCloses(vShapedCloses())

	first := suite.simulator.Run(defaultStrategy(), candles)
	second := suite.simulator.Run(defaultStrategy(), candles)

	suite.NotEqual(first.ID, second.ID)
	suite.Equal(first.Stats, second.Stats)
}
