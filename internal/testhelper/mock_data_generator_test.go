package testhelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MockDataGeneratorTestSuite struct {
	suite.Suite
}

func TestMockDataGeneratorSuite(t *testing.T) {
	suite.Run(t, new(MockDataGeneratorTestSuite))
}

func baseConfig(pattern SimulationPattern) MockDataConfig {
	return MockDataConfig{
		Symbol:        "BTCUSDT",
		NumDataPoints: 100,
		Pattern:       pattern,
		InitialPrice:  100,
		Seed:          42,
	}
}

func (suite *MockDataGeneratorTestSuite) TestSameSeedSameSeries() {
	first := NewMockDataGenerator(baseConfig(PatternVolatile)).Generate()
	second := NewMockDataGenerator(baseConfig(PatternVolatile)).Generate()

	suite.Equal(first, second)
}

func (suite *MockDataGeneratorTestSuite) TestDifferentSeedsDiffer() {
	config := baseConfig(PatternVolatile)
	config.Seed = 7

	first := NewMockDataGenerator(baseConfig(PatternVolatile)).Generate()
	second := NewMockDataGenerator(config).Generate()

	suite.NotEqual(first, second)
}

func (suite *MockDataGeneratorTestSuite) TestIncreasingPatternTrendsUp() {
	candles := NewMockDataGenerator(baseConfig(PatternIncreasing)).Generate()

	suite.Len(candles, 100)
	suite.Greater(candles[len(candles)-1].Close, candles[0].Open)
}

func (suite *MockDataGeneratorTestSuite) TestDecreasingPatternTrendsDown() {
	candles := NewMockDataGenerator(baseConfig(PatternDecreasing)).Generate()

	suite.Less(candles[len(candles)-1].Close, candles[0].Open)
}

func (suite *MockDataGeneratorTestSuite) TestBarShapeIsConsistent() {
	candles := NewMockDataGenerator(baseConfig(PatternVolatile)).Generate()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, candle := range candles {
		suite.Equal("BTCUSDT", candle.Symbol)
		suite.Equal(start.Add(time.Duration(i)*time.Minute), candle.Time)
		suite.GreaterOrEqual(candle.High, candle.Open)
		suite.GreaterOrEqual(candle.High, candle.Close)
		suite.LessOrEqual(candle.Low, candle.Open)
		suite.LessOrEqual(candle.Low, candle.Close)
		suite.GreaterOrEqual(candle.Low, DefaultMinimumPrice)
		suite.Greater(candle.Volume, 0.0)
	}
}

func (suite *MockDataGeneratorTestSuite) TestDefaultsApplied() {
	generator := NewMockDataGenerator(MockDataConfig{NumDataPoints: 10, Seed: 1})
	candles := generator.Generate()

	suite.Len(candles, 10)
	suite.Equal(100.0, candles[0].Open)
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), candles[0].Time)
}

func (suite *MockDataGeneratorTestSuite) TestPriceNeverBelowFloor() {
	config := baseConfig(PatternDecreasing)
	config.InitialPrice = 0.05
	config.TrendStrength = 0.5
	config.NumDataPoints = 50

	candles := NewMockDataGenerator(config).Generate()

	for _, candle := range candles {
		suite.GreaterOrEqual(candle.Close, DefaultMinimumPrice)
	}
}
