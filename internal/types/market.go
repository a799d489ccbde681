package types

import "time"

// MarketData is a single OHLCV candle as supplied by a market data provider.
type MarketData struct {
	// Time is the open time of the candle.
	Time time.Time `yaml:"time"`
	// Symbol is the trading symbol this candle belongs to.
	Symbol string  `yaml:"symbol"`
	Open   float64 `yaml:"open"`
	High   float64 `yaml:"high"`
	Low    float64 `yaml:"low"`
	Close  float64 `yaml:"close"`
	Volume float64 `yaml:"volume"`
}

// ClosePrices extracts the closing price series from a slice of candles.
func ClosePrices(candles []MarketData) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	return closes
}
