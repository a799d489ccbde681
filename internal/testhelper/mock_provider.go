package testhelper

import (
	"context"

	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/rxtech-lab/argo-strategy/pkg/marketdata"
)

// MockProvider implements marketdata.Provider from canned data, with
// injectable errors and call counters.
type MockProvider struct {
	Candles    []types.MarketData
	Price      float64
	CandlesErr error
	PriceErr   error

	FetchCandlesCalls      int
	FetchCurrentPriceCalls int
}

var _ marketdata.Provider = (*MockProvider)(nil)

// FetchCandles implements marketdata.Provider.
func (p *MockProvider) FetchCandles(_ context.Context, _ string, _ marketdata.Interval, limit int) ([]types.MarketData, error) {
	p.FetchCandlesCalls++

	if p.CandlesErr != nil {
		return nil, p.CandlesErr
	}

	candles := p.Candles
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}

	return candles, nil
}

// FetchCurrentPrice implements marketdata.Provider.
func (p *MockProvider) FetchCurrentPrice(_ context.Context, _ string) (float64, error) {
	p.FetchCurrentPriceCalls++

	if p.PriceErr != nil {
		return 0, p.PriceErr
	}

	return p.Price, nil
}
