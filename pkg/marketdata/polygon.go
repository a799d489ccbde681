package marketdata

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/rxtech-lab/argo-strategy/pkg/errors"
)

// PolygonProvider fetches candles and prices from the Polygon REST API.
type PolygonProvider struct {
	client *polygon.Client
	now    func() time.Time
}

// NewPolygonProvider creates a provider backed by the Polygon REST API.
func NewPolygonProvider(apiKey string) (*PolygonProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "apiKey is required")
	}

	return &PolygonProvider{
		client: polygon.New(apiKey),
		now:    time.Now,
	}, nil
}

// FetchCandles implements Provider. Polygon aggregates are requested over a
// time range, so the range is derived from the interval and limit ending now.
func (p *PolygonProvider) FetchCandles(ctx context.Context, symbol string, interval Interval, limit int) ([]types.MarketData, error) {
	multiplier, timespan, err := convertIntervalToPolygonTimespan(interval)
	if err != nil {
		return nil, err
	}

	barLength, err := interval.Duration()
	if err != nil {
		return nil, err
	}

	end := p.now()
	start := end.Add(-time.Duration(limit) * barLength)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := p.client.ListAggs(ctx, params)

	var candles []types.MarketData

	for iter.Next() {
		agg := iter.Item()
		candles = append(candles, types.MarketData{
			Time:   time.Time(agg.Timestamp),
			Symbol: symbol,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetworkFailure, "failed to fetch aggregates from Polygon", err)
	}

	if len(candles) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "Polygon returned no candles for symbol %s", symbol)
	}

	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}

	return candles, nil
}

// FetchCurrentPrice implements Provider.
func (p *PolygonProvider) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	res, err := p.client.GetLastTrade(ctx, &models.GetLastTradeParams{Ticker: symbol})
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeNetworkFailure, "failed to fetch last trade from Polygon", err)
	}

	if res == nil || res.Results.Price <= 0 {
		return 0, errors.Newf(errors.ErrCodeDataUnavailable, "Polygon returned no valid last price for symbol %s", symbol)
	}

	return res.Results.Price, nil
}

func convertIntervalToPolygonTimespan(interval Interval) (int, models.Timespan, error) {
	switch interval {
	case Interval1m:
		return 1, models.Minute, nil
	case Interval5m:
		return 5, models.Minute, nil
	case Interval15m:
		return 15, models.Minute, nil
	case Interval30m:
		return 30, models.Minute, nil
	case Interval1h:
		return 1, models.Hour, nil
	case Interval4h:
		return 4, models.Hour, nil
	case Interval1d:
		return 1, models.Day, nil
	default:
		return 0, "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval for Polygon: %s", interval)
	}
}
