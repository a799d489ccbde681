// Package marketdata is the market data collaborator consumed by the
// decision engine. It defines the provider interface plus live
// implementations (Binance, Polygon) and composable decorators for retry
// and TTL caching at the provider boundary.
package marketdata

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/rxtech-lab/argo-strategy/pkg/errors"
)

// Interval is a candle interval supported by the providers.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

// Duration returns the wall-clock length of one candle of this interval.
func (i Interval) Duration() (time.Duration, error) {
	switch i {
	case Interval1m:
		return time.Minute, nil
	case Interval5m:
		return 5 * time.Minute, nil
	case Interval15m:
		return 15 * time.Minute, nil
	case Interval30m:
		return 30 * time.Minute, nil
	case Interval1h:
		return time.Hour, nil
	case Interval4h:
		return 4 * time.Hour, nil
	case Interval1d:
		return 24 * time.Hour, nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval: %s", i)
	}
}

// Provider fetches market data for a symbol. Implementations must return a
// DataUnavailable structured error on empty or erroneous responses so the
// decision engine can map the failure to a WAIT decision.
type Provider interface {
	// FetchCandles returns up to limit most recent candles for the symbol.
	FetchCandles(ctx context.Context, symbol string, interval Interval, limit int) ([]types.MarketData, error)
	// FetchCurrentPrice returns the latest traded price for the symbol.
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderBinance ProviderType = "binance"
	ProviderPolygon ProviderType = "polygon"
)

// NewProvider creates a market data provider based on the provider type.
// Polygon requires an API key as config.
func NewProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceProvider(), nil
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok || apiKey == "" {
			return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires an API key string config")
		}

		return NewPolygonProvider(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
