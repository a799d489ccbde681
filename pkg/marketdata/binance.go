package marketdata

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/rxtech-lab/argo-strategy/pkg/errors"
)

// BinanceProvider fetches candles and prices from the Binance public API.
// Market data endpoints need no credentials; pass keys only if your
// deployment routes through an authenticated endpoint.
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider creates a provider backed by the public Binance API.
func NewBinanceProvider() *BinanceProvider {
	return &BinanceProvider{
		client: binance.NewClient("", ""),
	}
}

// NewBinanceProviderWithCredentials creates a provider with API credentials.
func NewBinanceProviderWithCredentials(apiKey, secretKey string) *BinanceProvider {
	return &BinanceProvider{
		client: binance.NewClient(apiKey, secretKey),
	}
}

// FetchCandles implements Provider.
func (p *BinanceProvider) FetchCandles(ctx context.Context, symbol string, interval Interval, limit int) ([]types.MarketData, error) {
	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(string(interval)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, wrapBinanceError(err, "failed to fetch klines from Binance")
	}

	if len(klines) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "Binance returned no candles for symbol %s", symbol)
	}

	candles := make([]types.MarketData, 0, len(klines))

	for _, k := range klines {
		candle, err := convertKline(k, symbol)
		if err != nil {
			return nil, err
		}

		candles = append(candles, candle)
	}

	return candles, nil
}

// convertKline parses one Binance kline. Every numeric field is checked; a
// malformed close must not silently become 0 and flow into an indicator.
func convertKline(k *binance.Kline, symbol string) (types.MarketData, error) {
	parse := func(name, value string) (float64, error) {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse kline %s %q", name, value)
		}

		return v, nil
	}

	open, err := parse("open", k.Open)
	if err != nil {
		return types.MarketData{}, err
	}

	high, err := parse("high", k.High)
	if err != nil {
		return types.MarketData{}, err
	}

	low, err := parse("low", k.Low)
	if err != nil {
		return types.MarketData{}, err
	}

	closePrice, err := parse("close", k.Close)
	if err != nil {
		return types.MarketData{}, err
	}

	volume, err := parse("volume", k.Volume)
	if err != nil {
		return types.MarketData{}, err
	}

	return types.MarketData{
		Time:   time.UnixMilli(k.OpenTime),
		Symbol: symbol,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

// FetchCurrentPrice implements Provider.
func (p *BinanceProvider) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := p.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, wrapBinanceError(err, "failed to fetch ticker price from Binance")
	}

	if len(prices) == 0 {
		return 0, errors.Newf(errors.ErrCodeDataUnavailable, "Binance returned no last price for symbol %s", symbol)
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse ticker price %q", prices[0].Price)
	}

	return price, nil
}

// wrapBinanceError maps Binance API errors onto the structured error space.
// Credential problems become AuthenticationFailed so the retry decorator
// knows not to retry them.
func wrapBinanceError(err error, message string) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case -1002, -2014, -2015:
			return errors.Wrap(errors.ErrCodeAuthenticationFailed, message, err)
		}
	}

	return errors.Wrap(errors.ErrCodeNetworkFailure, message, err)
}
