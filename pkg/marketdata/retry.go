package marketdata

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rxtech-lab/argo-strategy/internal/types"
	"github.com/rxtech-lab/argo-strategy/pkg/errors"
)

const (
	// DefaultMaxRetries bounds the retry attempts per provider call.
	DefaultMaxRetries = 3
	// DefaultInitialBackoff is the first wait between retries; subsequent
	// waits grow exponentially.
	DefaultInitialBackoff = 500 * time.Millisecond
)

// RetryProvider decorates a Provider with bounded exponential-backoff
// retries. Only transient failures (network) are retried; authentication,
// parse, and empty-response failures are surfaced immediately so the
// decision engine's WAIT-on-failure semantics stay unchanged.
type RetryProvider struct {
	inner           Provider
	maxRetries      uint64
	initialInterval time.Duration
}

// NewRetryProvider wraps the given provider with default retry settings.
func NewRetryProvider(inner Provider) *RetryProvider {
	return &RetryProvider{
		inner:           inner,
		maxRetries:      DefaultMaxRetries,
		initialInterval: DefaultInitialBackoff,
	}
}

// NewRetryProviderWithConfig wraps the given provider with explicit retry settings.
func NewRetryProviderWithConfig(inner Provider, maxRetries uint64, initialInterval time.Duration) *RetryProvider {
	return &RetryProvider{
		inner:           inner,
		maxRetries:      maxRetries,
		initialInterval: initialInterval,
	}
}

// FetchCandles implements Provider.
func (p *RetryProvider) FetchCandles(ctx context.Context, symbol string, interval Interval, limit int) ([]types.MarketData, error) {
	var candles []types.MarketData

	operation := func() error {
		result, err := p.inner.FetchCandles(ctx, symbol, interval, limit)
		if err != nil {
			return classifyForRetry(err)
		}

		candles = result

		return nil
	}

	if err := backoff.Retry(operation, p.newBackOff(ctx)); err != nil {
		return nil, err
	}

	return candles, nil
}

// FetchCurrentPrice implements Provider.
func (p *RetryProvider) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	var price float64

	operation := func() error {
		result, err := p.inner.FetchCurrentPrice(ctx, symbol)
		if err != nil {
			return classifyForRetry(err)
		}

		price = result

		return nil
	}

	if err := backoff.Retry(operation, p.newBackOff(ctx)); err != nil {
		return 0, err
	}

	return price, nil
}

func (p *RetryProvider) newBackOff(ctx context.Context) backoff.BackOffContext {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = p.initialInterval

	return backoff.WithContext(backoff.WithMaxRetries(exponential, p.maxRetries), ctx)
}

// classifyForRetry marks non-transient failures permanent so backoff stops
// immediately instead of hammering an endpoint that will keep refusing.
func classifyForRetry(err error) error {
	if errors.IsTransient(err) {
		return err
	}

	return backoff.Permanent(err)
}
