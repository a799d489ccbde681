package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-strategy/internal/types"
)

// DefaultCacheTTL is how long a fetched response stays fresh.
const DefaultCacheTTL = 30 * time.Second

type candleEntry struct {
	candles   []types.MarketData
	fetchedAt time.Time
}

type priceEntry struct {
	price     float64
	fetchedAt time.Time
}

// CachedProvider decorates a Provider with an explicit TTL cache. The cache
// is owned by the market data collaborator, not by the engine core: each
// evaluation still recomputes indicators, it just may reuse a fresh
// response instead of re-fetching it.
type CachedProvider struct {
	inner   Provider
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	candles map[string]candleEntry
	prices  map[string]priceEntry
}

// NewCachedProvider wraps the given provider with a TTL cache.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		mu:      sync.RWMutex{},
		candles: make(map[string]candleEntry),
		prices:  make(map[string]priceEntry),
	}
}

// FetchCandles implements Provider.
func (p *CachedProvider) FetchCandles(ctx context.Context, symbol string, interval Interval, limit int) ([]types.MarketData, error) {
	key := fmt.Sprintf("%s|%s|%d", symbol, interval, limit)

	p.mu.RLock()
	entry, ok := p.candles[key]
	p.mu.RUnlock()

	if ok && p.now().Sub(entry.fetchedAt) < p.ttl {
		return entry.candles, nil
	}

	candles, err := p.inner.FetchCandles(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.candles[key] = candleEntry{candles: candles, fetchedAt: p.now()}
	p.mu.Unlock()

	return candles, nil
}

// FetchCurrentPrice implements Provider.
func (p *CachedProvider) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	p.mu.RLock()
	entry, ok := p.prices[symbol]
	p.mu.RUnlock()

	if ok && p.now().Sub(entry.fetchedAt) < p.ttl {
		return entry.price, nil
	}

	price, err := p.inner.FetchCurrentPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	p.prices[symbol] = priceEntry{price: price, fetchedAt: p.now()}
	p.mu.Unlock()

	return price, nil
}
