package datasource

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/rustyeddy/chartlab/market"
	"github.com/rustyeddy/chartlab/metrics"
)

// DefaultStaleness is how old the newest cached candle may be before the
// cache is bypassed.
const DefaultStaleness = time.Minute

// CandleCache is the subset of the SQLite store the repository needs.
type CandleCache interface {
	Candles(ctx context.Context, symbol string, iv market.Interval) ([]market.Candle, error)
	ReplaceCandles(ctx context.Context, symbol string, iv market.Interval, candles []market.Candle) error
}

// Repository serves candles from a local cache when fresh, otherwise from
// a remote Source, falling back to stale cache when the remote fails.
type Repository struct {
	remote    Source
	cache     CandleCache
	staleness time.Duration
	now       func() time.Time
}

var _ Source = (*Repository)(nil)

func NewRepository(remote Source, cache CandleCache, staleness time.Duration) *Repository {
	if staleness <= 0 {
		staleness = DefaultStaleness
	}
	return &Repository{
		remote:    remote,
		cache:     cache,
		staleness: staleness,
		now:       time.Now,
	}
}

// Fetch implements Source.
func (r *Repository) Fetch(ctx context.Context, symbol string, iv market.Interval) (*market.CandleSet, error) {
	cached, cacheErr := r.cached(ctx, symbol, iv)
	if len(cached) > 0 && !r.stale(cached) {
		metrics.IncFetch("cache", metrics.ResultCached)
		return r.set(symbol, iv, "cache", cached), nil
	}
	return r.fetchRemote(ctx, symbol, iv, cached, cacheErr)
}

// Refresh always goes to the remote source and updates the cache.
func (r *Repository) Refresh(ctx context.Context, symbol string, iv market.Interval) (*market.CandleSet, error) {
	cached, cacheErr := r.cached(ctx, symbol, iv)
	return r.fetchRemote(ctx, symbol, iv, cached, cacheErr)
}

func (r *Repository) fetchRemote(ctx context.Context, symbol string, iv market.Interval, cached []market.Candle, cacheErr error) (*market.CandleSet, error) {
	set, err := r.remote.Fetch(ctx, symbol, iv)
	if err == nil && len(set.Candles) == 0 {
		err = fmt.Errorf("remote returned no candles: %w", ErrNoData)
	}
	if err == nil {
		metrics.IncFetch("remote", metrics.ResultOK)
		if r.cache != nil {
			if werr := r.cache.ReplaceCandles(ctx, symbol, iv, set.Candles); werr != nil {
				log.WithError(werr).Warnf("caching %s/%s failed", symbol, iv)
			}
		}
		return set, nil
	}

	if len(cached) > 0 {
		log.WithError(err).Warnf("remote fetch of %s/%s failed, serving %d cached candles", symbol, iv, len(cached))
		metrics.IncFetch("remote", metrics.ResultFallback)
		return r.set(symbol, iv, "cache", cached), nil
	}

	metrics.IncFetch("remote", metrics.ResultError)
	return nil, multierr.Combine(
		fmt.Errorf("%s/%s: %w", symbol, iv, ErrNoData),
		err,
		cacheErr,
	)
}

func (r *Repository) cached(ctx context.Context, symbol string, iv market.Interval) ([]market.Candle, error) {
	if r.cache == nil {
		return nil, nil
	}
	candles, err := r.cache.Candles(ctx, symbol, iv)
	if err != nil {
		log.WithError(err).Warnf("reading cached %s/%s failed", symbol, iv)
		return nil, fmt.Errorf("read cache: %w", err)
	}
	return candles, nil
}

// stale reports whether the newest candle is older than the staleness window.
func (r *Repository) stale(candles []market.Candle) bool {
	newest, ok := market.Latest(candles)
	if !ok {
		return true
	}
	return r.now().UnixMilli()-newest.Timestamp > r.staleness.Milliseconds()
}

func (r *Repository) set(symbol string, iv market.Interval, source string, candles []market.Candle) *market.CandleSet {
	return &market.CandleSet{Symbol: symbol, Interval: iv, Source: source, Candles: candles}
}
