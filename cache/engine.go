package cache

import (
	"context"
	"time"

	"github.com/rustyeddy/chartlab/indicators"
	"github.com/rustyeddy/chartlab/market"
	"github.com/rustyeddy/chartlab/metrics"
)

// Engine wraps an indicators.Engine and consults a Cache before computing.
// Only real computations are timed; hits are counted by Load.
type Engine struct {
	indicators.Engine
	cache Cache
}

var _ indicators.Engine = (*Engine)(nil)

// Wrap returns e backed by c. A nil c computes every time.
func Wrap(e indicators.Engine, c Cache) *Engine {
	return &Engine{Engine: e, cache: c}
}

func (e *Engine) Compute(candles []market.Candle) market.Series {
	return e.ComputeContext(context.Background(), candles)
}

func (e *Engine) ComputeContext(ctx context.Context, candles []market.Candle) market.Series {
	key := Key(candles, e.Name())
	return Load(ctx, e.cache, key, func() market.Series {
		started := time.Now()
		s := e.Engine.Compute(candles)
		metrics.ObserveCompute(e.Name(), started, len(s))
		return s
	})
}
