package datasource

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/rustyeddy/chartlab/market"
)

const (
	minPrice  = 0.1
	minVolume = 100_000
	maxVolume = 1_000_000
)

// Generator is a Source of synthetic random-walk candles. Output depends
// only on Seed, the symbol, Count, StartPrice and the end time, so the same
// request always yields the same chart.
type Generator struct {
	Count      int
	StartPrice float64
	Seed       int64

	// Now fixes the end of the series; nil means time.Now.
	Now func() time.Time
}

func NewGenerator(count int, seed int64) *Generator {
	return &Generator{Count: count, StartPrice: 100, Seed: seed}
}

// Fetch generates Count candles ending at the current interval boundary.
func (g *Generator) Fetch(ctx context.Context, symbol string, iv market.Interval) (*market.CandleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !iv.Valid() {
		return nil, fmt.Errorf("unsupported interval: %q", iv)
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	step := iv.Duration()
	end := now().UTC().Truncate(step)

	rnd := rand.New(rand.NewSource(g.Seed ^ symbolSeed(symbol)))
	candles := RandomWalk(rnd, g.Count, g.StartPrice, end, step)
	log.Debugf("generated %d %s candles for %s", len(candles), iv, symbol)

	return &market.CandleSet{
		Symbol:   symbol,
		Interval: iv,
		Source:   "generator",
		Candles:  candles,
	}, nil
}

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}

// RandomWalk builds n candles whose last timestamp is end, spaced by step.
// Each open drifts up to 2 from the previous close and each close moves up
// to 5 from its open; wicks extend up to 3 beyond the body. Prices never
// fall below 0.1.
func RandomWalk(rnd *rand.Rand, n int, start float64, end time.Time, step time.Duration) []market.Candle {
	if n <= 0 {
		return []market.Candle{}
	}

	out := make([]market.Candle, n)
	first := end.Add(-time.Duration(n-1) * step)
	lastClose := start

	for i := range out {
		open := lastClose + uniform(rnd, -2, 2)
		close := open + uniform(rnd, -5, 5)
		high := math.Max(open, close) + uniform(rnd, 0, 3)
		low := math.Min(open, close) - uniform(rnd, 0, 3)

		out[i] = market.Candle{
			Timestamp: first.Add(time.Duration(i) * step).UnixMilli(),
			Open:      math.Max(open, minPrice),
			High:      math.Max(high, minPrice),
			Low:       math.Max(low, minPrice),
			Close:     math.Max(close, minPrice),
			Volume:    minVolume + rnd.Int63n(maxVolume-minVolume),
		}
		lastClose = close
	}
	return out
}

func uniform(rnd *rand.Rand, lo, hi float64) float64 {
	return lo + rnd.Float64()*(hi-lo)
}
