// Package indicators computes technical indicator series from candles.
//
// Every engine is a pure function of its input: it never mutates the
// candles it is given, keeps no state between calls and always returns a
// freshly allocated series. Too few candles is not an error; it produces an
// empty series. Only an invalid configuration (non-positive periods, a MACD
// fast period that is not shorter than the slow one) is reported as an error.
package indicators

import "github.com/rustyeddy/chartlab/market"

// Engine computes one indicator series from candles.
type Engine interface {
	// Name returns a stable identifier like "RSI(14)" or "MACD(12,26,9)".
	Name() string

	// Warmup returns the minimum number of candles before the first point
	// can be produced.
	Warmup() int

	// Compute returns the indicator series for candles. It is safe to call
	// concurrently.
	Compute(candles []market.Candle) market.Series
}

var (
	_ Engine = (*EMA)(nil)
	_ Engine = (*RSI)(nil)
	_ Engine = (*MACD)(nil)
	_ Engine = (*Stochastic)(nil)
)
