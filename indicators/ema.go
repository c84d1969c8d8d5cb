package indicators

import (
	"fmt"

	"github.com/rustyeddy/chartlab/market"
)

// ExponentialMA is an incremental EMA seeded with the simple average of the
// first period values.
type ExponentialMA struct {
	period    int
	alpha     float64
	ema       float64
	count     int
	warmupSum float64
}

func newExponentialMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

// Update consumes the next value. It reports true once the EMA is seeded.
func (e *ExponentialMA) Update(x float64) bool {
	if e.count < e.period {
		e.warmupSum += x
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
			return true
		}
		return false
	}
	e.ema = e.alpha*x + (1-e.alpha)*e.ema
	return true
}

func (e *ExponentialMA) Value() float64 {
	if e.count < e.period {
		return 0
	}
	return e.ema
}

// EMAFunc returns the exponential moving average of prices. The first value
// is the mean of prices[:period]; later values use the smoothing factor
// 2/(period+1). The result has len(prices)-period+1 values, or none when
// prices is shorter than period.
func EMAFunc(prices []float64, period int) ([]float64, error) {
	if err := (EMAConfig{Period: period}).Validate(); err != nil {
		return nil, err
	}
	return ema(prices, period), nil
}

func ema(prices []float64, period int) []float64 {
	if len(prices) < period {
		return []float64{}
	}

	out := make([]float64, 0, len(prices)-period+1)
	e := newExponentialMA(period)
	for _, x := range prices {
		if e.Update(x) {
			out = append(out, e.Value())
		}
	}
	return out
}

// EMA is the engine form of EMAFunc over candle closes. Point k of the
// result is stamped with candles[k+period-1].
type EMA struct {
	cfg  EMAConfig
	name string
}

func NewEMA(cfg EMAConfig) (*EMA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &EMA{cfg: cfg, name: fmt.Sprintf("EMA(%d)", cfg.Period)}, nil
}

func (e *EMA) Name() string { return e.name }
func (e *EMA) Warmup() int  { return e.cfg.Period }

func (e *EMA) Compute(candles []market.Candle) market.Series {
	values := ema(market.Closes(candles), e.cfg.Period)
	out := make(market.Series, len(values))
	for k, v := range values {
		out[k] = market.Point{Timestamp: candles[k+e.cfg.Period-1].Timestamp, Value: v}
	}
	return out
}
