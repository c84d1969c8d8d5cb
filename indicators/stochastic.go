package indicators

import (
	"fmt"

	"github.com/rustyeddy/chartlab/market"
)

// Stochastic computes the %K line: where the close sits inside the
// high/low range of the trailing KPeriod candles, as a percentage. A flat
// window (highest == lowest) yields the midpoint, 50.
type Stochastic struct {
	cfg  StochasticConfig
	name string
}

func NewStochastic(cfg StochasticConfig) (*Stochastic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Stochastic{cfg: cfg, name: fmt.Sprintf("STOCH%%K(%d)", cfg.KPeriod)}, nil
}

func (s *Stochastic) Name() string             { return s.name }
func (s *Stochastic) Warmup() int              { return s.cfg.KPeriod }
func (s *Stochastic) Config() StochasticConfig { return s.cfg }

func (s *Stochastic) Compute(candles []market.Candle) market.Series {
	return stochasticK(candles, s.cfg.KPeriod)
}

// StochasticKFunc computes %K over a kPeriod window.
func StochasticKFunc(candles []market.Candle, kPeriod int) (market.Series, error) {
	if err := (StochasticConfig{KPeriod: kPeriod}).Validate(); err != nil {
		return nil, err
	}
	return stochasticK(candles, kPeriod), nil
}

func stochasticK(candles []market.Candle, k int) market.Series {
	out := market.Series{}
	if len(candles) < k {
		return out
	}

	for i := k - 1; i < len(candles); i++ {
		highest, lowest := windowRange(candles[i-k+1 : i+1])

		kPercent := 50.0
		if highest != lowest {
			kPercent = (candles[i].Close - lowest) / (highest - lowest) * 100
		}
		out = append(out, market.Point{Timestamp: candles[i].Timestamp, Value: kPercent})
	}
	return out
}

func windowRange(window []market.Candle) (highest, lowest float64) {
	highest, lowest = window[0].High, window[0].Low
	for _, c := range window[1:] {
		if c.High > highest {
			highest = c.High
		}
		if c.Low < lowest {
			lowest = c.Low
		}
	}
	return highest, lowest
}
