package indicators

import (
	"fmt"

	"github.com/rustyeddy/chartlab/market"
)

// RSI implements the Relative Strength Index with Wilder's smoothing.
//
// Close-to-close changes start at candle 1, so the point produced for
// change index i is stamped with candles[i+1]. While the smoothed average
// loss is exactly zero no point is emitted for that index; the averages are
// still updated, so a later loss resumes output.
type RSI struct {
	cfg  RSIConfig
	name string
}

func NewRSI(cfg RSIConfig) (*RSI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RSI{cfg: cfg, name: fmt.Sprintf("RSI(%d)", cfg.Period)}, nil
}

func (r *RSI) Name() string      { return r.name }
func (r *RSI) Config() RSIConfig { return r.cfg }

// Warmup is period+2: period changes seed the averages and the first point
// belongs to the change after them.
func (r *RSI) Warmup() int { return r.cfg.Period + 2 }

func (r *RSI) Compute(candles []market.Candle) market.Series {
	return rsi(candles, r.cfg.Period)
}

// RSIFunc computes the RSI series for the given period.
func RSIFunc(candles []market.Candle, period int) (market.Series, error) {
	if err := (RSIConfig{Period: period}).Validate(); err != nil {
		return nil, err
	}
	return rsi(candles, period), nil
}

func rsi(candles []market.Candle, period int) market.Series {
	out := market.Series{}
	if len(candles) < period+1 {
		return out
	}

	gains := make([]float64, len(candles)-1)
	losses := make([]float64, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			gains[i-1] = change
		} else if change < 0 {
			losses[i-1] = -change
		}
	}

	avgGain := mean(gains[:period])
	avgLoss := mean(losses[:period])
	p := float64(period)

	for i := period; i < len(gains); i++ {
		if avgLoss != 0 {
			rs := avgGain / avgLoss
			out = append(out, market.Point{
				Timestamp: candles[i+1].Timestamp,
				Value:     100 - 100/(1+rs),
			})
		}

		avgGain = (avgGain*(p-1) + gains[i]) / p
		avgLoss = (avgLoss*(p-1) + losses[i]) / p
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
