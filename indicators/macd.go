package indicators

import (
	"fmt"

	"github.com/rustyeddy/chartlab/market"
)

/*
MACD implements Moving Average Convergence Divergence.

  - line:      fast EMA minus slow EMA of closes, from candle slow-1 onward
  - signal:    EMA of the line values
  - histogram: line minus signal

https://www.investopedia.com/terms/m/macd.asp
*/
type MACD struct {
	cfg  MACDConfig
	name string
}

// MACDResult holds the three MACD sub-series. All are empty when there are
// fewer than Slow candles.
type MACDResult struct {
	Line      market.Series `json:"line"`
	Signal    market.Series `json:"signal"`
	Histogram market.Series `json:"histogram"`
}

func NewMACD(cfg MACDConfig) (*MACD, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MACD{
		cfg:  cfg,
		name: fmt.Sprintf("MACD(%d,%d,%d)", cfg.Fast, cfg.Slow, cfg.Signal),
	}, nil
}

func (m *MACD) Name() string       { return m.name }
func (m *MACD) Warmup() int        { return m.cfg.Slow }
func (m *MACD) Config() MACDConfig { return m.cfg }

// Compute returns the MACD line only.
func (m *MACD) Compute(candles []market.Candle) market.Series {
	return macdLine(candles, m.cfg.Fast, m.cfg.Slow)
}

// ComputeAll returns the line, signal and histogram.
func (m *MACD) ComputeAll(candles []market.Candle) MACDResult {
	return macd(candles, m.cfg)
}

// MACDFunc computes all three MACD sub-series.
func MACDFunc(candles []market.Candle, fast, slow, signal int) (MACDResult, error) {
	cfg := MACDConfig{Fast: fast, Slow: slow, Signal: signal}
	if err := cfg.Validate(); err != nil {
		return MACDResult{}, err
	}
	return macd(candles, cfg), nil
}

func macd(candles []market.Candle, cfg MACDConfig) MACDResult {
	line := macdLine(candles, cfg.Fast, cfg.Slow)
	signal := signalLine(candles, line, cfg.Slow, cfg.Signal)
	return MACDResult{
		Line:      line,
		Signal:    signal,
		Histogram: histogram(line, signal, cfg.Signal),
	}
}

// macdLine stops early if the fast EMA index runs past the fast EMA, which
// can only happen when 2*fast >= slow+2.
func macdLine(candles []market.Candle, fast, slow int) market.Series {
	out := market.Series{}
	if len(candles) < slow {
		return out
	}

	closes := market.Closes(candles)
	fastEMA := ema(closes, fast)
	slowEMA := ema(closes, slow)

	for i := slow - 1; i < len(closes); i++ {
		fi := fastEMAIndex(i, fast, slow)
		si := slowEMAIndex(i, slow)
		if !inRange(fi, len(fastEMA)) || !inRange(si, len(slowEMA)) {
			break
		}
		out = append(out, market.Point{
			Timestamp: candles[i].Timestamp,
			Value:     fastEMA[fi] - slowEMA[si],
		})
	}
	return out
}

func signalLine(candles []market.Candle, line market.Series, slow, signal int) market.Series {
	values := ema(line.Values(), signal)
	out := make(market.Series, 0, len(values))
	for j, v := range values {
		ci := signalCandleIndex(j, slow, signal)
		if !inRange(ci, len(candles)) {
			break
		}
		out = append(out, market.Point{Timestamp: candles[ci].Timestamp, Value: v})
	}
	return out
}

func histogram(line, signal market.Series, period int) market.Series {
	out := make(market.Series, 0, len(signal))
	for j, s := range signal {
		li := histogramLineIndex(j, period)
		if !inRange(li, len(line)) {
			break
		}
		out = append(out, market.Point{Timestamp: s.Timestamp, Value: line[li].Value - s.Value})
	}
	return out
}
