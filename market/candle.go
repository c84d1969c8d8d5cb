package market

import "time"

// Candle represents OHLC (Open, High, Low, Close) candlestick data for one
// sampled interval. Timestamp is an opaque, strictly increasing label
// (epoch milliseconds by convention); it is only ever copied onto indicator
// output, never used in arithmetic.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// Time interprets Timestamp as epoch milliseconds.
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.Timestamp).UTC()
}

// Closes extracts the close price of every candle.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Volumes returns the candle volumes as a series aligned to each candle.
func Volumes(candles []Candle) Series {
	out := make(Series, len(candles))
	for i, c := range candles {
		out[i] = Point{Timestamp: c.Timestamp, Value: float64(c.Volume)}
	}
	return out
}

// Latest returns the candle with the greatest timestamp.
func Latest(candles []Candle) (Candle, bool) {
	if len(candles) == 0 {
		return Candle{}, false
	}
	latest := candles[0]
	for _, c := range candles[1:] {
		if c.Timestamp > latest.Timestamp {
			latest = c
		}
	}
	return latest, true
}
