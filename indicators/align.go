package indicators

// MACD index arithmetic. The fast and slow EMAs start at different candles
// (fast-1 and slow-1), and the signal EMA adds its own warmup on top of the
// MACD line. These helpers are the only place the offsets live.

// fastEMAIndex maps candle index i (i >= slow-1) to the fast EMA value used
// for the MACD point at i.
func fastEMAIndex(i, fast, slow int) int {
	return i - (slow - fast)
}

// slowEMAIndex maps candle index i (i >= slow-1) to its slow EMA value.
func slowEMAIndex(i, slow int) int {
	return i - (slow - 1)
}

// signalCandleIndex maps signal EMA index j back to the candle it is
// stamped with: slow-1 candles are consumed by the slow EMA and signal-1
// more by the signal EMA.
func signalCandleIndex(j, slow, signal int) int {
	return j + slow + signal - 2
}

// histogramLineIndex maps signal EMA index j to the MACD line point the
// histogram subtracts it from.
func histogramLineIndex(j, signal int) int {
	return j + signal - 1
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
