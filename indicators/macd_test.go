package indicators

import (
	"testing"

	"github.com/rustyeddy/chartlab/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACDIndexHelpers(t *testing.T) {
	// default 12/26/9: first line point is candle 25
	assert.Equal(t, 11, fastEMAIndex(25, 12, 26))
	assert.Equal(t, 0, slowEMAIndex(25, 26))
	assert.Equal(t, 14, fastEMAIndex(28, 12, 26))
	assert.Equal(t, 3, slowEMAIndex(28, 26))

	// first signal point consumes 25 + 8 candles
	assert.Equal(t, 33, signalCandleIndex(0, 26, 9))
	assert.Equal(t, 40, signalCandleIndex(7, 26, 9))

	assert.Equal(t, 8, histogramLineIndex(0, 9))
	assert.Equal(t, 12, histogramLineIndex(4, 9))

	assert.True(t, inRange(0, 1))
	assert.False(t, inRange(1, 1))
	assert.False(t, inRange(-1, 1))
}

func TestMACD_ConstantPriceIsZero(t *testing.T) {
	closes := make([]float64, 27)
	for i := range closes {
		closes[i] = 57.25
	}
	candles := candlesFromCloses(closes...)

	got, err := MACDFunc(candles, 12, 26, 9)
	require.NoError(t, err)
	require.Len(t, got.Line, 2)
	for _, p := range got.Line {
		assert.Equal(t, 0.0, p.Value)
	}
	assert.Equal(t, candles[25].Timestamp, got.Line[0].Timestamp)
	assert.Equal(t, candles[26].Timestamp, got.Line[1].Timestamp)

	// two line values are not enough for a 9-period signal
	assert.Empty(t, got.Signal)
	assert.Empty(t, got.Histogram)
}

func TestMACD_Insufficient(t *testing.T) {
	got, err := MACDFunc(randomCandles(25, 1), 12, 26, 9)
	require.NoError(t, err)
	assert.Empty(t, got.Line)
	assert.Empty(t, got.Signal)
	assert.Empty(t, got.Histogram)
}

func TestMACD_LineUsesOffsetEMAs(t *testing.T) {
	candles := randomCandles(60, 21)
	closes := market.Closes(candles)

	fastEMA, err := EMAFunc(closes, 12)
	require.NoError(t, err)
	slowEMA, err := EMAFunc(closes, 26)
	require.NoError(t, err)

	got, err := MACDFunc(candles, 12, 26, 9)
	require.NoError(t, err)
	require.Len(t, got.Line, 60-26+1)

	for k, p := range got.Line {
		i := k + 25
		assert.Equal(t, candles[i].Timestamp, p.Timestamp)
		assert.Equal(t, fastEMA[i-14]-slowEMA[i-25], p.Value)
	}
}

func TestMACD_SignalAndHistogramAlignment(t *testing.T) {
	candles := randomCandles(60, 33)

	got, err := MACDFunc(candles, 12, 26, 9)
	require.NoError(t, err)

	lineLen := 60 - 26 + 1
	require.Len(t, got.Line, lineLen)
	require.Len(t, got.Signal, lineLen-9+1)
	require.Len(t, got.Histogram, len(got.Signal))

	signalValues, err := EMAFunc(got.Line.Values(), 9)
	require.NoError(t, err)
	assert.Equal(t, signalValues, got.Signal.Values())

	for j, s := range got.Signal {
		assert.Equal(t, candles[j+26+9-2].Timestamp, s.Timestamp)
		assert.Equal(t, got.Line[j+8].Timestamp, s.Timestamp)

		h := got.Histogram[j]
		assert.Equal(t, s.Timestamp, h.Timestamp)
		assert.Equal(t, got.Line[j+8].Value-s.Value, h.Value)
	}

	assert.Equal(t, candles[59].Timestamp, got.Signal[len(got.Signal)-1].Timestamp)
}

func TestMACD_EngineComputeIsLine(t *testing.T) {
	candles := randomCandles(80, 4)
	m, err := NewMACD(DefaultMACDConfig())
	require.NoError(t, err)

	assert.Equal(t, DefaultMACDConfig(), m.Config())
	assert.Equal(t, m.ComputeAll(candles).Line, m.Compute(candles))
}

func TestMACD_WideFastPeriodDoesNotOverrun(t *testing.T) {
	// fast=5 slow=6: the fast EMA index passes the end of the fast EMA
	// after two points.
	candles := randomCandles(10, 8)

	var got MACDResult
	require.NotPanics(t, func() {
		var err error
		got, err = MACDFunc(candles, 5, 6, 2)
		require.NoError(t, err)
	})
	assert.Len(t, got.Line, 2)
	assert.Equal(t, candles[5].Timestamp, got.Line[0].Timestamp)
	assert.Len(t, got.Signal, 1)
	assert.Len(t, got.Histogram, 1)
}

func TestMACDFunc_InvalidConfig(t *testing.T) {
	_, err := MACDFunc(randomCandles(40, 1), 26, 12, 9)
	assert.Error(t, err)
}
