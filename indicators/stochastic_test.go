package indicators

import (
	"testing"

	"github.com/rustyeddy/chartlab/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStochasticK_FlatRangeIsMidpoint(t *testing.T) {
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = 100
	}

	got, err := StochasticKFunc(candlesFromCloses(closes...), 14)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 50.0, got[0].Value)
}

func TestStochasticK_Known(t *testing.T) {
	candles := []market.Candle{
		{Timestamp: 1, High: 10, Low: 8, Close: 9},
		{Timestamp: 2, High: 12, Low: 9, Close: 11},
		{Timestamp: 3, High: 11, Low: 7, Close: 10},
		{Timestamp: 4, High: 13, Low: 10, Close: 13},
	}

	got, err := StochasticKFunc(candles, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// window 1..3: highest 12, lowest 7, close 10
	assert.Equal(t, int64(3), got[0].Timestamp)
	assert.InDelta(t, 60.0, got[0].Value, 1e-9)

	// window 2..4: highest 13, lowest 7, close 13
	assert.Equal(t, int64(4), got[1].Timestamp)
	assert.InDelta(t, 100.0, got[1].Value, 1e-9)
}

func TestStochasticK_CloseAtLowIsZero(t *testing.T) {
	candles := []market.Candle{
		{Timestamp: 1, High: 5, Low: 3, Close: 4},
		{Timestamp: 2, High: 4, Low: 1, Close: 1},
	}

	got, err := StochasticKFunc(candles, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].Value)
}

func TestStochasticK_Length(t *testing.T) {
	candles := randomCandles(50, 2)

	got, err := StochasticKFunc(candles, 14)
	require.NoError(t, err)
	assert.Len(t, got, 50-14+1)
	for i, p := range got {
		assert.Equal(t, candles[i+13].Timestamp, p.Timestamp)
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.LessOrEqual(t, p.Value, 100.0)
	}
}

func TestStochasticK_Insufficient(t *testing.T) {
	got, err := StochasticKFunc(randomCandles(13, 2), 14)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStochasticK_InvalidPeriod(t *testing.T) {
	_, err := StochasticKFunc(randomCandles(20, 2), 0)
	assert.Error(t, err)
}
