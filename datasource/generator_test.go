package datasource

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rustyeddy/chartlab/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomWalkShape(t *testing.T) {
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	candles := RandomWalk(rand.New(rand.NewSource(7)), 500, 3, end, time.Hour)
	require.Len(t, candles, 500)

	assert.Equal(t, end.UnixMilli(), candles[499].Timestamp)
	for i, c := range candles {
		if i > 0 {
			assert.Equal(t, time.Hour.Milliseconds(), c.Timestamp-candles[i-1].Timestamp)
		}
		assert.GreaterOrEqual(t, c.High, c.Open, "candle %d", i)
		assert.GreaterOrEqual(t, c.High, c.Close, "candle %d", i)
		assert.LessOrEqual(t, c.Low, c.Open, "candle %d", i)
		assert.LessOrEqual(t, c.Low, c.Close, "candle %d", i)
		assert.GreaterOrEqual(t, c.Low, minPrice, "candle %d", i)
		assert.GreaterOrEqual(t, c.Volume, int64(minVolume))
		assert.Less(t, c.Volume, int64(maxVolume))
	}
}

func TestRandomWalkEmpty(t *testing.T) {
	assert.Empty(t, RandomWalk(rand.New(rand.NewSource(1)), 0, 100, time.Now(), time.Minute))
}

func TestGeneratorDeterministic(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 5, 1, 13, 37, 0, 0, time.UTC) }
	g := &Generator{Count: 50, StartPrice: 100, Seed: 42, Now: now}

	a, err := g.Fetch(context.Background(), "AAPL", market.Day)
	require.NoError(t, err)
	b, err := g.Fetch(context.Background(), "AAPL", market.Day)
	require.NoError(t, err)
	c, err := g.Fetch(context.Background(), "MSFT", market.Day)
	require.NoError(t, err)

	assert.Equal(t, a.Candles, b.Candles)
	assert.NotEqual(t, a.Candles, c.Candles)
	assert.Equal(t, "AAPL", a.Symbol)
	assert.Equal(t, market.Day, a.Interval)

	last, ok := market.Latest(a.Candles)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), last.Timestamp)
}

func TestGeneratorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator(10, 1).Fetch(ctx, "AAPL", market.Day)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeneratorRejectsUnknownInterval(t *testing.T) {
	set, err := NewGenerator(10, 1).Fetch(context.Background(), "AAPL", market.Interval("fortnight"))
	assert.Error(t, err)
	assert.Nil(t, set)
}
