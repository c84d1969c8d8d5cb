package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/chartlab/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSourcePlaceholders(t *testing.T) {
	dir := t.TempDir()
	data := "time,open,high,low,close,volume\n" +
		"1000,1,2,0.5,1.5,10\n" +
		"2000,1.5,2.5,1,2,20\n" +
		"2000,9,9,9,9,9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL_day.csv"), []byte(data), 0644))

	src := NewCSVSource(filepath.Join(dir, "{symbol}_{interval}.csv"))
	set, err := src.Fetch(context.Background(), "AAPL", market.Day)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2}, market.Closes(set.Candles))
	assert.Equal(t, "AAPL", set.Symbol)

	_, err = src.Fetch(context.Background(), "MSFT", market.Day)
	assert.Error(t, err)
}

func TestCSVSourceEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("time,open,high,low,close,volume\n"), 0644))

	_, err := NewCSVSource(path).Fetch(context.Background(), "X", market.Day)
	assert.ErrorIs(t, err, ErrNoData)
}
