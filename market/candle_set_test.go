package market

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCandlesCSV(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"time,open,high,low,close,volume",
		"2024-01-01T00:00:00Z,150,155,148,152,1250000",
		"2024-01-02,152,158,151,156,1350000",
		"1704240000000,156,159,154,157,980000",
		"",
		"1704240000000,1,1,1,1,1", // duplicate
		"2023-12-31T00:00:00Z,1,1,1,1,1",
		"short,row",
	}, "\n")

	candles, stats, err := ReadCandlesCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, candles, 3)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), candles[0].Timestamp)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).UnixMilli(), candles[1].Timestamp)
	assert.Equal(t, int64(1704240000000), candles[2].Timestamp)
	assert.Equal(t, Candle{Timestamp: candles[0].Timestamp, Open: 150, High: 155, Low: 148, Close: 152, Volume: 1250000}, candles[0])

	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.OutOfOrder)
	assert.Equal(t, 1, stats.BadLines)
}

func TestReadCandlesCSV_BadNumber(t *testing.T) {
	t.Parallel()

	_, _, err := ReadCandlesCSV(strings.NewReader("1,2,x,3,4,5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad price")

	_, _, err = ReadCandlesCSV(strings.NewReader("not-a-time,1,2,3,4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad time")
}

func TestWriteThenLoadCandleSet(t *testing.T) {
	t.Parallel()

	candles := []Candle{
		{Timestamp: 1000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Timestamp: 2000, Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 20},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCandlesCSV(&buf, candles))

	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	cs, stats, err := LoadCandleSet(path, "AAPL", Day)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", cs.Symbol)
	assert.Equal(t, Day, cs.Interval)
	assert.Equal(t, candles, cs.Candles)
	assert.Equal(t, 2, stats.Rows)
}

func TestLoadCandleSet_MissingFile(t *testing.T) {
	_, _, err := LoadCandleSet("/nonexistent/candles.csv", "X", Day)
	assert.Error(t, err)
}

func TestCandleHelpers(t *testing.T) {
	candles := []Candle{
		{Timestamp: 3, Close: 30, Volume: 300},
		{Timestamp: 1, Close: 10, Volume: 100},
		{Timestamp: 2, Close: 20, Volume: 200},
	}

	assert.Equal(t, []float64{30, 10, 20}, Closes(candles))
	assert.Equal(t, Series{{3, 300}, {1, 100}, {2, 200}}, Volumes(candles))

	latest, ok := Latest(candles)
	require.True(t, ok)
	assert.Equal(t, int64(3), latest.Timestamp)

	_, ok = Latest(nil)
	assert.False(t, ok)
}

func TestSeriesHelpers(t *testing.T) {
	s := Series{{Timestamp: 1, Value: 10}, {Timestamp: 2, Value: 20}}
	assert.Equal(t, []float64{10, 20}, s.Values())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, Point{Timestamp: 2, Value: 20}, last)

	_, ok = Series{}.Last()
	assert.False(t, ok)
}
