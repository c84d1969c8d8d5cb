package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rustyeddy/chartlab/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, retries uint64) *Client {
	c := NewClient(url, time.Second, retries)
	c.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	return c
}

func TestClientFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/charts/005930", r.URL.Path)
		assert.Equal(t, "hour", r.URL.Query().Get("interval"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"stockId":  "005930",
			"interval": "hour",
			"candles": []map[string]any{
				{"timestamp": 2000, "open": 2, "high": 3, "low": 1, "close": 2.5, "volume": 20},
				{"timestamp": 1000, "open": 1, "high": 2, "low": 0.5, "close": 1.5, "volume": 10},
			},
		})
	}))
	defer server.Close()

	set, err := newTestClient(server.URL, 0).Fetch(context.Background(), "005930", market.Hour)
	require.NoError(t, err)
	require.Len(t, set.Candles, 2)
	assert.Equal(t, int64(1000), set.Candles[0].Timestamp)
	assert.Equal(t, int64(20), set.Candles[1].Volume)
	assert.Equal(t, "remote", set.Source)
}

func TestClientFetch_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"stockId":"A","interval":"day","candles":[{"timestamp":1,"open":1,"high":1,"low":1,"close":1,"volume":1}]}`))
	}))
	defer server.Close()

	set, err := newTestClient(server.URL, 3).Fetch(context.Background(), "A", market.Day)
	require.NoError(t, err)
	assert.Len(t, set.Candles, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientFetch_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 2).Fetch(context.Background(), "A", market.Day)
	require.Error(t, err)

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusBadGateway, serr.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientFetch_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "no such stock", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 5).Fetch(context.Background(), "NOPE", market.Day)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no such stock")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientFetch_BadInput(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", 0)
	_, err := c.Fetch(context.Background(), "", market.Day)
	assert.Error(t, err)
	_, err = c.Fetch(context.Background(), "A", market.Interval("fortnight"))
	assert.Error(t, err)
}
