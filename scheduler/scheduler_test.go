package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rustyeddy/chartlab/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakeRefresher) Refresh(ctx context.Context, symbol string, iv market.Interval) (*market.CandleSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol+"/"+string(iv))
	if f.fail[symbol] {
		return nil, errors.New(symbol + " unavailable")
	}
	return &market.CandleSet{Symbol: symbol, Interval: iv, Candles: []market.Candle{{Timestamp: 1, Close: 1}}}, nil
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRefreshAllContinuesPastFailures(t *testing.T) {
	r := &fakeRefresher{fail: map[string]bool{"B": true}}
	s := New(r, []Target{{"A", market.Day}, {"B", market.Hour}, {"C", market.Week}})

	var after []string
	s.AfterRefresh = func(ctx context.Context, set *market.CandleSet) error {
		after = append(after, set.Symbol)
		return nil
	}

	err := s.RefreshAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "B unavailable")
	assert.Equal(t, []string{"A/day", "B/hour", "C/week"}, r.calls)
	assert.Equal(t, []string{"A", "C"}, after)
}

func TestRefreshAllAfterRefreshError(t *testing.T) {
	s := New(&fakeRefresher{}, []Target{{"A", market.Day}})
	s.AfterRefresh = func(ctx context.Context, set *market.CandleSet) error {
		return errors.New("disk full")
	}
	err := s.RefreshAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after refresh A/day")
}

func TestRunBadSpec(t *testing.T) {
	err := New(&fakeRefresher{}, nil).Run(context.Background(), "every so often")
	assert.Error(t, err)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	r := &fakeRefresher{}
	s := New(r, []Target{{"A", market.Minute}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "* * * * * *") }()

	assert.Eventually(t, func() bool { return r.count() >= 1 }, 3*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
