package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCompute(t *testing.T) {
	before := testutil.ToFloat64(computePointsMetrics.WithLabelValues("RSI(14)"))
	ObserveCompute("RSI(14)", time.Now(), 7)
	assert.Equal(t, before+7, testutil.ToFloat64(computePointsMetrics.WithLabelValues("RSI(14)")))
}

func TestCounters(t *testing.T) {
	fetch := fetchTotalMetrics.WithLabelValues("remote", ResultFallback)
	before := testutil.ToFloat64(fetch)
	IncFetch("remote", ResultFallback)
	assert.Equal(t, before+1, testutil.ToFloat64(fetch))

	hits := seriesCacheMetrics.WithLabelValues("hit")
	misses := seriesCacheMetrics.WithLabelValues("miss")
	h, m := testutil.ToFloat64(hits), testutil.ToFloat64(misses)
	IncCacheHit()
	IncCacheMiss()
	IncCacheMiss()
	assert.Equal(t, h+1, testutil.ToFloat64(hits))
	assert.Equal(t, m+2, testutil.ToFloat64(misses))

	failed := refreshTotalMetrics.WithLabelValues("AAPL", ResultError)
	f := testutil.ToFloat64(failed)
	IncRefresh("AAPL", errors.New("boom"))
	assert.Equal(t, f+1, testutil.ToFloat64(failed))
}
