// Package cache memoises indicator output keyed by a digest of the input
// candles, so repeated renders of the same chart do not recompute.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"

	"github.com/rustyeddy/chartlab/internal/logging"
	"github.com/rustyeddy/chartlab/market"
	"github.com/rustyeddy/chartlab/metrics"
)

var log = logging.For("cache")

// ErrMiss is returned by a Cache when the key is not present.
var ErrMiss = errors.New("cache miss")

// Cache stores opaque encoded values by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key returns name + ":" + hex SHA-256 of the candles' little-endian
// binary encoding. Equal candle slices give equal keys.
func Key(candles []market.Candle, name string) string {
	h := sha256.New()
	var buf [48]byte
	for _, c := range candles {
		binary.LittleEndian.PutUint64(buf[0:], uint64(c.Timestamp))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(c.Open))
		binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(c.High))
		binary.LittleEndian.PutUint64(buf[24:], math.Float64bits(c.Low))
		binary.LittleEndian.PutUint64(buf[32:], math.Float64bits(c.Close))
		binary.LittleEndian.PutUint64(buf[40:], uint64(c.Volume))
		h.Write(buf[:])
	}
	return name + ":" + hex.EncodeToString(h.Sum(nil))
}

// Load returns the cached value for key, or computes, stores and returns
// it. Cache failures are logged and never prevent computation.
func Load[T any](ctx context.Context, c Cache, key string, compute func() T) T {
	if c == nil {
		return compute()
	}

	data, err := c.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			metrics.IncCacheHit()
			return v
		}
		log.WithField("key", key).Warn("discarding undecodable cache entry")
		metrics.IncCacheError()
	case errors.Is(err, ErrMiss):
		metrics.IncCacheMiss()
	default:
		log.WithError(err).WithField("key", key).Warn("cache get failed")
		metrics.IncCacheError()
	}

	v := compute()
	data, err = json.Marshal(v)
	if err != nil {
		log.WithError(err).Warn("cache encode failed")
		return v
	}
	if err := c.Set(ctx, key, data); err != nil {
		log.WithError(err).WithField("key", key).Warn("cache set failed")
		metrics.IncCacheError()
	}
	return v
}
