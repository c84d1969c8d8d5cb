// Package datasource supplies candle series: a seeded random walk, CSV
// files, a remote chart API, and a repository that puts the SQLite cache in
// front of any of them.
package datasource

import (
	"context"
	"errors"

	"github.com/rustyeddy/chartlab/internal/logging"
	"github.com/rustyeddy/chartlab/market"
)

var log = logging.For("datasource")

// ErrNoData means no source could produce a single candle.
var ErrNoData = errors.New("no candle data")

// Source produces the candles for one symbol and interval, oldest first.
type Source interface {
	Fetch(ctx context.Context, symbol string, iv market.Interval) (*market.CandleSet, error)
}
