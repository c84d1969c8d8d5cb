package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/rustyeddy/chartlab/market"
)

// CSVSource reads candles from a canonical candle CSV. Path may contain
// "{symbol}" and "{interval}" placeholders, e.g. "data/{symbol}_{interval}.csv".
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Fetch(ctx context.Context, symbol string, iv market.Interval) (*market.CandleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := strings.NewReplacer("{symbol}", symbol, "{interval}", string(iv)).Replace(s.Path)
	set, stats, err := market.LoadCandleSet(path, symbol, iv)
	if err != nil {
		return nil, err
	}
	if stats.Duplicates+stats.OutOfOrder+stats.BadLines > 0 {
		log.WithField("path", path).Warnf("dropped rows: %d duplicate, %d out of order, %d short",
			stats.Duplicates, stats.OutOfOrder, stats.BadLines)
	}
	if len(set.Candles) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoData)
	}
	return set, nil
}
