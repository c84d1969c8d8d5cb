package cmd

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/rustyeddy/chartlab/cache"
	"github.com/rustyeddy/chartlab/chart"
	"github.com/rustyeddy/chartlab/config"
	"github.com/rustyeddy/chartlab/datasource"
	"github.com/rustyeddy/chartlab/internal/logging"
	"github.com/rustyeddy/chartlab/store"
)

var log = logging.For("cli")

// app holds the components built from a Config.
type app struct {
	source   datasource.Source
	repo     *datasource.Repository // only for remote sources
	db       *store.SQLite          // nil when no database is configured
	series   cache.Cache
	redis    *cache.Redis
	builder  *chart.Builder
	defaults chart.Selection
}

// newApp wires the configured source, stores and caches. A database is
// opened for remote sources, or whenever needDB is set and a path exists.
func newApp(ctx context.Context, c *config.Config, needDB bool) (*app, error) {
	a := &app{}

	if c.Cache.DBPath != "" && (needDB || c.Source.Type == "remote") {
		db, err := store.NewSQLite(c.Cache.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.db = db
	}

	switch c.Source.Type {
	case "generator":
		a.source = datasource.NewGenerator(c.Source.Count, c.Source.Seed)
	case "csv":
		a.source = datasource.NewCSVSource(c.Source.CSVPath)
	case "remote":
		client := datasource.NewClient(c.Source.BaseURL, c.Source.TimeoutDuration(), c.Source.MaxRetries)
		var candles datasource.CandleCache
		if a.db != nil {
			candles = a.db
		}
		a.repo = datasource.NewRepository(client, candles, c.Cache.StalenessDuration())
		a.source = a.repo
	default:
		a.Close()
		return nil, fmt.Errorf("unknown source type %q", c.Source.Type)
	}

	if c.Cache.RedisAddr != "" {
		a.redis = cache.NewRedis(c.Cache.RedisAddr, c.Cache.RedisDB, c.Cache.SeriesTTLDuration())
		if err := a.redis.Ping(ctx); err != nil {
			log.WithError(err).Warnf("redis at %s unavailable, using in-memory series cache", c.Cache.RedisAddr)
			_ = a.redis.Close()
			a.redis = nil
		} else {
			a.series = a.redis
		}
	}
	if a.series == nil {
		a.series = cache.NewMemory(c.Cache.MaxSeries)
	}

	builder, err := chart.NewBuilder(c.Indicators, a.series)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.builder = builder

	a.defaults, err = chart.DefaultSelectionFrom(c.Indicators)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	var errs error
	if a.db != nil {
		errs = multierr.Append(errs, a.db.Close())
	}
	if a.redis != nil {
		errs = multierr.Append(errs, a.redis.Close())
	}
	return errs
}
