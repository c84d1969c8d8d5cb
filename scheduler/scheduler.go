// Package scheduler refreshes watched charts on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"

	"github.com/rustyeddy/chartlab/internal/logging"
	"github.com/rustyeddy/chartlab/market"
	"github.com/rustyeddy/chartlab/metrics"
)

var log = logging.For("scheduler")

// Refresher re-fetches a chart from its upstream source.
type Refresher interface {
	Refresh(ctx context.Context, symbol string, iv market.Interval) (*market.CandleSet, error)
}

// Target is one watched chart.
type Target struct {
	Symbol   string
	Interval market.Interval
}

type Scheduler struct {
	refresher Refresher
	targets   []Target

	// AfterRefresh, when set, runs after each successful refresh.
	AfterRefresh func(ctx context.Context, set *market.CandleSet) error
}

func New(r Refresher, targets []Target) *Scheduler {
	return &Scheduler{refresher: r, targets: targets}
}

// RefreshAll refreshes every target once. Each failure is logged and the
// remaining targets still run; the combined error is returned.
func (s *Scheduler) RefreshAll(ctx context.Context) error {
	var errs error
	for _, t := range s.targets {
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}
		err := s.refresh(ctx, t)
		metrics.IncRefresh(t.Symbol, err)
		if err != nil {
			log.WithError(err).Warnf("refresh %s/%s failed", t.Symbol, t.Interval)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (s *Scheduler) refresh(ctx context.Context, t Target) error {
	set, err := s.refresher.Refresh(ctx, t.Symbol, t.Interval)
	if err != nil {
		return err
	}
	log.Debugf("refreshed %s/%s: %d candles from %s", t.Symbol, t.Interval, len(set.Candles), set.Source)
	if s.AfterRefresh != nil {
		if err := s.AfterRefresh(ctx, set); err != nil {
			return fmt.Errorf("after refresh %s/%s: %w", t.Symbol, t.Interval, err)
		}
	}
	return nil
}

// Run refreshes on spec (six fields, seconds first) until ctx is done.
func (s *Scheduler) Run(ctx context.Context, spec string) error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(spec, func() {
		_ = s.RefreshAll(ctx)
	}); err != nil {
		return fmt.Errorf("cron spec %q: %w", spec, err)
	}

	log.Infof("refreshing %d charts on %q", len(s.targets), spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
