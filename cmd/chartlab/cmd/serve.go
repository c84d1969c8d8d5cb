package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/chartlab/config"
	"github.com/rustyeddy/chartlab/market"
	"github.com/rustyeddy/chartlab/scheduler"
	"github.com/rustyeddy/chartlab/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve charts and indicator panels over HTTP",
	Long: `Start the HTTP API:

  GET  /api/ping
  GET  /api/charts/:stockId?interval=day
  GET  /api/charts/:stockId/indicators?interval=day&set=rsi,macd
  POST /api/charts/:stockId/runs         (with a database)
  GET  /api/runs/:runId[?format=csv]     (with a database)
  GET  /metrics

With a remote source and server.refresh_cron set, the watched charts are
re-fetched on that schedule. With --save-runs each refresh also stores the
default panels as a run.`,
	RunE: runServe,
}

var (
	serveAddr     string
	serveSaveRuns bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveSaveRuns, "save-runs", false, "save default panels after each scheduled refresh")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var runs server.RunStore
	if a.db != nil {
		runs = a.db
	}
	srv := server.New(a.source, a.builder, a.defaults, runs)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, addr)
	})

	if cfg.Server.RefreshCron != "" {
		sched, err := newScheduler(a, cfg)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return sched.Run(ctx, cfg.Server.RefreshCron)
		})
	}

	return g.Wait()
}

func newScheduler(a *app, c *config.Config) (*scheduler.Scheduler, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("server.refresh_cron needs a remote source")
	}

	watch := c.Server.Watch
	if len(watch) == 0 {
		watch = []string{c.Source.Symbol + ":" + c.Source.Interval}
	}
	targets := make([]scheduler.Target, 0, len(watch))
	for _, w := range watch {
		symbol, iv, err := config.ParseWatch(w)
		if err != nil {
			return nil, err
		}
		targets = append(targets, scheduler.Target{Symbol: symbol, Interval: iv})
	}

	sched := scheduler.New(a.repo, targets)
	if serveSaveRuns && a.db != nil {
		sched.AfterRefresh = func(ctx context.Context, set *market.CandleSet) error {
			mp, err := a.builder.Build(ctx, set, a.defaults)
			if err != nil {
				return err
			}
			_, err = a.db.SaveRun(ctx, mp.Symbol, mp.Interval, mp.Flatten())
			return err
		}
	}
	return sched, nil
}
