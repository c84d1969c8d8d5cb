package chart

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/chartlab/cache"
	"github.com/rustyeddy/chartlab/config"
	"github.com/rustyeddy/chartlab/indicators"
	"github.com/rustyeddy/chartlab/internal/logging"
	"github.com/rustyeddy/chartlab/market"
	"github.com/rustyeddy/chartlab/metrics"
)

var log = logging.For("chart")

// Builder computes the selected indicator panels for a candle set.
type Builder struct {
	rsi   *indicators.RSI
	macd  *indicators.MACD
	stoch *indicators.Stochastic

	rsiSeries   *cache.Engine
	stochSeries *cache.Engine

	// cache is optional; nil computes every time.
	cache cache.Cache
}

// NewBuilder validates the indicator configuration and prepares engines.
func NewBuilder(cfg config.IndicatorsConfig, c cache.Cache) (*Builder, error) {
	rsi, err := indicators.NewRSI(cfg.RSI)
	if err != nil {
		return nil, err
	}
	macd, err := indicators.NewMACD(cfg.MACD)
	if err != nil {
		return nil, err
	}
	stoch, err := indicators.NewStochastic(cfg.Stochastic)
	if err != nil {
		return nil, err
	}
	return &Builder{
		rsi:         rsi,
		macd:        macd,
		stoch:       stoch,
		rsiSeries:   cache.Wrap(rsi, c),
		stochSeries: cache.Wrap(stoch, c),
		cache:       c,
	}, nil
}

// DefaultSelectionFrom returns the configured default panels, or RSI and MACD
// when none are configured.
func DefaultSelectionFrom(cfg config.IndicatorsConfig) (Selection, error) {
	if len(cfg.Selected) == 0 {
		return DefaultSelection(), nil
	}
	return ParseSelection(cfg.Selected...)
}

// Build computes every selected panel concurrently and returns them in
// stacking order. The candles are shared read-only between workers.
func (b *Builder) Build(ctx context.Context, set *market.CandleSet, sel Selection) (*MultiPanel, error) {
	if set == nil {
		return nil, fmt.Errorf("nil candle set")
	}
	types := sel.Types()
	panels := make([]Panel, len(types))

	g, ctx := errgroup.WithContext(ctx)
	for i, t := range types {
		i, t := i, t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := b.panel(ctx, t, set.Candles)
			if err != nil {
				return err
			}
			panels[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debugf("built %d panels for %s/%s over %d candles", len(panels), set.Symbol, set.Interval, len(set.Candles))
	return &MultiPanel{
		Symbol:     set.Symbol,
		Interval:   set.Interval,
		PriceData:  set.Candles,
		Indicators: panels,
	}, nil
}

func (b *Builder) panel(ctx context.Context, t IndicatorType, candles []market.Candle) (Panel, error) {
	opts := DefaultOptions()

	switch t {
	case RSI:
		opts.Color = "#9C27B0"
		return Panel{
			Type:    RSI,
			Name:    fmt.Sprintf("RSI (%d)", b.rsi.Config().Period),
			Data:    b.rsiSeries.ComputeContext(ctx, candles),
			Guides:  []float64{70, 30},
			Options: opts,
		}, nil

	case MACD:
		opts.Color = "#2196F3"
		cfg := b.macd.Config()
		// the full result is cached apart from the line-only series a wrapped
		// MACD engine would store under Name()
		res := cache.Load(ctx, b.cache, cache.Key(candles, b.macd.Name()+"/all"), func() indicators.MACDResult {
			started := time.Now()
			r := b.macd.ComputeAll(candles)
			metrics.ObserveCompute(b.macd.Name(), started, len(r.Line)+len(r.Signal)+len(r.Histogram))
			return r
		})
		return Panel{
			Type:      MACD,
			Name:      fmt.Sprintf("MACD (%d,%d,%d)", cfg.Fast, cfg.Slow, cfg.Signal),
			Data:      res.Line,
			Signal:    res.Signal,
			Histogram: res.Histogram,
			Guides:    []float64{0},
			Options:   opts,
		}, nil

	case Volume:
		opts.Color = "#FF9800"
		opts.LineWidth = 1
		opts.Height = 120
		return Panel{
			Type:    Volume,
			Name:    "Volume",
			Data:    market.Volumes(candles),
			Options: opts,
		}, nil

	case Stochastic:
		opts.Color = "#4CAF50"
		return Panel{
			Type:    Stochastic,
			Name:    "Stochastic %K",
			Data:    b.stochSeries.ComputeContext(ctx, candles),
			Options: opts,
		}, nil
	}

	return Panel{}, fmt.Errorf("unknown indicator %q", t)
}
