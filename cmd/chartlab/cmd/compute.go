package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/chartlab/chart"
	"github.com/rustyeddy/chartlab/market"
	"github.com/rustyeddy/chartlab/store"
)

var computeCmd = &cobra.Command{
	Use:   "compute [symbol]",
	Short: "Compute indicator panels for a symbol",
	Long: `Fetch candles from the configured source and compute the selected
indicator panels.

Formats:
  table - one line per series with its latest value (default)
  json  - the full multi-panel document
  csv   - one row per timestamp, one column per series

Examples:
  chartlab compute AAPL --set rsi,macd,stochastic
  chartlab compute AAPL --interval hour --format csv > aapl.csv
  chartlab compute AAPL --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompute,
}

var (
	computeInterval string
	computeSet      string
	computeFormat   string
	computeSave     bool
)

func init() {
	rootCmd.AddCommand(computeCmd)

	computeCmd.Flags().StringVarP(&computeInterval, "interval", "i", "", "candle interval (default from config)")
	computeCmd.Flags().StringVarP(&computeSet, "set", "s", "", "comma separated panels: rsi,macd,volume,stochastic")
	computeCmd.Flags().StringVar(&computeFormat, "format", "table", "output format: table, json or csv")
	computeCmd.Flags().BoolVar(&computeSave, "save", false, "save the computed series as a run in the database")
}

func runCompute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	symbol := cfg.Source.Symbol
	if len(args) == 1 {
		symbol = args[0]
	}
	iv := cfg.Source.ParsedInterval()
	if computeInterval != "" {
		var err error
		if iv, err = market.ParseInterval(computeInterval); err != nil {
			return err
		}
	}

	a, err := newApp(ctx, cfg, computeSave)
	if err != nil {
		return err
	}
	defer a.Close()

	sel := a.defaults
	if computeSet != "" {
		if sel, err = chart.ParseSelection(computeSet); err != nil {
			return err
		}
	}

	set, err := a.source.Fetch(ctx, symbol, iv)
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}
	mp, err := a.builder.Build(ctx, set, sel)
	if err != nil {
		return fmt.Errorf("build panels: %w", err)
	}

	out := cmd.OutOrStdout()
	switch computeFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(mp)
	case "csv":
		err = store.WriteNamedCSV(out, mp.Flatten())
	case "table":
		err = printPanels(out, mp)
	default:
		return fmt.Errorf("unknown format %q", computeFormat)
	}
	if err != nil {
		return err
	}

	if computeSave {
		if a.db == nil {
			return fmt.Errorf("--save needs cache.db_path in the config")
		}
		run, err := a.db.SaveRun(ctx, mp.Symbol, mp.Interval, mp.Flatten())
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Saved run %s\n", run.ID)
	}
	return nil
}

func printPanels(out io.Writer, mp *chart.MultiPanel) error {
	header := color.New(color.FgGreen)
	header.Fprintf(out, "%s %s: %d candles\n", mp.Symbol, mp.Interval.Short(), len(mp.PriceData))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERIES\tPOINTS\tLAST\tTIME")
	for _, ns := range mp.Flatten() {
		last, ok := ns.Series.Last()
		if !ok {
			fmt.Fprintf(tw, "%s\t0\t-\t-\n", ns.Name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\n", ns.Name, len(ns.Series), last.Value,
			market.Candle{Timestamp: last.Timestamp}.Time().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
