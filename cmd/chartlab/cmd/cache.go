package cmd

import (
	"fmt"
	"math"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/chartlab/market"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the SQLite candle cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune <symbol>",
	Short: "Delete cached candles older than a cutoff",
	Long: `Delete cached candles for one symbol and interval that are older than
--older-than.

Example:
  chartlab cache prune AAPL --interval minute --older-than 72h`,
	Args: cobra.ExactArgs(1),
	RunE: runCachePrune,
}

var cacheImportCmd = &cobra.Command{
	Use:   "import <symbol> <file.csv>",
	Short: "Load a candle CSV into the cache",
	Long: `Insert the candles of a CSV file into the cache, replacing any
cached candle with the same timestamp.

Example:
  chartlab generate AAPL -n 500 -o aapl.csv
  chartlab cache import AAPL aapl.csv --interval day`,
	Args: cobra.ExactArgs(2),
	RunE: runCacheImport,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <symbol>",
	Short: "Print cached candles",
	Long: `Print cached candles for one symbol and interval. --from is inclusive
and --to exclusive; both take RFC3339 or YYYY-MM-DD.`,
	Args: cobra.ExactArgs(1),
	RunE: runCacheShow,
}

var (
	cachePruneInterval string
	cachePruneAge      time.Duration

	cacheImportInterval string

	cacheShowInterval string
	cacheShowFrom     string
	cacheShowTo       string
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheImportCmd)
	cacheCmd.AddCommand(cacheShowCmd)

	cachePruneCmd.Flags().StringVarP(&cachePruneInterval, "interval", "i", "day", "candle interval")
	cachePruneCmd.Flags().DurationVar(&cachePruneAge, "older-than", 30*24*time.Hour, "age cutoff")

	cacheImportCmd.Flags().StringVarP(&cacheImportInterval, "interval", "i", "day", "candle interval")

	cacheShowCmd.Flags().StringVarP(&cacheShowInterval, "interval", "i", "day", "candle interval")
	cacheShowCmd.Flags().StringVar(&cacheShowFrom, "from", "", "first candle time")
	cacheShowCmd.Flags().StringVar(&cacheShowTo, "to", "", "end time (exclusive)")
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	iv, err := market.ParseInterval(cachePruneInterval)
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cutoff := time.Now().Add(-cachePruneAge).UnixMilli()
	n, err := db.DeleteCandlesBefore(cmd.Context(), args[0], iv, cutoff)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d %s candles for %s\n", n, iv, args[0])
	return nil
}

func runCacheImport(cmd *cobra.Command, args []string) error {
	iv, err := market.ParseInterval(cacheImportInterval)
	if err != nil {
		return err
	}
	set, stats, err := market.LoadCandleSet(args[1], args[0], iv)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.UpsertCandles(cmd.Context(), set.Symbol, iv, set.Candles); err != nil {
		return fmt.Errorf("import candles: %w", err)
	}
	dropped := stats.Duplicates + stats.OutOfOrder + stats.BadLines
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d %s candles for %s (%d rows dropped)\n", len(set.Candles), iv, set.Symbol, dropped)
	return nil
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	iv, err := market.ParseInterval(cacheShowInterval)
	if err != nil {
		return err
	}
	start, err := parseTimeFlag("from", cacheShowFrom, 0)
	if err != nil {
		return err
	}
	end, err := parseTimeFlag("to", cacheShowTo, math.MaxInt64)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	candles, err := db.CandlesBetween(cmd.Context(), args[0], iv, start, end)
	if err != nil {
		return err
	}
	if len(candles) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No cached %s candles for %s\n", iv, args[0])
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME")
	for _, c := range candles {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n",
			c.Time().Format("2006-01-02 15:04"), c.Open, c.High, c.Low, c.Close, c.Volume)
	}
	return tw.Flush()
}

// parseTimeFlag turns an RFC3339 or YYYY-MM-DD flag into epoch
// milliseconds; empty gives def.
func parseTimeFlag(name, value string, def int64) (int64, error) {
	if value == "" {
		return def, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("--%s: cannot parse %q as RFC3339 or YYYY-MM-DD", name, value)
}
