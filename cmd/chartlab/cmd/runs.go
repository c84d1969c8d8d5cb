package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/chartlab/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List and export saved indicator runs",
	Long: `Inspect runs saved with "compute --save" or the HTTP API.

Examples:
  chartlab runs list AAPL
  chartlab runs export 01HV6Y3N9XQ8R0S2K4M5P7T9VB -o run.csv`,
}

var runsListCmd = &cobra.Command{
	Use:   "list [symbol]",
	Short: "List saved runs, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRunsList,
}

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a run as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsExport,
}

var runsExportOutput string

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)

	runsExportCmd.Flags().StringVarP(&runsExportOutput, "output", "o", "", "output file (default stdout)")
}

func openStore() (*store.SQLite, error) {
	if cfg.Cache.DBPath == "" {
		return nil, fmt.Errorf("cache.db_path is not configured")
	}
	return store.NewSQLite(cfg.Cache.DBPath)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	symbol := ""
	if len(args) == 1 {
		symbol = args[0]
	}
	runs, err := db.ListRuns(cmd.Context(), symbol)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSYMBOL\tINTERVAL\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Symbol, r.Interval, r.Created.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	series, err := db.RunSeries(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if runsExportOutput == "" {
		return store.WriteNamedCSV(cmd.OutOrStdout(), series)
	}
	f, err := os.Create(runsExportOutput)
	if err != nil {
		return err
	}
	if err := store.WriteNamedCSV(f, series); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
