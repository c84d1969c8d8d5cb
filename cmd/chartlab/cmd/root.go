package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/chartlab/config"
	"github.com/rustyeddy/chartlab/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "chartlab",
	Short: "Technical indicator engine for OHLC price charts",
	Long: `Chartlab computes technical indicators over OHLC candle series.

It provides tools for:
  - Computing RSI, MACD and Stochastic %K panels for a symbol
  - Generating synthetic candle data for experiments
  - Serving charts and indicator panels over HTTP
  - Caching remote chart data in SQLite and saving computed runs`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	configPath string
	logLevel   string
	logFormat  string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupts cancel the command context so long running commands can stop.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: prefixed, text or json (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logging.SetOutput(cmd.ErrOrStderr())
	return logging.Setup(cfg.Log.Level, cfg.Log.Format)
}
