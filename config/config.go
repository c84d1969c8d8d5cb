package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/chartlab/indicators"
	"github.com/rustyeddy/chartlab/market"
)

// cronParser accepts the six-field, seconds-first specs the scheduler runs.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Config is the complete chartlab configuration.
type Config struct {
	Indicators IndicatorsConfig `json:"indicators" yaml:"indicators"`
	Source     SourceConfig     `json:"source" yaml:"source"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// IndicatorsConfig holds engine parameters and the default panel selection.
type IndicatorsConfig struct {
	RSI        indicators.RSIConfig        `json:"rsi" yaml:"rsi"`
	MACD       indicators.MACDConfig       `json:"macd" yaml:"macd"`
	Stochastic indicators.StochasticConfig `json:"stochastic" yaml:"stochastic"`
	Selected   []string                    `json:"selected" yaml:"selected"`
}

// SourceConfig selects where candles come from.
type SourceConfig struct {
	Type     string `json:"type" yaml:"type"` // "generator", "csv" or "remote"
	Symbol   string `json:"symbol" yaml:"symbol"`
	Interval string `json:"interval" yaml:"interval"`

	// generator
	Count int   `json:"count,omitempty" yaml:"count,omitempty"`
	Seed  int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// csv
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`

	// remote
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout    string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxRetries uint64 `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

// CacheConfig configures the SQLite candle cache and the optional Redis
// series cache.
type CacheConfig struct {
	DBPath    string `json:"db_path" yaml:"db_path"`
	Staleness string `json:"staleness" yaml:"staleness"`

	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisDB   int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	SeriesTTL string `json:"series_ttl,omitempty" yaml:"series_ttl,omitempty"`
	MaxSeries int    `json:"max_series,omitempty" yaml:"max_series,omitempty"`
}

// ServerConfig configures the HTTP API and the refresh schedule.
type ServerConfig struct {
	Addr        string   `json:"addr" yaml:"addr"`
	RefreshCron string   `json:"refresh_cron,omitempty" yaml:"refresh_cron,omitempty"`
	Watch       []string `json:"watch,omitempty" yaml:"watch,omitempty"` // symbol[:interval]
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // prefixed, text or json
}

var knownPanels = map[string]bool{"rsi": true, "macd": true, "stochastic": true, "volume": true}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML for .yaml/.yml paths, JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Indicators.RSI.Validate(); err != nil {
		return err
	}
	if err := c.Indicators.MACD.Validate(); err != nil {
		return err
	}
	if err := c.Indicators.Stochastic.Validate(); err != nil {
		return err
	}

	for _, name := range c.Indicators.Selected {
		if !knownPanels[strings.ToLower(name)] {
			return fmt.Errorf("indicators.selected: unknown panel %q", name)
		}
	}

	if _, err := market.ParseInterval(c.Source.Interval); err != nil {
		return fmt.Errorf("source.interval: %w", err)
	}
	if c.Source.Symbol == "" {
		return fmt.Errorf("source.symbol is required")
	}
	switch c.Source.Type {
	case "generator":
		if c.Source.Count <= 0 {
			return fmt.Errorf("source.count must be positive for generator source")
		}
	case "csv":
		if c.Source.CSVPath == "" {
			return fmt.Errorf("source.csv_path required for csv source")
		}
	case "remote":
		if c.Source.BaseURL == "" {
			return fmt.Errorf("source.base_url required for remote source")
		}
		if c.Cache.DBPath == "" {
			return fmt.Errorf("cache.db_path required for remote source")
		}
	default:
		return fmt.Errorf("source.type must be 'generator', 'csv' or 'remote'")
	}

	for _, d := range []struct{ field, value string }{
		{"source.timeout", c.Source.Timeout},
		{"cache.staleness", c.Cache.Staleness},
		{"cache.series_ttl", c.Cache.SeriesTTL},
	} {
		if _, err := parseDuration(d.value); err != nil {
			return fmt.Errorf("%s: %w", d.field, err)
		}
	}
	if c.Cache.MaxSeries < 0 {
		return fmt.Errorf("cache.max_series must not be negative")
	}

	if c.Server.RefreshCron != "" {
		if _, err := cronParser.Parse(c.Server.RefreshCron); err != nil {
			return fmt.Errorf("server.refresh_cron: %w", err)
		}
	}
	for _, w := range c.Server.Watch {
		if _, _, err := ParseWatch(w); err != nil {
			return fmt.Errorf("server.watch: %w", err)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Indicators: IndicatorsConfig{
			RSI:        indicators.DefaultRSIConfig(),
			MACD:       indicators.DefaultMACDConfig(),
			Stochastic: indicators.DefaultStochasticConfig(),
			Selected:   []string{"rsi", "macd"},
		},
		Source: SourceConfig{
			Type:       "generator",
			Symbol:     "SAMPLE",
			Interval:   "day",
			Count:      200,
			Timeout:    "30s",
			MaxRetries: 3,
		},
		Cache: CacheConfig{
			DBPath:    "./chartlab.sqlite",
			Staleness: "1m",
			SeriesTTL: "10m",
			MaxSeries: 256,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "prefixed",
		},
	}
}

// ParsedInterval returns the parsed source interval.
func (s SourceConfig) ParsedInterval() market.Interval {
	iv, _ := market.ParseInterval(s.Interval)
	return iv
}

// TimeoutDuration returns source.timeout, zero when unset.
func (s SourceConfig) TimeoutDuration() time.Duration {
	d, _ := parseDuration(s.Timeout)
	return d
}

// StalenessDuration returns cache.staleness, one minute when unset.
func (c CacheConfig) StalenessDuration() time.Duration {
	d, _ := parseDuration(c.Staleness)
	if d == 0 {
		return time.Minute
	}
	return d
}

// SeriesTTLDuration returns cache.series_ttl, zero (no expiry) when unset.
func (c CacheConfig) SeriesTTLDuration() time.Duration {
	d, _ := parseDuration(c.SeriesTTL)
	return d
}

// ParseWatch splits "SYMBOL" or "SYMBOL:interval"; the interval defaults to day.
func ParseWatch(s string) (string, market.Interval, error) {
	symbol, ivs, found := strings.Cut(strings.TrimSpace(s), ":")
	if symbol == "" {
		return "", "", fmt.Errorf("empty symbol in %q", s)
	}
	if !found {
		return symbol, market.Day, nil
	}
	iv, err := market.ParseInterval(ivs)
	if err != nil {
		return "", "", err
	}
	return symbol, iv, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative: %s", s)
	}
	return d, nil
}
