package indicators

import "fmt"

// EMAConfig parameterises an exponential moving average of closes.
type EMAConfig struct {
	Period int `json:"period" yaml:"period"`
}

// RSIConfig parameterises the Relative Strength Index.
type RSIConfig struct {
	Period int `json:"period" yaml:"period"`
}

// MACDConfig parameterises MACD. Fast must be shorter than Slow.
type MACDConfig struct {
	Fast   int `json:"fast" yaml:"fast"`
	Slow   int `json:"slow" yaml:"slow"`
	Signal int `json:"signal" yaml:"signal"`
}

// StochasticConfig parameterises the Stochastic %K line.
type StochasticConfig struct {
	KPeriod int `json:"k_period" yaml:"k_period"`
}

func DefaultRSIConfig() RSIConfig { return RSIConfig{Period: 14} }

func DefaultMACDConfig() MACDConfig { return MACDConfig{Fast: 12, Slow: 26, Signal: 9} }

func DefaultStochasticConfig() StochasticConfig { return StochasticConfig{KPeriod: 14} }

func (c EMAConfig) Validate() error {
	return positive("ema.period", c.Period)
}

func (c RSIConfig) Validate() error {
	return positive("rsi.period", c.Period)
}

func (c MACDConfig) Validate() error {
	if err := positive("macd.fast", c.Fast); err != nil {
		return err
	}
	if err := positive("macd.slow", c.Slow); err != nil {
		return err
	}
	if err := positive("macd.signal", c.Signal); err != nil {
		return err
	}
	if c.Fast >= c.Slow {
		return fmt.Errorf("macd.fast (%d) must be less than macd.slow (%d)", c.Fast, c.Slow)
	}
	return nil
}

func (c StochasticConfig) Validate() error {
	return positive("stochastic.k_period", c.KPeriod)
}

func positive(field string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %d", field, v)
	}
	return nil
}
