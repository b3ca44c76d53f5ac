package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Backtest BacktestConfig `yaml:"backtest"`
	Strategy StrategyConfig `yaml:"strategy"`
}

type DataConfig struct {
	OptionsFile string `yaml:"options_file"`
	IndexFile   string `yaml:"index_file"`
	RatesFile   string `yaml:"rates_file"`

	// RateTenor names the rates column supplying the risk-free rate.
	// Defaults to "1w" (one-week Shibor).
	RateTenor string `yaml:"rate_tenor"`

	StartDate string `yaml:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `yaml:"end_date"`   // YYYY-MM-DD, inclusive
}

type BacktestConfig struct {
	Commission float64 `yaml:"commission"`

	// Sigmas lists the volatility-index columns to backtest against, with one
	// mispricing threshold per sigma. A single threshold broadcasts to all.
	Sigmas     []string  `yaml:"sigmas"`
	Thresholds []float64 `yaml:"thresholds"`
}

type StrategyConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config without defaulting or validating it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// Prefer interpreting relative data paths as relative to the config file
	// directory, falling back to the path as given (relative to cwd).
	dir := filepath.Dir(path)
	c.Data.OptionsFile = resolvePath(dir, c.Data.OptionsFile)
	c.Data.IndexFile = resolvePath(dir, c.Data.IndexFile)
	c.Data.RatesFile = resolvePath(dir, c.Data.RatesFile)
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Data.RateTenor == "" {
		c.Data.RateTenor = "1w"
	}
	if len(c.Backtest.Thresholds) == 1 && len(c.Backtest.Sigmas) > 1 {
		t := c.Backtest.Thresholds[0]
		c.Backtest.Thresholds = make([]float64, len(c.Backtest.Sigmas))
		for i := range c.Backtest.Thresholds {
			c.Backtest.Thresholds[i] = t
		}
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Data.OptionsFile == "" {
		return errors.New("data.options_file is required")
	}
	if c.Data.IndexFile == "" {
		return errors.New("data.index_file is required")
	}
	if c.Data.RatesFile == "" {
		return errors.New("data.rates_file is required")
	}
	if _, _, err := c.DateRange(); err != nil {
		return err
	}
	if len(c.Backtest.Sigmas) == 0 {
		return errors.New("backtest.sigmas must not be empty")
	}
	if len(c.Backtest.Thresholds) != len(c.Backtest.Sigmas) {
		return fmt.Errorf("backtest.thresholds has %d entries for %d sigmas",
			len(c.Backtest.Thresholds), len(c.Backtest.Sigmas))
	}
	for i, t := range c.Backtest.Thresholds {
		if t < 0 {
			return fmt.Errorf("backtest.thresholds[%d] must be >= 0", i)
		}
	}
	if c.Backtest.Commission < 0 {
		return errors.New("backtest.commission must be >= 0")
	}
	if c.Strategy.Name == "" {
		return errors.New("strategy.name is required")
	}
	return nil
}

// DateRange parses the configured date range. Zero times mean "unbounded".
func (c *Config) DateRange() (start, end time.Time, err error) {
	if c.Data.StartDate != "" {
		start, err = time.Parse("2006-01-02", c.Data.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data.start_date: %w", err)
		}
	}
	if c.Data.EndDate != "" {
		end, err = time.Parse("2006-01-02", c.Data.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data.end_date: %w", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return time.Time{}, time.Time{}, errors.New("data.start_date must not be after data.end_date")
	}
	return start, end, nil
}

// ThresholdFor returns the mispricing threshold paired with a sigma column.
func (c *Config) ThresholdFor(sigma string) (float64, error) {
	for i, s := range c.Backtest.Sigmas {
		if s == sigma {
			return c.Backtest.Thresholds[i], nil
		}
	}
	return 0, fmt.Errorf("sigma %q not configured", sigma)
}

// MergeBacktest overlays non-zero fields from override onto base.
// This is used when applying per-variation overrides from an API request.
func MergeBacktest(base, override BacktestConfig) BacktestConfig {
	out := base
	if override.Commission != 0 {
		out.Commission = override.Commission
	}
	if len(override.Sigmas) != 0 {
		out.Sigmas = override.Sigmas
	}
	if len(override.Thresholds) != 0 {
		out.Thresholds = override.Thresholds
	}
	return out
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}
