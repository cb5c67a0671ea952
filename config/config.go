// Package config loads simulator settings from YAML.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/frankieycy/order-book-simulator/sim"
)

// Config is the full simulator configuration.
type Config struct {
	Book   BookConfig   `yaml:"book"`
	Sim    sim.Params   `yaml:"sim"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// BookConfig names the simulated instrument.
type BookConfig struct {
	Name string `yaml:"name"`
}

// OutputConfig lists result files to write. Empty paths skip that output.
type OutputConfig struct {
	TradesCSV  string `yaml:"trades_csv"`
	TradesJSON string `yaml:"trades_json"`
	DepthsCSV  string `yaml:"depths_csv"`
	DepthsJSON string `yaml:"depths_json"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a runnable configuration: a short seeded run writing
// trades and depths as CSV.
func Default() Config {
	return Config{
		Book: BookConfig{Name: "SIM"},
		Sim: sim.Params{
			Orders:       10000,
			PriceBound:   8,
			LimitBound:   4,
			LimitRate:    1.0,
			MarketRate:   0.2,
			CancelRate:   0.8,
			SnapInterval: 100,
			SnapLevels:   10,
			Seed:         1,
		},
		Output: OutputConfig{
			TradesCSV: "trades.csv",
			DepthsCSV: "depths.csv",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults, so partial files only override
// what they set.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations that cannot produce a meaningful run.
func (c Config) Validate() error {
	if c.Book.Name == "" {
		return errors.New("book.name must not be empty")
	}
	if c.Sim.Orders <= 0 {
		return errors.New("sim.orders must be positive")
	}
	if c.Sim.PriceBound <= 0 {
		return errors.New("sim.price_bound must be positive")
	}
	if c.Sim.LimitBound <= 0 {
		return errors.New("sim.limit_bound must be positive")
	}
	if c.Sim.LimitRate < 0 || c.Sim.MarketRate < 0 || c.Sim.CancelRate < 0 {
		return errors.New("sim rates must not be negative")
	}
	if c.Sim.LimitRate+c.Sim.MarketRate+c.Sim.CancelRate == 0 {
		return errors.New("at least one sim rate must be positive")
	}
	if c.Sim.SnapInterval < 0 {
		return errors.New("sim.snap_interval must not be negative")
	}
	return nil
}
