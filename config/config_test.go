package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
book:
  name: EURUSD
sim:
  orders: 500
  seed: 99
output:
  trades_csv: ""
  depths_json: depths.json
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "EURUSD", cfg.Book.Name)
	assert.Equal(t, int64(500), cfg.Sim.Orders)
	assert.Equal(t, int64(99), cfg.Sim.Seed)
	// Unset fields keep their defaults.
	assert.Equal(t, int64(8), cfg.Sim.PriceBound)
	assert.Equal(t, 1.0, cfg.Sim.LimitRate)
	assert.Empty(t, cfg.Output.TradesCSV)
	assert.Equal(t, "depths.json", cfg.Output.DepthsJSON)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("book: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty book name", func(c *Config) { c.Book.Name = "" }},
		{"zero orders", func(c *Config) { c.Sim.Orders = 0 }},
		{"zero price bound", func(c *Config) { c.Sim.PriceBound = 0 }},
		{"zero limit bound", func(c *Config) { c.Sim.LimitBound = 0 }},
		{"negative rate", func(c *Config) { c.Sim.MarketRate = -1 }},
		{"all rates zero", func(c *Config) {
			c.Sim.LimitRate, c.Sim.MarketRate, c.Sim.CancelRate = 0, 0, 0
		}},
		{"negative snap interval", func(c *Config) { c.Sim.SnapInterval = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
