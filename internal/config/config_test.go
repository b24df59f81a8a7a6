package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Simulation: SimulationConfig{
			Days:     1000,
			Workers:  4,
			RoundCap: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_CollectsViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Days = 0
	cfg.Simulation.Workers = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.days")
	assert.Contains(t, err.Error(), "simulation.workers")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidate_RoundCap(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.RoundCap = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Simulation.Days)
	assert.GreaterOrEqual(t, cfg.Simulation.Workers, 1)
	assert.Equal(t, 100, cfg.Simulation.RoundCap)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
simulation:
  days: 50
  workers: 2
  round_cap: 20
logging:
  level: debug
  format: json
`), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Simulation.Days)
	assert.Equal(t, 2, cfg.Simulation.Workers)
	assert.Equal(t, 20, cfg.Simulation.RoundCap)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SKIRMISH_SIMULATION_DAYS", "25")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Simulation.Days)
}

func TestLoad_InvalidFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  days: -3\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
