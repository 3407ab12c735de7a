package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"wellflow/internal/config"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("environment: production\nsolver:\n  parts: 12\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, 12, cfg.Solver.Parts)
	require.InDelta(t, 1.6, cfg.Solver.Prop, 0)
	require.InDelta(t, 0.01, cfg.Solver.FarError, 0)
	require.Equal(t, []int{16, 24, 32, 40}, cfg.Solver.Levels)
	require.Equal(t, "wellflow", cfg.Database.DatabaseName)
	require.Equal(t, 3, cfg.Sweep.MaxAttempts)
	require.InDelta(t, math.Sqrt(2*math.Pi), cfg.Ensemble.Prop, 1e-15)
	require.InDelta(t, -1e-4, cfg.Ensemble.Rate, 0)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  parts: 12\n"), 0o600))
	t.Setenv("SOLVER_PARTS", "7")
	t.Setenv("SWEEP_QUEUE_WORKERS", "9")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Solver.Parts)
	require.Equal(t, 9, cfg.Sweep.QueueWorkers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Defaults()
	require.NoError(t, err)
	require.Equal(t, 30, cfg.Solver.Parts)
	require.InDelta(t, 60, cfg.Ensemble.TimeMin, 0)
}
