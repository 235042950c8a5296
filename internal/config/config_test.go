package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mcx-signals/internal/errors"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultWeightsSumTo100(t *testing.T) {
	assert.InDelta(t, 100.0, Default().Scoring.Weights.Sum(), 1e-9)
}

func TestValidateRejectsBadWeights(t *testing.T) {
	cfg := Default()
	cfg.Scoring.Weights.RSI = 50
	err := cfg.Validate()
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfigInvalid))
}

func TestValidateRejectsMissingTimeframeWeight(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Timeframes = append(cfg.Analysis.Timeframes, "5minute")
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cfg := Default()
	cfg.Scoring.BiasThreshold = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Scoring.ConfidenceMedium = 80
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Setup.Target2Multiple = cfg.Setup.Target1Multiple
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Premium.MinPercent = 5
	assert.Error(t, cfg.Validate())
}

func TestLoadCreatesTemplateOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "NATURALGAS", cfg.Symbol.Name)

	_, err = os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, err)
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[symbol]
name = "CRUDEOIL"
exchange = "MCX"
tick_size = 1.0
lot_size = 100
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "CRUDEOIL", cfg.Symbol.Name)
	// Unset sections keep their defaults.
	assert.InDelta(t, 20.0, cfg.Scoring.BiasThreshold, 1e-9)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[symbol]\nname = \"CRUDEOIL\"\n"), 0o644))

	t.Setenv("MCX_SIGNALS_SYMBOL", "SILVER")
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "SILVER", cfg.Symbol.Name)
}
