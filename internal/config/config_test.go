package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CSV_FILE", "")
	t.Setenv("STAT_PERCENTILES", "")
	t.Setenv("HEAT_PERCENTILE", "")
	t.Setenv("COLD_PERCENTILE", "")
	t.Setenv("MIN_RUN_LENGTH", "")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dados.CSV", cfg.Data.CSVFile)
	assert.Equal(t, []float64{1, 5, 25, 50, 75, 95, 99}, cfg.Analysis.Percentiles)
	assert.Equal(t, 90.0, cfg.Analysis.HeatPercentile)
	assert.Equal(t, 10.0, cfg.Analysis.ColdPercentile)
	assert.Equal(t, 3, cfg.Analysis.MinRunLength)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadCustomPercentiles(t *testing.T) {
	t.Setenv("STAT_PERCENTILES", "10, 50, 90")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 50, 90}, cfg.Analysis.Percentiles)
}

func TestLoadRejectsMalformedPercentiles(t *testing.T) {
	t.Setenv("STAT_PERCENTILES", "10,fifty,90")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"fifty"`)
}

func TestLoadRejectsOutOfRangePercentile(t *testing.T) {
	t.Setenv("STAT_PERCENTILES", "10,100")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STAT_PERCENTILES")
}

func TestLoadRejectsInvalidMinRunLength(t *testing.T) {
	t.Setenv("MIN_RUN_LENGTH", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_RUN_LENGTH")
}
