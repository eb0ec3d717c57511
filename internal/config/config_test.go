package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgestats/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DATABASE_URL", "STATS_DECIMALS", "TABLE_DECIMALS",
		"EDGE_WIDTH_MIN", "EDGE_WIDTH_MAX", "EDGE_PVALUE_ALPHA", "GRADIENT_COLORING", "PVALUE_SCALING", "BATCH_CONCURRENCY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, 3, cfg.Display.StatisticsDecimals)
	assert.Equal(t, 2, cfg.Display.TableDecimals)
	assert.Equal(t, 0.5, cfg.Encoding.WidthMin)
	assert.Equal(t, 10.0, cfg.Encoding.WidthMax)
	assert.True(t, cfg.Encoding.GradientColoring)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/kg")
	t.Setenv("STATS_DECIMALS", "4")
	t.Setenv("EDGE_WIDTH_MAX", "6")
	t.Setenv("PVALUE_SCALING", "false")
	t.Setenv("BATCH_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 4, cfg.Display.StatisticsDecimals)
	assert.False(t, cfg.Encoding.PValueScaling)

	enc := cfg.EncoderConfig()
	assert.Equal(t, [2]float64{0.5, 6}, enc.Scale.Bounds)
	assert.False(t, enc.PValueScaling)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("BATCH_CONCURRENCY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoadIgnoresUnparsable(t *testing.T) {
	t.Setenv("STATS_DECIMALS", "three")
	t.Setenv("BATCH_CONCURRENCY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Display.StatisticsDecimals)
}
