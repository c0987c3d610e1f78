package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featprep/feature"
	"github.com/YuminosukeSato/featprep/pkg/errors"
	"github.com/YuminosukeSato/featprep/preprocessing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	opts := cfg.Options()
	want := preprocessing.DefaultOptions()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, want.ReturnType, opts.ReturnType)
	assert.Equal(t, want.ScaleHashed, opts.ScaleHashed)
	assert.Equal(t, want.ScaleVectors, opts.ScaleVectors)
	assert.Equal(t, want.Missing, opts.Missing)
	assert.Equal(t, want.Scaler, opts.Scaler)
	assert.Empty(t, opts.ScalerArgs)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "featprep.yaml", `
log_level: debug
preprocessing:
  return_type: pd
  scale_hashed: false
  missing: Mean
  scaler: RobustScaler
  scaler_args:
    quantile_range: [10, 90]
    unit_variance: true
  logfile: /tmp/featprep.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	opts := cfg.Options()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "pd", opts.ReturnType)
	assert.False(t, opts.ScaleHashed)
	assert.True(t, opts.ScaleVectors)
	assert.Equal(t, preprocessing.MissingMean, opts.Missing)
	assert.Equal(t, "RobustScaler", opts.Scaler)
	assert.Equal(t, "/tmp/featprep.log", opts.LogFile)

	s, err := preprocessing.NewScaler(opts.Scaler, opts.ScalerArgs)
	require.NoError(t, err)
	robust := s.(*preprocessing.RobustScaler)
	assert.Equal(t, [2]float64{10, 90}, robust.QuantileRange)
	assert.True(t, robust.UnitVariance)
}

func TestLoadMergesFiles(t *testing.T) {
	base := writeFile(t, "base.yaml", "preprocessing:\n  scaler: MinMaxScaler\n  missing: median\n")
	override := writeFile(t, "override.yaml", "preprocessing:\n  missing: mode\n")

	cfg, err := Load(base, override)
	require.NoError(t, err)
	assert.Equal(t, "MinMaxScaler", cfg.Options().Scaler)
	assert.Equal(t, preprocessing.MissingMode, cfg.Options().Missing)
}

func TestLoadEnvironment(t *testing.T) {
	path := writeFile(t, "featprep.yaml", "preprocessing:\n  scaler: RobustScaler\n")
	t.Setenv("FEATPREP_PREPROCESSING_SCALER", "StandardScaler")
	t.Setenv("FEATPREP_PREPROCESSING_SCALER_ARGS", "with_mean=false")
	t.Setenv("FEATPREP_PREPROCESSING_SCALE_VECTORS", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	opts := cfg.Options()
	assert.Equal(t, "StandardScaler", opts.Scaler)
	assert.Equal(t, feature.Kwargs{"with_mean": false}, opts.ScalerArgs)
	assert.False(t, opts.ScaleVectors)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown scaler", "preprocessing:\n  scaler: Normalizer\n"},
		{"bad missing policy", "preprocessing:\n  missing: interpolate\n"},
		{"bad scaler args", "preprocessing:\n  scaler_args:\n    with_median: true\n"},
		{"bad log level", "log_level: verbose\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "featprep.yaml", tt.content))
			var validation *errors.ValidationError
			require.Error(t, err)
			assert.True(t, errors.As(err, &validation), "got %v", err)
		})
	}
}

func TestOptionsIsACopy(t *testing.T) {
	path := writeFile(t, "featprep.yaml", "preprocessing:\n  scaler_args:\n    with_std: false\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	opts := cfg.Options()
	opts.ScalerArgs["with_mean"] = false
	assert.NotContains(t, cfg.Options().ScalerArgs, "with_mean")

	p, err := preprocessing.New(feature.Specs{{Name: "x", Strategy: feature.Scaling}}, preprocessing.WithOptions(cfg.Options()))
	require.NoError(t, err)
	assert.Equal(t, feature.Kwargs{"with_std": false}, p.Config.ScalerArgs)
}
