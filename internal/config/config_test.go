package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 500, cfg.Generator.Timesteps)
	assert.Equal(t, 30, cfg.Training.Epochs)
	assert.Equal(t, 32, cfg.Training.BatchSize)
}

func TestValidate_RejectsShortTimesteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Timesteps = 200

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timesteps")
}

func TestValidate_RejectsBadTrainingValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero epochs", func(c *Config) { c.Training.Epochs = 0 }},
		{"zero batch size", func(c *Config) { c.Training.BatchSize = 0 }},
		{"negative learning rate", func(c *Config) { c.Training.LearningRate = -1 }},
		{"test fraction one", func(c *Config) { c.Training.TestFraction = 1 }},
		{"validation fraction zero", func(c *Config) { c.Training.ValidationFraction = 0 }},
		{"dpi too low", func(c *Config) { c.Render.DPI = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
generator:
  samples: 250
  timesteps: 400
training:
  epochs: 10
render:
  dpi: 72
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Generator.Samples)
	assert.Equal(t, 400, cfg.Generator.Timesteps)
	assert.Equal(t, 10, cfg.Training.Epochs)
	assert.Equal(t, 72.0, cfg.Render.DPI)
	// Untouched fields keep their defaults.
	assert.Equal(t, 0.1, cfg.Generator.NoiseLevel)
	assert.Equal(t, 32, cfg.Training.BatchSize)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generator:\n  timesteps: 150\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timesteps")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ECG_SAMPLES", "77")
	t.Setenv("ECG_SEED", "9")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 77, cfg.Generator.Samples)
	assert.Equal(t, uint64(9), cfg.Generator.Seed)
	assert.Equal(t, uint64(9), cfg.Training.Seed)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}
