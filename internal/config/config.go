// Package config provides unified configuration loading for the ECG interpreter.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the ECG interpreter.
type Config struct {
	Generator     GeneratorConfig     `yaml:"generator"`
	Training      TrainingConfig      `yaml:"training"`
	Render        RenderConfig        `yaml:"render"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// GeneratorConfig holds synthetic waveform generation settings.
type GeneratorConfig struct {
	Samples     int     `yaml:"samples"`      // number of waveforms to generate
	Timesteps   int     `yaml:"timesteps"`    // points per waveform
	NoiseLevel  float64 `yaml:"noise_level"`  // Gaussian noise scale
	AnomalyRate float64 `yaml:"anomaly_rate"` // probability of an injected anomaly
	WindowSize  int     `yaml:"window_size"`  // anomaly window length in timesteps
	EdgeMargin  int     `yaml:"edge_margin"`  // min distance of the window from either end
	ScaleMin    float64 `yaml:"scale_min"`    // lower bound of the anomaly amplitude scale
	ScaleMax    float64 `yaml:"scale_max"`    // upper bound of the anomaly amplitude scale
	Seed        uint64  `yaml:"seed"`         // RNG seed for reproducible datasets
}

// TrainingConfig holds classifier training settings.
type TrainingConfig struct {
	Epochs             int     `yaml:"epochs"`
	BatchSize          int     `yaml:"batch_size"`
	LearningRate       float64 `yaml:"learning_rate"`
	Patience           int     `yaml:"patience"`            // early-stopping patience in epochs
	TestFraction       float64 `yaml:"test_fraction"`       // held-out test share of the dataset
	ValidationFraction float64 `yaml:"validation_fraction"` // validation share of the train split
	Seed               uint64  `yaml:"seed"`                // RNG seed for split and weight init
}

// RenderConfig holds PDF rasterization settings.
type RenderConfig struct {
	PDFPath   string  `yaml:"pdf_path"`
	DPI       float64 `yaml:"dpi"`
	OutputDir string  `yaml:"output_dir"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json or console
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for a full run.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Samples:     1000,
			Timesteps:   500,
			NoiseLevel:  0.1,
			AnomalyRate: 0.3,
			WindowSize:  20,
			EdgeMargin:  100,
			ScaleMin:    1.5,
			ScaleMax:    2.0,
			Seed:        42,
		},
		Training: TrainingConfig{
			Epochs:             30,
			BatchSize:          32,
			LearningRate:       1e-3,
			Patience:           5,
			TestFraction:       0.2,
			ValidationFraction: 0.2,
			Seed:               42,
		},
		Render: RenderConfig{
			PDFPath:   "sample_ecg.pdf",
			DPI:       150,
			OutputDir: "pages",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	g := c.Generator
	if g.Samples < 1 {
		return fmt.Errorf("generator samples must be positive, got %d", g.Samples)
	}
	if g.WindowSize < 1 {
		return fmt.Errorf("generator window_size must be positive, got %d", g.WindowSize)
	}
	if g.Timesteps <= 2*g.EdgeMargin {
		return fmt.Errorf("generator timesteps must exceed twice the edge margin (%d), got %d",
			2*g.EdgeMargin, g.Timesteps)
	}
	if g.NoiseLevel < 0 {
		return fmt.Errorf("generator noise_level must not be negative, got %g", g.NoiseLevel)
	}
	if g.AnomalyRate < 0 || g.AnomalyRate > 1 {
		return fmt.Errorf("generator anomaly_rate must be in [0,1], got %g", g.AnomalyRate)
	}
	if g.ScaleMin > g.ScaleMax {
		return fmt.Errorf("generator scale_min %g exceeds scale_max %g", g.ScaleMin, g.ScaleMax)
	}

	t := c.Training
	if t.Epochs < 1 {
		return fmt.Errorf("training epochs must be positive, got %d", t.Epochs)
	}
	if t.BatchSize < 1 {
		return fmt.Errorf("training batch_size must be positive, got %d", t.BatchSize)
	}
	if t.LearningRate <= 0 {
		return fmt.Errorf("training learning_rate must be positive, got %g", t.LearningRate)
	}
	if t.TestFraction <= 0 || t.TestFraction >= 1 {
		return fmt.Errorf("training test_fraction must be in (0,1), got %g", t.TestFraction)
	}
	if t.ValidationFraction <= 0 || t.ValidationFraction >= 1 {
		return fmt.Errorf("training validation_fraction must be in (0,1), got %g", t.ValidationFraction)
	}

	if c.Render.DPI < 36 || c.Render.DPI > 600 {
		return fmt.Errorf("render dpi must be between 36 and 600, got %g", c.Render.DPI)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ECG_SAMPLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generator.Samples = n
		}
	}

	if v := os.Getenv("ECG_TIMESTEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generator.Timesteps = n
		}
	}

	if v := os.Getenv("ECG_NOISE_LEVEL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Generator.NoiseLevel = f
		}
	}

	if v := os.Getenv("ECG_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Generator.Seed = n
			cfg.Training.Seed = n
		}
	}

	if v := os.Getenv("ECG_EPOCHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Training.Epochs = n
		}
	}

	if v := os.Getenv("ECG_PDF_PATH"); v != "" {
		cfg.Render.PDFPath = v
	}

	if v := os.Getenv("ECG_OUTPUT_DIR"); v != "" {
		cfg.Render.OutputDir = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
