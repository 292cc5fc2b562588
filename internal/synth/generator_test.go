package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/config"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/dataset"
)

func testConfig() config.GeneratorConfig {
	return config.DefaultConfig().Generator
}

func TestGenerator_Generate_ShapeAndLabels(t *testing.T) {
	cfg := testConfig()
	cfg.Samples = 100
	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	ds, err := gen.Generate(rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, 100, ds.Len())
	assert.Equal(t, 500, ds.Timesteps())
	require.Len(t, ds.Labels, 100)
	for i, w := range ds.Waveforms {
		assert.Len(t, w, 500, "waveform %d", i)
	}
	for i, l := range ds.Labels {
		assert.Contains(t, []int{0, 1}, l, "label %d", i)
	}
	assert.NoError(t, ds.Validate())
}

func TestGenerator_Generate_PositiveFractionConvergesToRate(t *testing.T) {
	cfg := testConfig()
	cfg.Samples = 1000
	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	ds, err := gen.Generate(rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	fraction := float64(ds.Positives()) / float64(ds.Len())
	assert.InDelta(t, 0.3, fraction, 0.05, "empirical arrhythmia fraction")
}

func TestGenerator_Generate_AnomalyAmplifiesWindow(t *testing.T) {
	// With zero noise and full anomaly rate every sample is a pure sine with
	// exactly one amplified window, so the maximum absolute amplitude must
	// exceed the sine's natural bound of 1.
	cfg := testConfig()
	cfg.Samples = 50
	cfg.NoiseLevel = 0
	cfg.AnomalyRate = 1.0
	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	ds, err := gen.Generate(rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	amplified := 0
	for _, w := range ds.Waveforms {
		max := 0.0
		for _, v := range w {
			if v > max {
				max = v
			}
			if -v > max {
				max = -v
			}
		}
		if max > 1.0 {
			amplified++
		}
	}
	// The window is 20 steps of a 5-cycle sine, so it almost always covers a
	// region of non-trivial amplitude. Allow a few degenerate windows.
	assert.Greater(t, amplified, 40)
	for _, l := range ds.Labels {
		assert.Equal(t, dataset.LabelArrhythmia, l)
	}
}

func TestGenerator_Generate_ZeroRateYieldsOnlyNormal(t *testing.T) {
	cfg := testConfig()
	cfg.Samples = 50
	cfg.AnomalyRate = 0
	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	ds, err := gen.Generate(rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.Equal(t, 0, ds.Positives())
}

func TestGenerator_Generate_Reproducible(t *testing.T) {
	cfg := testConfig()
	cfg.Samples = 10
	gen, err := NewGenerator(cfg)
	require.NoError(t, err)

	a, err := gen.Generate(rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := gen.Generate(rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Waveforms, b.Waveforms)
}

func TestNewGenerator_RejectsShortWaveforms(t *testing.T) {
	cfg := testConfig()
	cfg.Timesteps = 200

	_, err := NewGenerator(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewGenerator_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.GeneratorConfig)
	}{
		{"zero samples", func(c *config.GeneratorConfig) { c.Samples = 0 }},
		{"negative noise", func(c *config.GeneratorConfig) { c.NoiseLevel = -0.1 }},
		{"rate above one", func(c *config.GeneratorConfig) { c.AnomalyRate = 1.5 }},
		{"inverted scale range", func(c *config.GeneratorConfig) { c.ScaleMin = 3; c.ScaleMax = 2 }},
		{"window larger than margin", func(c *config.GeneratorConfig) { c.WindowSize = 150 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := NewGenerator(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
