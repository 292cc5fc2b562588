// Package synth generates labeled ECG-like waveforms with injected
// amplitude anomalies standing in for arrhythmic beats.
package synth

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/config"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/dataset"
)

// ErrInvalidConfig reports a generator configuration that cannot produce
// valid waveforms.
var ErrInvalidConfig = errors.New("invalid generator config")

// BaseFrequency is the number of sine cycles over the unit interval used as
// the heartbeat-like base oscillation.
const BaseFrequency = 5.0

// Generator produces synthetic labeled waveform datasets.
type Generator struct {
	cfg config.GeneratorConfig
}

// NewGenerator validates the configuration and returns a Generator.
func NewGenerator(cfg config.GeneratorConfig) (*Generator, error) {
	if cfg.Samples < 1 {
		return nil, fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, cfg.Samples)
	}
	if cfg.WindowSize < 1 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidConfig, cfg.WindowSize)
	}
	if cfg.EdgeMargin < cfg.WindowSize {
		return nil, fmt.Errorf("%w: edge margin %d is smaller than window size %d",
			ErrInvalidConfig, cfg.EdgeMargin, cfg.WindowSize)
	}
	// The anomaly window start is drawn from [EdgeMargin, Timesteps-EdgeMargin),
	// which is empty unless the waveform is longer than twice the margin.
	if cfg.Timesteps <= 2*cfg.EdgeMargin {
		return nil, fmt.Errorf("%w: timesteps must exceed %d, got %d",
			ErrInvalidConfig, 2*cfg.EdgeMargin, cfg.Timesteps)
	}
	if cfg.NoiseLevel < 0 {
		return nil, fmt.Errorf("%w: noise level must not be negative, got %g", ErrInvalidConfig, cfg.NoiseLevel)
	}
	if cfg.AnomalyRate < 0 || cfg.AnomalyRate > 1 {
		return nil, fmt.Errorf("%w: anomaly rate must be in [0,1], got %g", ErrInvalidConfig, cfg.AnomalyRate)
	}
	if cfg.ScaleMin > cfg.ScaleMax {
		return nil, fmt.Errorf("%w: scale min %g exceeds scale max %g",
			ErrInvalidConfig, cfg.ScaleMin, cfg.ScaleMax)
	}
	return &Generator{cfg: cfg}, nil
}

// Generate produces a labeled dataset using the supplied random source.
// Passing a source with a fixed seed makes the dataset reproducible.
func (g *Generator) Generate(rng *rand.Rand) (*dataset.Dataset, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source must not be nil")
	}

	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}

	ds := &dataset.Dataset{
		Waveforms: make([][]float64, g.cfg.Samples),
		Labels:    make([]int, g.cfg.Samples),
	}

	for i := 0; i < g.cfg.Samples; i++ {
		ds.Waveforms[i], ds.Labels[i] = g.sample(rng, noise)
	}

	return ds, nil
}

// sample builds one waveform: a sine base with additive Gaussian noise, and
// with probability AnomalyRate an amplified contiguous window labeled as an
// arrhythmia.
func (g *Generator) sample(rng *rand.Rand, noise distuv.Normal) ([]float64, int) {
	steps := g.cfg.Timesteps
	w := make([]float64, steps)
	for t := 0; t < steps; t++ {
		x := float64(t) / float64(steps-1)
		w[t] = math.Sin(2*math.Pi*BaseFrequency*x) + noise.Rand()*g.cfg.NoiseLevel
	}

	if rng.Float64() >= g.cfg.AnomalyRate {
		return w, dataset.LabelNormal
	}

	start := g.cfg.EdgeMargin + rng.Intn(steps-2*g.cfg.EdgeMargin)
	scale := g.cfg.ScaleMin + rng.Float64()*(g.cfg.ScaleMax-g.cfg.ScaleMin)
	for t := start; t < start+g.cfg.WindowSize; t++ {
		w[t] *= scale
	}

	return w, dataset.LabelArrhythmia
}
