// Package pipeline wires the classifier stages together: generate a synthetic
// dataset, split it, train the convolutional classifier, and evaluate it on
// the held-out test partition. Execution is strictly linear; the first error
// aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/config"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/dataset"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/metrics"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/nn"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/observability"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/synth"
)

// HistogramBins used for the mean-amplitude summary.
const HistogramBins = 10

// Result is the outcome of a full classifier run.
type Result struct {
	RunID        string
	Summary      dataset.Summary
	TrainSize    int
	TestSize     int
	ModelSummary string
	History      *nn.History
	Report       *metrics.Report
	Duration     time.Duration
}

// Run executes the full classifier pipeline. The onEpoch callback, if set,
// receives per-epoch training stats for progress display.
func Run(ctx context.Context, cfg *config.Config, log *observability.Logger, onEpoch func(nn.EpochStats)) (*Result, error) {
	runID := uuid.NewString()
	log = log.WithRun(runID)
	start := time.Now()

	gen, err := synth.NewGenerator(cfg.Generator)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("samples", cfg.Generator.Samples).
		Int("timesteps", cfg.Generator.Timesteps).
		Float64("noise_level", cfg.Generator.NoiseLevel).
		Msg("generating synthetic dataset")

	ds, err := gen.Generate(rand.New(rand.NewSource(cfg.Generator.Seed)))
	if err != nil {
		return nil, err
	}

	summary, err := ds.Summarize(HistogramBins)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("normal", summary.Normal).
		Int("arrhythmia", summary.Arrhythmia).
		Float64("positive_fraction", summary.PositiveFraction).
		Msg("dataset generated")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	train, test, err := dataset.StratifiedSplit(ds, cfg.Training.TestFraction, cfg.Training.Seed)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("train_size", train.Len()).
		Int("test_size", test.Len()).
		Msg("dataset split")

	net, err := nn.NewNetwork(cfg.Generator.Timesteps, rand.New(rand.NewSource(cfg.Training.Seed)))
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hist, err := net.Fit(train.Waveforms, train.Labels, nn.FitConfig{
		Epochs:             cfg.Training.Epochs,
		BatchSize:          cfg.Training.BatchSize,
		LearningRate:       cfg.Training.LearningRate,
		Patience:           cfg.Training.Patience,
		ValidationFraction: cfg.Training.ValidationFraction,
		Seed:               cfg.Training.Seed,
		OnEpoch:            onEpoch,
	})
	if err != nil {
		return nil, fmt.Errorf("train classifier: %w", err)
	}
	log.Info().
		Int("epochs_trained", len(hist.Epochs)).
		Int("best_epoch", hist.BestEpoch).
		Bool("early_stopped", hist.Stopped).
		Float64("best_val_loss", hist.Best().ValLoss).
		Msg("training complete")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	probs, err := net.PredictBatch(test.Waveforms)
	if err != nil {
		return nil, fmt.Errorf("evaluate classifier: %w", err)
	}
	report, err := metrics.Evaluate(probs, test.Labels, metrics.DefaultThreshold)
	if err != nil {
		return nil, err
	}
	log.Info().
		Float64("test_loss", report.Loss).
		Float64("test_accuracy", report.Accuracy).
		Msg("evaluation complete")

	return &Result{
		RunID:        runID,
		Summary:      summary,
		TrainSize:    train.Len(),
		TestSize:     test.Len(),
		ModelSummary: net.Summary(),
		History:      hist,
		Report:       report,
		Duration:     time.Since(start),
	}, nil
}
