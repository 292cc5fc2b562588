package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/cmd/ecg-interpreter/ui"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/config"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/nn"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/observability"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/pipeline"
)

var (
	trainEpochs int
	trainSeed   uint64
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and evaluate the arrhythmia classifier on synthetic data",
	Long: `Synthesize a labeled dataset, split it into stratified train/test partitions,
train the 1-D convolutional classifier with early stopping, and report test
metrics with a per-class classification report.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().IntVarP(&trainEpochs, "epochs", "e", 0, "maximum training epochs (overrides config)")
	trainCmd.Flags().Uint64Var(&trainSeed, "seed", 0, "RNG seed (overrides config)")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if trainEpochs != 0 {
		cfg.Training.Epochs = trainEpochs
	}
	if trainSeed != 0 {
		cfg.Generator.Seed = trainSeed
		cfg.Training.Seed = trainSeed
	}

	return trainAndReport(ctx, cfg, log)
}

// trainAndReport runs the classifier pipeline and prints the full evaluation.
func trainAndReport(ctx context.Context, cfg *config.Config, log *observability.Logger) error {
	ui.Section("Classifier Training")

	bar := ui.NewProgressBar(int64(cfg.Training.Epochs), "Training")
	result, err := pipeline.Run(ctx, cfg, log, func(s nn.EpochStats) {
		bar.Set(int64(s.Epoch + 1))
	})
	bar.Finish()
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	printSummary(result.Summary)

	ui.Section("Split")
	ui.KeyValue("Train size", fmt.Sprintf("%d", result.TrainSize))
	ui.KeyValue("Test size", fmt.Sprintf("%d", result.TestSize))

	ui.Section("Model Architecture")
	ui.Message("%s", result.ModelSummary)

	best := result.History.Best()
	ui.Section("Training Result")
	ui.KeyValue("Epochs trained", fmt.Sprintf("%d", len(result.History.Epochs)))
	ui.KeyValue("Best epoch", fmt.Sprintf("%d", result.History.BestEpoch+1))
	ui.KeyValue("Early stopped", fmt.Sprintf("%t", result.History.Stopped))
	ui.KeyValue("Best validation loss", fmt.Sprintf("%.4f", best.ValLoss))
	ui.KeyValue("Best validation accuracy", fmt.Sprintf("%.4f", best.ValAccuracy))

	ui.Section("Test Evaluation")
	ui.KeyValue("Test loss", fmt.Sprintf("%.4f", result.Report.Loss))
	ui.KeyValue("Test accuracy", fmt.Sprintf("%.4f", result.Report.Accuracy))
	ui.Newline()
	ui.Message("%s", result.Report.String())

	ui.Success("Run %s finished in %s", result.RunID, ui.FormatDuration(result.Duration))
	return nil
}
