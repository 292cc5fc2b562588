package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/cmd/ecg-interpreter/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full interpreter pipeline",
	Long: `Execute all stages in order: rasterize the sample ECG PDF (skipped with a
warning when absent), synthesize the dataset, train the classifier, and report
evaluation metrics.`,
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ui.Section("PDF Rendering")
	pages, err := renderPages(ctx, cfg, log)
	if err != nil {
		return err
	}
	if pages != nil {
		ui.Success("Rendered %d pages into %s", len(pages), cfg.Render.OutputDir)
	}

	return trainAndReport(ctx, cfg, log)
}
