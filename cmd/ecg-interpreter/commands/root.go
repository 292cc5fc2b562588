// Package commands implements the ecg-interpreter command tree.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/cmd/ecg-interpreter/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "ecg-interpreter",
	Short: "AI-Powered ECG Interpreter - synthetic arrhythmia classification toolkit",
	Long: `The ECG interpreter rasterizes sample ECG PDFs into page images, synthesizes
ECG-like waveforms with injected arrhythmia anomalies, and trains a small 1-D
convolutional classifier to separate normal from arrhythmic traces.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env; absence is fine.
		_ = godotenv.Load()
		ui.Init(noColor)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
