package commands

import (
	"fmt"

	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/config"
	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/internal/observability"
)

// setup loads configuration and builds the logger shared by all commands.
func setup() (*config.Config, *observability.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Observability.LogLevel
	if verbose {
		level = "debug"
	}
	log := observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "ecg-interpreter",
	})

	return cfg, log, nil
}
