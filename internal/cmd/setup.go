package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marden/carscout/internal/config"
	"github.com/marden/carscout/internal/dataset"
	"github.com/marden/carscout/internal/engine"
	"github.com/marden/carscout/internal/logger"
	"github.com/marden/carscout/internal/rules"
)

// newLogger builds the console logger for a command, writing to the
// command's error stream so data output on stdout stays clean.
func newLogger(cmd *cobra.Command, level string) *logger.Console {
	return logger.New(cmd.ErrOrStderr(), level)
}

// buildEngine loads the dataset and wires the selected rule evaluator.
func buildEngine(cfg *config.Config, evaluatorKind string, log *logger.Console) (*engine.Engine, error) {
	pool, err := dataset.Load(cfg.DatasetPath, cfg.ReferenceYear, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", cfg.DatasetPath, err)
	}

	var evaluator rules.Evaluator
	switch evaluatorKind {
	case "swipl":
		swipl, err := rules.NewSwiplEvaluator(cfg.Evaluator.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to start swipl evaluator: %w", err)
		}
		if cfg.Evaluator.Timeout > 0 {
			swipl.Timeout = cfg.Evaluator.Timeout
		}
		evaluator = swipl
	default:
		evaluator = rules.NewEngine()
	}

	return engine.New(pool, evaluator, log), nil
}
