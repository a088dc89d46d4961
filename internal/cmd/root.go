package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for carscout
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carscout",
		Short: "Used-vehicle recommendation engine",
		Long: `Carscout ranks used vehicles against a buyer's preference profile.

It filters an integrated vehicle dataset by hard constraints, classifies
the survivors with a rule engine, estimates reliability and ownership
cost over the planned horizon, and prints the top picks with
human-readable explanations.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRecommendCommand())
	cmd.AddCommand(NewStatsCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewServeCommand())

	return cmd
}
