package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marden/carscout/internal/dataset"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <csv-file> <sqlite-file>",
		Short: "Import a CSV dataset into a SQLite store",
		Long: `Parse a CSV dataset and import it into a SQLite store, replacing
any rows the store already holds. The store can then be used anywhere a
dataset path is accepted.

Examples:
  carscout import data/integrated_cars.csv data/cars.db
  carscout recommend --dataset data/cars.db`,
		Args: cobra.ExactArgs(2),
		RunE: importCommand,
	}

	addSharedFlags(cmd)
	cmd.Flags().Int("reference-year", 0, "Reference year for vehicle age derivation")
	return cmd
}

func importCommand(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	referenceYear := cfg.ReferenceYear
	if cmd.Flags().Changed("reference-year") {
		referenceYear, _ = cmd.Flags().GetInt("reference-year")
	}

	csvPath, dbPath := args[0], args[1]

	vehicles, err := dataset.LoadCSV(csvPath, referenceYear, log)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", csvPath, err)
	}

	store, err := dataset.OpenStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open store %s: %w", dbPath, err)
	}
	defer store.Close()

	if err := store.Import(vehicles); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d vehicles into %s\n", len(vehicles), dbPath)
	return nil
}
