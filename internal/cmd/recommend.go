package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/marden/carscout/internal/config"
	"github.com/marden/carscout/internal/display"
	"github.com/marden/carscout/internal/export"
	"github.com/marden/carscout/internal/logger"
	"github.com/marden/carscout/internal/models"
)

// NewRecommendCommand creates the recommend command
func NewRecommendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank vehicles against a preference profile",
		Long: `Run the full recommendation pipeline and print the top picks.

Preferences can be supplied as a YAML profile (--prefs) and/or as
individual flags; flags override the profile. Constraints left unset do
not restrict the candidate pool.

Configuration is loaded from .carscout/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  carscout recommend --max-price 25000 --min-safety 4.0
  carscout recommend --prefs family.yaml --top-n 5
  carscout recommend --dataset cars.db --json
  carscout recommend --export picks.csv --report picks.html
  carscout recommend --evaluator swipl --max-price 20000`,
		Args: cobra.NoArgs,
		RunE: recommendCommand,
	}

	addSharedFlags(cmd)
	cmd.Flags().String("prefs", "", "Path to a YAML preference profile")
	cmd.Flags().Float64("max-price", 0, "Maximum purchase price in dollars")
	cmd.Flags().Int("min-year", 0, "Earliest acceptable model year")
	cmd.Flags().Int("max-year", 0, "Latest acceptable model year")
	cmd.Flags().Float64("min-safety", 0, "Minimum safety rating (1-5)")
	cmd.Flags().Float64("min-reliability", 0, "Minimum reliability score (0-1)")
	cmd.Flags().Float64("max-mileage", 0, "Maximum odometer reading in miles")
	cmd.Flags().Int("ownership-years", 0, "Planned ownership horizon in years")
	cmd.Flags().Int("top-n", 0, "Number of picks to return")
	cmd.Flags().Bool("json", false, "Print the full recommendation as JSON")
	cmd.Flags().String("export", "", "Export ranked results to a file (.csv or .json)")
	cmd.Flags().String("report", "", "Write an HTML report of the run")
	cmd.Flags().String("evaluator", "", "Rule evaluator: embedded or swipl")

	return cmd
}

// addSharedFlags registers the flags common to every dataset-backed command.
func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: .carscout/config.yaml)")
	cmd.Flags().String("dataset", "", "Path to the vehicle dataset (CSV or SQLite)")
	cmd.Flags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
}

// recommendCommand implements the recommend command logic
func recommendCommand(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	prefs, err := buildPreferences(cmd)
	if err != nil {
		return err
	}

	evaluatorKind := cfg.Evaluator.Kind
	if v, _ := cmd.Flags().GetString("evaluator"); v != "" {
		evaluatorKind = v
	}

	eng, err := buildEngine(cfg, evaluatorKind, log)
	if err != nil {
		return err
	}

	rec, err := eng.Recommend(cmd.Context(), prefs)
	if err != nil {
		return err
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := exportResults(exportPath, rec); err != nil {
			return err
		}
		log.Infof("exported results to %s", exportPath)
	}

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		html, err := display.RenderHTML(display.Report(rec, time.Now()))
		if err != nil {
			return err
		}
		if err := os.WriteFile(reportPath, html, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Infof("wrote report to %s", reportPath)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	display.NewRenderer(cmd.OutOrStdout()).Render(rec)
	return nil
}

// buildPreferences merges the optional YAML profile with flag overrides.
func buildPreferences(cmd *cobra.Command) (models.Preferences, error) {
	var prefs models.Preferences

	if path, _ := cmd.Flags().GetString("prefs"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return prefs, fmt.Errorf("failed to read preference profile: %w", err)
		}
		if err := yaml.Unmarshal(data, &prefs); err != nil {
			return prefs, fmt.Errorf("failed to parse preference profile %s: %w", path, err)
		}
	}

	if cmd.Flags().Changed("max-price") {
		v, _ := cmd.Flags().GetFloat64("max-price")
		prefs.MaxPrice = models.Float64Ptr(v)
	}
	if cmd.Flags().Changed("min-year") {
		v, _ := cmd.Flags().GetInt("min-year")
		prefs.MinYear = models.IntPtr(v)
	}
	if cmd.Flags().Changed("max-year") {
		v, _ := cmd.Flags().GetInt("max-year")
		prefs.MaxYear = models.IntPtr(v)
	}
	if cmd.Flags().Changed("min-safety") {
		v, _ := cmd.Flags().GetFloat64("min-safety")
		prefs.MinSafety = models.Float64Ptr(v)
	}
	if cmd.Flags().Changed("min-reliability") {
		v, _ := cmd.Flags().GetFloat64("min-reliability")
		prefs.MinReliability = models.Float64Ptr(v)
	}
	if cmd.Flags().Changed("max-mileage") {
		v, _ := cmd.Flags().GetFloat64("max-mileage")
		prefs.MaxMileage = models.Float64Ptr(v)
	}
	if cmd.Flags().Changed("ownership-years") {
		prefs.OwnershipYears, _ = cmd.Flags().GetInt("ownership-years")
	}
	if cmd.Flags().Changed("top-n") {
		prefs.TopN, _ = cmd.Flags().GetInt("top-n")
	}

	return prefs, nil
}

// exportResults dispatches on the export path extension.
func exportResults(path string, rec *models.Recommendation) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return export.WriteJSON(path, rec)
	case ".csv":
		return export.WriteCSV(path, rec.Results)
	default:
		return fmt.Errorf("unsupported export format %q (use .csv or .json)", filepath.Ext(path))
	}
}

// loadEnvironment resolves config and logging for a dataset-backed command.
func loadEnvironment(cmd *cobra.Command) (*config.Config, *logger.Console, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("dataset"); v != "" {
		cfg.DatasetPath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, newLogger(cmd, cfg.LogLevel), nil
}
