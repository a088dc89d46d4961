package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marden/carscout/internal/dataset"
	"github.com/marden/carscout/internal/explain"
	"github.com/marden/carscout/internal/semantic"
)

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the vehicle dataset",
		Long: `Load the dataset and print summary statistics: pool size, model
year range, price figures, the relation graph footprint, and the
manufacturers whose average reliability clears the reliable threshold.

Examples:
  carscout stats
  carscout stats --dataset cars.db`,
		Args: cobra.NoArgs,
		RunE: statsCommand,
	}

	addSharedFlags(cmd)
	return cmd
}

func statsCommand(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	pool, err := dataset.Load(cfg.DatasetPath, cfg.ReferenceYear, log)
	if err != nil {
		return fmt.Errorf("failed to load dataset %s: %w", cfg.DatasetPath, err)
	}

	makes := map[string]int{}
	minYear, maxYear := pool[0].Year, pool[0].Year
	var priceSum, priceMin, priceMax float64
	priced := 0
	for _, v := range pool {
		makes[v.Make]++
		if v.Year < minYear {
			minYear = v.Year
		}
		if v.Year > maxYear {
			maxYear = v.Year
		}
		if v.Price > 0 {
			if priced == 0 || v.Price < priceMin {
				priceMin = v.Price
			}
			if v.Price > priceMax {
				priceMax = v.Price
			}
			priceSum += v.Price
			priced++
		}
	}

	names := make([]string, 0, len(makes))
	for name := range makes {
		names = append(names, name)
	}
	sort.Strings(names)

	graph := semantic.Build(pool)
	graphStats := graph.Stats()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dataset: %s\n", cfg.DatasetPath)
	fmt.Fprintf(out, "  Vehicles: %d across %d manufacturers\n", len(pool), len(makes))
	fmt.Fprintf(out, "  Model years: %d-%d\n", minYear, maxYear)
	if priced > 0 {
		fmt.Fprintf(out, "  Prices: %s to %s, average %s\n",
			explain.FormatDollars(priceMin), explain.FormatDollars(priceMax),
			explain.FormatDollars(priceSum/float64(priced)))
	}
	fmt.Fprintf(out, "  Relation graph: %d triples\n", graphStats.TripleCount)
	if reliable := graph.ReliableManufacturers(); len(reliable) > 0 {
		labels := make([]string, len(reliable))
		for i, m := range reliable {
			labels[i] = fmt.Sprintf("%s (%.0f%%)", m.Name, m.AvgReliability*100)
		}
		fmt.Fprintf(out, "  Reliable manufacturers: %s\n", strings.Join(labels, ", "))
	}

	fmt.Fprintf(out, "\nVehicles per manufacturer:\n")
	for _, name := range names {
		fmt.Fprintf(out, "  %-20s %d\n", name, makes[name])
	}
	return nil
}
