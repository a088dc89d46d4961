// Package export persists ranked result sets as CSV or JSON files.
//
// Writes are guarded by an advisory file lock and go through a temp file
// plus rename so concurrent exporters never interleave partial output.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gofrs/flock"

	"github.com/marden/carscout/internal/models"
)

// csvHeader lists the export columns: the input dataset columns plus the
// five normalized sub-scores and the composite score.
var csvHeader = []string{
	"make", "model", "year", "price", "mileage",
	"overall_rating", "complaint_count", "reliability_score",
	"age", "depreciation_rate",
	"safety_norm", "rel_norm", "price_norm", "resale_norm", "classification_bonus",
	"final_score",
}

// WriteCSV exports the ranked rows to path, one row per recommended vehicle.
func WriteCSV(path string, ranked []models.RankedVehicle) error {
	return withLockedWrite(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		for _, r := range ranked {
			record := []string{
				r.Vehicle.Make,
				r.Vehicle.Model,
				strconv.Itoa(r.Vehicle.Year),
				formatFloat(r.Vehicle.Price),
				formatFloat(r.Vehicle.Mileage),
				formatFloat(r.Vehicle.SafetyRating),
				strconv.Itoa(r.Vehicle.ComplaintCount),
				formatFloat(r.Metrics.ReliabilityScore),
				strconv.Itoa(r.Vehicle.Age),
				formatFloat(r.Vehicle.DepreciationRate),
				formatFloat(r.Scores.Safety),
				formatFloat(r.Scores.Reliability),
				formatFloat(r.Scores.Price),
				formatFloat(r.Scores.Resale),
				formatFloat(r.Scores.Classification),
				formatFloat(r.FinalScore),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

// WriteJSON exports the full recommendation, including explanations and
// pipeline stats, as indented JSON.
func WriteJSON(path string, rec *models.Recommendation) error {
	return withLockedWrite(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	})
}

// withLockedWrite serializes writers on <path>.lock, writes to a temp file
// in the same directory, and renames into place on success.
func withLockedWrite(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire export lock: %w", err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalize export: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
