// Package dataset loads the integrated vehicle dataset. The canonical form
// is a CSV file produced by the upstream integration step; a SQLite store
// is available as a faster-loading cache of the same rows.
//
// The dataset is loaded once at process start and treated as read-only for
// the process lifetime. Each row receives a synthetic UUID at load time so
// downstream joins never rely on make/model/year uniqueness.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/marden/carscout/internal/models"
)

// Logger receives warnings about rows skipped during loading.
// It may be nil for silent loading.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Required dataset columns. A header missing any of these is a schema
// violation and fatal at load time.
var requiredColumns = []string{"make", "model", "year", "price"}

// columnAliases maps recognized header spellings onto canonical names.
var columnAliases = map[string]string{
	"make":              "make",
	"manufacturer":      "make",
	"model":             "model",
	"year":              "year",
	"model_year":        "year",
	"price":             "price",
	"mileage":           "mileage",
	"milage":            "mileage",
	"odometer":          "mileage",
	"overall_rating":    "safety",
	"safety_rating":     "safety",
	"safety":            "safety",
	"complaint_count":   "complaints",
	"complaints":        "complaints",
	"reliability_score": "reliability",
	"reliability":       "reliability",
	"age":               "age",
	"depreciation_rate": "depreciation",
}

// LoadCSV reads the dataset from path. Missing file or an empty row set is
// ErrDataUnavailable; a header without the required columns is a fatal
// schema error. Individual malformed rows are skipped with a warning and do
// not abort the load.
func LoadCSV(path string, referenceYear int, log Logger) ([]models.Vehicle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrDataUnavailable, path)
	}
	defer f.Close()

	vehicles, err := ReadCSV(f, referenceYear, log)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return vehicles, nil
}

// ReadCSV parses dataset rows from r. See LoadCSV for error semantics.
func ReadCSV(r io.Reader, referenceYear int, log Logger) ([]models.Vehicle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, models.ErrDataUnavailable
	}

	columns, extras, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var vehicles []models.Vehicle
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			warnf(log, "skipping malformed row %d: %v", line, err)
			continue
		}

		v, err := parseRow(record, columns, extras, referenceYear)
		if err != nil {
			warnf(log, "skipping row %d: %v", line, err)
			continue
		}
		vehicles = append(vehicles, v)
	}

	if len(vehicles) == 0 {
		return nil, models.ErrDataUnavailable
	}
	return vehicles, nil
}

// mapHeader resolves canonical column indices and collects unrecognized
// columns as extras.
func mapHeader(header []string) (map[string]int, map[string]int, error) {
	columns := make(map[string]int)
	extras := make(map[string]int)

	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := columnAliases[key]; ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = i
			}
			continue
		}
		if key != "" {
			extras[key] = i
		}
	}

	for _, required := range requiredColumns {
		canonical := columnAliases[required]
		if _, ok := columns[canonical]; !ok {
			return nil, nil, fmt.Errorf("dataset schema violation: missing required column %q", required)
		}
	}

	return columns, extras, nil
}

func parseRow(record []string, columns, extras map[string]int, referenceYear int) (models.Vehicle, error) {
	get := func(canonical string) (string, bool) {
		i, ok := columns[canonical]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	makeStr, _ := get("make")
	modelStr, _ := get("model")
	if makeStr == "" || modelStr == "" {
		return models.Vehicle{}, fmt.Errorf("missing make or model")
	}

	yearStr, _ := get("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("invalid year %q", yearStr)
	}

	priceStr, _ := get("price")
	price, err := parseCurrency(priceStr)
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("invalid price %q", priceStr)
	}

	v := models.Vehicle{
		ID:               uuid.NewString(),
		Make:             strings.ToUpper(makeStr),
		Model:            strings.ToUpper(modelStr),
		Year:             year,
		Price:            price,
		Mileage:          -1,
		SafetyRating:     models.DefaultSafetyRating,
		ReliabilityScore: models.DefaultReliability,
	}

	if s, ok := get("mileage"); ok && s != "" {
		if mileage, err := parseCurrency(s); err == nil && mileage >= 0 {
			v.Mileage = mileage
		}
	}
	if s, ok := get("safety"); ok && s != "" {
		if safety, err := strconv.ParseFloat(s, 64); err == nil && safety >= 1.0 && safety <= 5.0 {
			v.SafetyRating = safety
		}
	}
	if s, ok := get("complaints"); ok && s != "" {
		if complaints, err := strconv.Atoi(s); err == nil && complaints >= 0 {
			v.ComplaintCount = complaints
		}
	}
	if s, ok := get("reliability"); ok && s != "" {
		if reliability, err := strconv.ParseFloat(s, 64); err == nil && reliability >= 0 && reliability <= 1 {
			v.ReliabilityScore = reliability
		}
	}

	// Age and depreciation derive from the model year when the dataset
	// does not carry them.
	v.Age = referenceYear - year
	if v.Age < 0 {
		v.Age = 0
	}
	if s, ok := get("age"); ok && s != "" {
		if age, err := strconv.Atoi(s); err == nil && age >= 0 {
			v.Age = age
		}
	}
	v.DepreciationRate = float64(v.Age) * models.YearlyDepreciationPerAge
	if s, ok := get("depreciation"); ok && s != "" {
		if rate, err := strconv.ParseFloat(s, 64); err == nil && rate >= 0 && !math.IsInf(rate, 0) {
			v.DepreciationRate = rate
		}
	}

	if len(extras) > 0 {
		v.Extra = make(map[string]string, len(extras))
		for name, i := range extras {
			if i < len(record) {
				v.Extra[name] = strings.TrimSpace(record[i])
			}
		}
	}

	return v, nil
}

// parseCurrency accepts plain numbers plus $ and thousands separators.
func parseCurrency(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if cleaned == "" {
		return -1, nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("non-finite value")
	}
	return value, nil
}

func warnf(log Logger, format string, args ...interface{}) {
	if log != nil {
		log.Warnf(format, args...)
	}
}
