package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marden/carscout/internal/models"
)

const sampleCSV = `make,model,year,price,mileage,overall_rating,complaint_count,reliability_score,age,depreciation_rate,fuel_type
Toyota,Camry,2020,22000,35000,5.0,2,0.92,4,0.60,gas
Honda,Civic,2019,"$18,000",42000,4.5,1,0.88,5,0.75,gas
BMW,328i,2016,24000,55000,4.0,15,0.65,8,1.20,gas
`

type capturingLogger struct {
	warnings []string
}

func (l *capturingLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func TestReadCSV_ParsesRows(t *testing.T) {
	vehicles, err := ReadCSV(strings.NewReader(sampleCSV), 2024, nil)
	require.NoError(t, err)
	require.Len(t, vehicles, 3)

	camry := vehicles[0]
	assert.NotEmpty(t, camry.ID)
	assert.Equal(t, "TOYOTA", camry.Make)
	assert.Equal(t, "CAMRY", camry.Model)
	assert.Equal(t, 2020, camry.Year)
	assert.Equal(t, 22000.0, camry.Price)
	assert.Equal(t, 35000.0, camry.Mileage)
	assert.Equal(t, 5.0, camry.SafetyRating)
	assert.Equal(t, 2, camry.ComplaintCount)
	assert.Equal(t, 4, camry.Age)
	assert.InDelta(t, 0.60, camry.DepreciationRate, 1e-9)
	assert.Equal(t, "gas", camry.Extra["fuel_type"])

	// Currency formatting in the price column is accepted.
	assert.Equal(t, 18000.0, vehicles[1].Price)
}

func TestReadCSV_UniqueRowIDs(t *testing.T) {
	csv := "make,model,year,price\nToyota,Camry,2020,22000\nToyota,Camry,2020,21000\n"
	vehicles, err := ReadCSV(strings.NewReader(csv), 2024, nil)
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	// Duplicate make/model/year listings stay distinct rows.
	assert.Equal(t, vehicles[0].Key(), vehicles[1].Key())
	assert.NotEqual(t, vehicles[0].ID, vehicles[1].ID)
}

func TestReadCSV_DerivesAgeAndDepreciation(t *testing.T) {
	csv := "make,model,year,price\nToyota,Camry,2020,22000\n"
	vehicles, err := ReadCSV(strings.NewReader(csv), 2024, nil)
	require.NoError(t, err)

	v := vehicles[0]
	assert.Equal(t, 4, v.Age)
	assert.InDelta(t, 4*models.YearlyDepreciationPerAge, v.DepreciationRate, 1e-9)
	assert.Equal(t, models.DefaultSafetyRating, v.SafetyRating)
	assert.Equal(t, models.DefaultReliability, v.ReliabilityScore)
	assert.Equal(t, -1.0, v.Mileage)
}

func TestReadCSV_SkipsMalformedRows(t *testing.T) {
	csv := "make,model,year,price\nToyota,Camry,2020,22000\nHonda,Civic,notayear,18000\n,,2019,5000\n"
	log := &capturingLogger{}

	vehicles, err := ReadCSV(strings.NewReader(csv), 2024, log)
	require.NoError(t, err)
	assert.Len(t, vehicles, 1)
	assert.Len(t, log.warnings, 2)
}

func TestReadCSV_MissingRequiredColumnIsFatal(t *testing.T) {
	csv := "make,model,year\nToyota,Camry,2020\n"
	_, err := ReadCSV(strings.NewReader(csv), 2024, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestReadCSV_EmptyDataset(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("make,model,year,price\n"), 2024, nil)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)

	_, err = ReadCSV(strings.NewReader(""), 2024, nil)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), 2024, nil)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "cars.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o644))

	fromCSV, err := Load(csvPath, 2024, nil)
	require.NoError(t, err)
	require.Len(t, fromCSV, 3)

	dbPath := filepath.Join(dir, "cars.db")
	store, err := OpenStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Import(fromCSV))
	require.NoError(t, store.Close())

	fromDB, err := Load(dbPath, 2024, nil)
	require.NoError(t, err)
	require.Len(t, fromDB, 3)
	assert.Equal(t, fromCSV[0].ID, fromDB[0].ID)
	assert.Equal(t, "TOYOTA", fromDB[0].Make)
}
