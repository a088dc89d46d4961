package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marden/carscout/internal/models"
)

func exportRows() []models.RankedVehicle {
	return []models.RankedVehicle{
		{
			Vehicle: models.Vehicle{
				ID: "a", Make: "TOYOTA", Model: "CAMRY", Year: 2020,
				Price: 22000, Mileage: 35000, SafetyRating: 5.0,
				ComplaintCount: 2, Age: 4, DepreciationRate: 0.6,
			},
			Metrics:    models.ReliabilityMetrics{ReliabilityScore: 0.71, ExpectedResaleValue: 3300},
			Scores:     models.SubScores{Safety: 1.0, Reliability: 0.71, Price: 0.33, Resale: 0.67, Classification: 0.6},
			FinalScore: 0.773,
			Categories: []string{"excellent_choice"},
		},
		{
			Vehicle: models.Vehicle{
				ID: "b", Make: "HONDA", Model: "CIVIC", Year: 2019,
				Price: 18000, Mileage: 42000, SafetyRating: 4.5,
				ComplaintCount: 1, Age: 5, DepreciationRate: 0.75,
			},
			Metrics:    models.ReliabilityMetrics{ReliabilityScore: 0.64, ExpectedResaleValue: 2700},
			Scores:     models.SubScores{Safety: 0.875, Reliability: 0.64, Price: 1.0, Resale: 0.0, Classification: 0.8},
			FinalScore: 0.736,
			Categories: []string{"good_value"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ranked.csv")

	require.NoError(t, WriteCSV(path, exportRows()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "TOYOTA", records[1][0])
	assert.Equal(t, "2020", records[1][2])
	assert.Equal(t, "0.773", records[1][15])
	assert.Equal(t, "HONDA", records[2][0])
}

func TestWriteCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	require.NoError(t, WriteCSV(path, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1) // header only
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.json")
	rec := &models.Recommendation{
		Results: exportRows(),
		Stats:   models.PipelineStats{PoolSize: 3, Admitted: 2},
	}

	require.NoError(t, WriteJSON(path, rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded models.Recommendation
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.Stats.Admitted)
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "CAMRY", decoded.Results[0].Vehicle.Model)
}

func TestWriteCSV_OverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranked.csv")

	require.NoError(t, WriteCSV(path, exportRows()))
	require.NoError(t, WriteCSV(path, exportRows()[:1]))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2) // header + 1 row

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}
