package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marden/carscout/internal/models"
)

func rankedCamry() models.RankedVehicle {
	return models.RankedVehicle{
		Vehicle: models.Vehicle{
			ID: "a", Make: "TOYOTA", Model: "CAMRY", Year: 2020,
			Price: 22000, SafetyRating: 5.0,
		},
		Metrics: models.ReliabilityMetrics{
			ReliabilityScore:    0.87,
			ExpectedResaleValue: 12345,
			FailureProb5Yr:      0.13,
		},
		FinalScore: 0.8421,
		Categories: []string{"excellent_choice", "family_car"},
		Strengths:  []string{"top safety rating", "excellent reliability record"},
	}
}

func TestBuild_FormatsFigures(t *testing.T) {
	bundles := Build([]models.RankedVehicle{rankedCamry()})
	require.Len(t, bundles, 1)

	e := bundles[0]
	assert.Equal(t, "2020 TOYOTA CAMRY", e.Vehicle)
	assert.Equal(t, "0.842", e.Score)
	assert.Equal(t, "$22,000", e.Price)
	assert.Equal(t, "5.0 stars", e.Safety)
	assert.Equal(t, "87%", e.Reliability)
	assert.Equal(t, "$12,345", e.ResaleValue)
	assert.Equal(t, []string{"excellent_choice", "family_car"}, e.Categories)
	assert.Equal(t, "Low risk - standard maintenance should be fine", e.Advice)
}

func TestBuild_FallsBackToUncategorized(t *testing.T) {
	r := rankedCamry()
	r.Categories = nil
	r.Strengths = nil

	bundles := Build([]models.RankedVehicle{r})
	require.Len(t, bundles, 1)

	assert.Equal(t, []string{models.CategoryUncategorized}, bundles[0].Categories)
	assert.Empty(t, bundles[0].Strengths)
	assert.NotNil(t, bundles[0].Strengths)
}

func TestBuild_CapsStrengthsAtFour(t *testing.T) {
	r := rankedCamry()
	r.Strengths = []string{"one", "two", "three", "four", "five", "six"}

	bundles := Build([]models.RankedVehicle{r})
	require.Len(t, bundles, 1)
	assert.Equal(t, []string{"one", "two", "three", "four"}, bundles[0].Strengths)
}

func TestBuild_PreservesRankOrder(t *testing.T) {
	first := rankedCamry()
	second := rankedCamry()
	second.Vehicle.Model = "COROLLA"

	bundles := Build([]models.RankedVehicle{first, second})
	require.Len(t, bundles, 2)
	assert.Equal(t, "2020 TOYOTA CAMRY", bundles[0].Vehicle)
	assert.Equal(t, "2020 TOYOTA COROLLA", bundles[1].Vehicle)
}

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{22000, "$22,000"},
		{1234567, "$1,234,567"},
		{999.6, "$1,000"},
		{-5, "n/a"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDollars(tt.amount), "amount %f", tt.amount)
	}
}
