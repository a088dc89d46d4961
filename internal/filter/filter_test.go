package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marden/carscout/internal/models"
)

func testPool() []models.Vehicle {
	return []models.Vehicle{
		{ID: "a", Make: "TOYOTA", Model: "CAMRY", Year: 2020, Price: 22000, Mileage: 35000, SafetyRating: 5.0, ReliabilityScore: 0.9},
		{ID: "b", Make: "HONDA", Model: "CIVIC", Year: 2019, Price: 18000, Mileage: 42000, SafetyRating: 4.5, ReliabilityScore: 0.85},
		{ID: "c", Make: "BMW", Model: "328I", Year: 2016, Price: 24000, Mileage: 55000, SafetyRating: 4.0, ReliabilityScore: 0.6},
		{ID: "d", Make: "FORD", Model: "F-150", Year: 2021, Price: 35000, Mileage: 25000, SafetyRating: 4.0, ReliabilityScore: 0.75},
	}
}

func TestForPreferences_NoConstraintsAdmitsAll(t *testing.T) {
	s := ForPreferences(models.Preferences{})
	require.Equal(t, 0, s.Len())

	admitted, rejections := s.Apply(testPool())
	assert.Len(t, admitted, 4)
	assert.Empty(t, rejections)
}

func TestApply_SoundnessAndCompleteness(t *testing.T) {
	prefs := models.Preferences{
		MaxPrice:  models.Float64Ptr(25000),
		MinYear:   models.IntPtr(2017),
		MinSafety: models.Float64Ptr(4.2),
	}
	s := ForPreferences(prefs)
	pool := testPool()

	admitted, _ := s.Apply(pool)

	// Soundness: every active predicate holds on every admitted vehicle.
	for _, v := range admitted {
		assert.Empty(t, s.Evaluate(v), "admitted vehicle %s fails a constraint", v.ID)
	}

	// Completeness: every excluded vehicle violates at least one predicate.
	admittedIDs := make(map[string]bool)
	for _, v := range admitted {
		admittedIDs[v.ID] = true
	}
	for _, v := range pool {
		if !admittedIDs[v.ID] {
			assert.NotEmpty(t, s.Evaluate(v), "excluded vehicle %s passes all constraints", v.ID)
		}
	}

	// Only the Camry and Civic satisfy all three bounds.
	require.Len(t, admitted, 2)
	assert.Equal(t, "a", admitted[0].ID)
	assert.Equal(t, "b", admitted[1].ID)
}

func TestApply_PreservesInputOrder(t *testing.T) {
	s := ForPreferences(models.Preferences{MinSafety: models.Float64Ptr(4.0)})
	admitted, _ := s.Apply(testPool())

	var ids []string
	for _, v := range admitted {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestApply_EmptyResultIsValid(t *testing.T) {
	s := ForPreferences(models.Preferences{MinSafety: models.Float64Ptr(4.9)})
	admitted, rejections := s.Apply(testPool())

	assert.Empty(t, admitted)
	assert.Equal(t, 3, rejections["min_safety"])
}

func TestApply_CountsRejectionsPerConstraint(t *testing.T) {
	prefs := models.Preferences{
		MaxPrice:   models.Float64Ptr(20000),
		MaxMileage: models.Float64Ptr(50000),
	}
	s := ForPreferences(prefs)

	_, rejections := s.Apply(testPool())

	assert.Equal(t, 3, rejections["max_price"])   // a, c, d
	assert.Equal(t, 1, rejections["max_mileage"]) // c
}

func TestApply_MissingFieldsExcludedNotFatal(t *testing.T) {
	pool := []models.Vehicle{
		{ID: "ok", Price: 10000, Mileage: 30000, SafetyRating: 4.0},
		{ID: "no-price", Price: -1, Mileage: 30000, SafetyRating: 4.0},
		{ID: "no-mileage", Price: 10000, Mileage: -1, SafetyRating: 4.0},
	}
	prefs := models.Preferences{
		MaxPrice:   models.Float64Ptr(15000),
		MaxMileage: models.Float64Ptr(60000),
	}

	admitted, rejections := ForPreferences(prefs).Apply(pool)

	require.Len(t, admitted, 1)
	assert.Equal(t, "ok", admitted[0].ID)
	assert.Equal(t, 1, rejections["max_price"])
	assert.Equal(t, 1, rejections["max_mileage"])
}

func TestSummary_ListsActiveConstraints(t *testing.T) {
	prefs := models.Preferences{
		MaxPrice: models.Float64Ptr(25000),
		MinYear:  models.IntPtr(2016),
	}
	summary := ForPreferences(prefs).Summary()

	require.Len(t, summary, 2)
	assert.Contains(t, summary[0], "max_price")
	assert.Contains(t, summary[1], "min_year")
}
