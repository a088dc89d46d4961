package reliability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marden/carscout/internal/models"
)

func TestFailureRate_Table(t *testing.T) {
	tests := []struct {
		age  int
		want float64
	}{
		{0, 0.02},
		{5, 0.08},
		{10, 0.22},
		{11, 0.25},
		{15, 0.37},
		{50, 0.60}, // capped
		{-3, 0.02}, // clamped to age 0
	}

	for _, tt := range tests {
		got := failureRate(tt.age)
		assert.InDelta(t, tt.want, got, 1e-9, "age %d", tt.age)
	}
}

func TestEstimate_KnownVehicle(t *testing.T) {
	v := models.Vehicle{
		Make: "TOYOTA", Model: "CAMRY", Year: 2020,
		Price: 22000, Age: 4, ComplaintCount: 2, DepreciationRate: 0.6,
	}

	m := Estimate(v, 5)

	// base 0.06 * (1 + 2*0.05) = 0.066
	assert.InDelta(t, 0.066, m.FailureProb1Yr, 1e-9)
	assert.InDelta(t, 1-0.934*0.934*0.934*0.934*0.934, m.FailureProbHorizon, 1e-9)
	assert.InDelta(t, 1-m.FailureProbHorizon, m.ReliabilityScore, 1e-9)
	assert.Equal(t, 5, m.OwnershipYears)

	// depreciation 0.6 + 5*0.08 = 1.0, capped at 0.85 -> 15% of price
	assert.InDelta(t, 22000*0.15, m.ExpectedResaleValue, 1e-6)
}

func TestEstimate_MonotonicInAge(t *testing.T) {
	prev := 2.0
	for age := 0; age <= 30; age++ {
		v := models.Vehicle{Age: age, ComplaintCount: 3, Price: 10000}
		m := Estimate(v, 5)
		if m.ReliabilityScore > prev {
			t.Fatalf("reliability increased with age at %d: %f > %f", age, m.ReliabilityScore, prev)
		}
		prev = m.ReliabilityScore
	}
}

func TestEstimate_MonotonicInComplaints(t *testing.T) {
	prev := 2.0
	for complaints := 0; complaints <= 100; complaints += 5 {
		v := models.Vehicle{Age: 5, ComplaintCount: complaints, Price: 10000}
		m := Estimate(v, 5)
		if m.ReliabilityScore > prev {
			t.Fatalf("reliability increased with complaints at %d", complaints)
		}
		prev = m.ReliabilityScore
	}
}

func TestEstimate_BoundsAtExtremes(t *testing.T) {
	extremes := []models.Vehicle{
		{Age: 0, ComplaintCount: 0, Price: 0},
		{Age: 50, ComplaintCount: 1000, Price: 1},
		{Age: -10, ComplaintCount: -5, Price: -1},
		{Age: 100, ComplaintCount: 0, Price: 1e9},
	}
	horizons := []int{-1, 0, 1, 5, 50}

	for _, v := range extremes {
		for _, h := range horizons {
			m := Estimate(v, h)
			assert.GreaterOrEqual(t, m.ReliabilityScore, 0.0)
			assert.LessOrEqual(t, m.ReliabilityScore, 1.0)
			assert.GreaterOrEqual(t, m.FailureProb1Yr, 0.0)
			assert.LessOrEqual(t, m.FailureProb1Yr, 0.80)
			assert.GreaterOrEqual(t, m.FailureProbHorizon, 0.0)
			assert.LessOrEqual(t, m.FailureProbHorizon, 1.0)
			assert.GreaterOrEqual(t, m.ExpectedRepairCostHorizon, 0.0)
			assert.GreaterOrEqual(t, m.ExpectedResaleValue, 0.0)
			assert.GreaterOrEqual(t, m.OwnershipYears, 1)
		}
	}
}

func TestEstimate_HorizonClampedUp(t *testing.T) {
	v := models.Vehicle{Age: 3, Price: 15000}
	m := Estimate(v, 0)
	assert.Equal(t, 1, m.OwnershipYears)
	assert.InDelta(t, m.FailureProb1Yr, m.FailureProbHorizon, 1e-9)
}

func TestEstimate_RepairCostScalesWithHorizon(t *testing.T) {
	v := models.Vehicle{Age: 6, ComplaintCount: 4, Price: 12000}

	m5 := Estimate(v, 5)
	m10 := Estimate(v, 10)

	assert.InDelta(t, m5.ExpectedRepairCost5Yr, m5.ExpectedRepairCostHorizon, 1e-9)
	assert.InDelta(t, 2*m5.ExpectedRepairCost5Yr, m10.ExpectedRepairCostHorizon, 1e-9)
}

func TestAdvice_Bands(t *testing.T) {
	tests := []struct {
		prob float64
		want string
	}{
		{0.10, "Low risk - standard maintenance should be fine"},
		{0.30, "Moderate risk - consider extended warranty"},
		{0.50, "Higher risk - extended warranty recommended, budget for repairs"},
		{0.90, "High risk - expect significant maintenance costs"},
	}

	for _, tt := range tests {
		got := Advice(models.ReliabilityMetrics{FailureProb5Yr: tt.prob})
		assert.Equal(t, tt.want, got)
	}
}
