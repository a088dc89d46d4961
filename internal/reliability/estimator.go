// Package reliability estimates failure probability, expected repair cost
// and resale value for a vehicle over a planned ownership horizon.
//
// The model is deliberately simple and fully deterministic: a base annual
// failure rate looked up by vehicle age, inflated by complaint volume, then
// compounded over the horizon under an independent-trials assumption. No
// state is held between calls and no I/O is performed.
package reliability

import (
	"math"

	"github.com/marden/carscout/internal/models"
)

// Base annual failure rates by vehicle age. Ages past the end of the table
// extrapolate linearly via failureRate.
var failureRatesByAge = map[int]float64{
	0:  0.02,
	1:  0.03,
	2:  0.04,
	3:  0.05,
	4:  0.06,
	5:  0.08,
	6:  0.10,
	7:  0.12,
	8:  0.15,
	9:  0.18,
	10: 0.22,
}

// Repair cost constants per severity tier, in dollars.
const (
	RepairCostMinor    = 500.0
	RepairCostModerate = 1500.0
	RepairCostMajor    = 4000.0
	RepairCostCritical = 8000.0
)

const (
	// complaintWeight is the per-complaint inflation of the base rate.
	complaintWeight = 0.05

	// maxAnnualFailureProb caps the complaint-inflated annual probability.
	maxAnnualFailureProb = 0.80

	// maxBaseFailureRate caps the age-extrapolated base rate.
	maxBaseFailureRate = 0.60

	// resaleYearlyDepreciation is the additional straight-line depreciation
	// applied per ownership year on top of what the dataset already encodes.
	resaleYearlyDepreciation = 0.08

	// maxTotalDepreciation floors the resale estimate at 15% of the
	// asking price.
	maxTotalDepreciation = 0.85
)

// failureRate returns the base 1-year failure rate for a vehicle age.
// Negative ages are treated as 0; ages past 10 extrapolate linearly at
// 0.03/year, capped at maxBaseFailureRate.
func failureRate(age int) float64 {
	if age < 0 {
		age = 0
	}
	if rate, ok := failureRatesByAge[age]; ok {
		return rate
	}
	return math.Min(failureRatesByAge[10]+float64(age-10)*0.03, maxBaseFailureRate)
}

// Estimate computes reliability metrics for a single vehicle over the given
// ownership horizon. Horizons below 1 year are clamped up to 1. All outputs
// are finite and within their documented bounds for any input.
func Estimate(v models.Vehicle, ownershipYears int) models.ReliabilityMetrics {
	age := v.Age
	if age < 0 {
		age = 0
	}
	complaints := v.ComplaintCount
	if complaints < 0 {
		complaints = 0
	}
	years := ownershipYears
	if years < 1 {
		years = 1
	}

	base := failureRate(age)
	complaintMult := 1.0 + float64(complaints)*complaintWeight
	prob1Yr := math.Min(base*complaintMult, maxAnnualFailureProb)

	// Cumulative probabilities under independent annual trials.
	prob5Yr := 1.0 - math.Pow(1.0-prob1Yr, 5)
	probHorizon := 1.0 - math.Pow(1.0-prob1Yr, float64(years))

	// Expected issue counts over 5 years per severity tier, scaled to the
	// horizon by years/5.
	minorIssues := 2.5 * (1.0 + float64(age)*0.05)
	moderateIssues := 1.0 * complaintMult
	majorIssues := prob5Yr * 0.5

	cost5Yr := minorIssues*RepairCostMinor +
		moderateIssues*RepairCostModerate +
		majorIssues*RepairCostMajor
	costHorizon := cost5Yr * float64(years) / 5.0

	score := clamp01(1.0 - probHorizon)

	return models.ReliabilityMetrics{
		ReliabilityScore:          score,
		FailureProb1Yr:            prob1Yr,
		FailureProb5Yr:            prob5Yr,
		FailureProbHorizon:        probHorizon,
		ExpectedRepairCost5Yr:     cost5Yr,
		ExpectedRepairCostHorizon: costHorizon,
		ExpectedResaleValue:       resaleValue(v, years),
		Age:                       age,
		ComplaintCount:            complaints,
		OwnershipYears:            years,
	}
}

// resaleValue estimates the sale price after the ownership horizon: the
// dataset's encoded depreciation plus 8%/year going forward, floored at 15%
// of the asking price. Unknown prices yield 0.
func resaleValue(v models.Vehicle, years int) float64 {
	price := v.Price
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}

	baseRate := v.DepreciationRate
	if baseRate < 0 || math.IsNaN(baseRate) {
		baseRate = models.DefaultDepreciationRate
	}

	totalRate := baseRate + float64(years)*resaleYearlyDepreciation
	totalRate = math.Max(0, math.Min(totalRate, maxTotalDepreciation))

	return price * (1.0 - totalRate)
}

// Advice maps the 5-year failure probability to a maintenance-risk note
// surfaced alongside explanations.
func Advice(m models.ReliabilityMetrics) string {
	switch {
	case m.FailureProb5Yr < 0.20:
		return "Low risk - standard maintenance should be fine"
	case m.FailureProb5Yr < 0.40:
		return "Moderate risk - consider extended warranty"
	case m.FailureProb5Yr < 0.60:
		return "Higher risk - extended warranty recommended, budget for repairs"
	default:
		return "High risk - expect significant maintenance costs"
	}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
