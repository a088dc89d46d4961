package models

// Fallback values used when a dataset row or preference field is absent.
// Every component reads its defaults from here so each fallback is defined
// exactly once.
const (
	// DefaultSafetyRating is assumed when a row carries no NHTSA rating.
	DefaultSafetyRating = 3.0

	// DefaultReliability is the neutral score used when no reliability
	// signal is available for a row.
	DefaultReliability = 0.5

	// DefaultMissingPrice stands in for an unknown price so that any
	// max-price constraint fails the row rather than admitting it.
	DefaultMissingPrice = 999999.0

	// DefaultMissingMileage stands in for an unknown odometer reading,
	// with the same exclusion semantics as DefaultMissingPrice.
	DefaultMissingMileage = 999999.0

	// DefaultDepreciationRate is assumed when the dataset carries no
	// depreciation column and the age is unknown.
	DefaultDepreciationRate = 0.3

	// DefaultOwnershipYears is the ownership horizon applied when the
	// profile leaves it unset.
	DefaultOwnershipYears = 5

	// DefaultTopN bounds the result set when the profile leaves it unset.
	DefaultTopN = 10

	// DefaultReferenceYear anchors age derivation when the configuration
	// does not override it. Matches the integration year of the dataset.
	DefaultReferenceYear = 2024

	// YearlyDepreciationPerAge is the straight-line rate used to derive a
	// missing depreciation_rate column from vehicle age.
	YearlyDepreciationPerAge = 0.15

	// CategoryUncategorized is the fallback category label for vehicles
	// matching no rule, or when the rule evaluator is unavailable.
	CategoryUncategorized = "uncategorized"
)
