// Package models defines the core types shared across the recommendation
// pipeline: vehicle records, preference profiles, reliability metrics and
// ranked results. All pipeline stages accept and return these types by value
// so no stage ever mutates another stage's view of the data.
package models

import (
	"fmt"
	"math"
	"strings"
)

// Vehicle represents one row of the candidate pool.
// ID is a row-local synthetic identifier assigned at load time; enrichment
// results (classification, semantic queries) join back onto rows by ID so
// duplicate make/model/year listings are enriched independently.
type Vehicle struct {
	ID               string  // Synthetic row identifier (UUID), assigned by the dataset loader
	Make             string  // Manufacturer, normalized upper case
	Model            string  // Model name, normalized upper case
	Year             int     // Model year
	Price            float64 // Asking price in dollars; negative means unknown
	Mileage          float64 // Odometer reading in miles; negative means unknown
	SafetyRating     float64 // NHTSA overall rating 1.0-5.0
	ComplaintCount   int     // Number of complaints on record
	ReliabilityScore float64 // 0-1, replaced by the horizon-adjusted score during scoring
	Age              int     // Reference year minus model year
	DepreciationRate float64 // Depreciation already encoded in the asking price

	// Extra holds descriptive columns carried through from the dataset
	// (fuel type, transmission, color, ...) that the pipeline never reads.
	Extra map[string]string
}

// Key returns the attribute identity MAKE|MODEL|YEAR used when emitting
// facts to the rule evaluator. It is not unique within a dataset; use ID
// for joins.
func (v Vehicle) Key() string {
	return fmt.Sprintf("%s|%s|%d", v.Make, v.Model, v.Year)
}

// Label returns the human-readable form, e.g. "2020 TOYOTA CAMRY".
func (v Vehicle) Label() string {
	return fmt.Sprintf("%d %s %s", v.Year, strings.ToUpper(v.Make), strings.ToUpper(v.Model))
}

// PriceOrDefault returns the price, or the permissive default for missing
// prices so that a max-price constraint excludes the row.
func (v Vehicle) PriceOrDefault() float64 {
	if v.Price < 0 || math.IsNaN(v.Price) {
		return DefaultMissingPrice
	}
	return v.Price
}

// MileageOrDefault returns the odometer reading, or the permissive default
// for missing readings so that a max-mileage constraint excludes the row.
func (v Vehicle) MileageOrDefault() float64 {
	if v.Mileage < 0 || math.IsNaN(v.Mileage) {
		return DefaultMissingMileage
	}
	return v.Mileage
}

// ReliabilityMetrics holds the per-vehicle outputs of the reliability
// estimator for a given ownership horizon. All probabilities are in [0,1]
// and all dollar figures are finite and non-negative.
type ReliabilityMetrics struct {
	ReliabilityScore          float64 // 1 - FailureProbHorizon, clamped to [0,1]
	FailureProb1Yr            float64
	FailureProb5Yr            float64
	FailureProbHorizon        float64
	ExpectedRepairCost5Yr     float64
	ExpectedRepairCostHorizon float64
	ExpectedResaleValue       float64
	Age                       int
	ComplaintCount            int
	OwnershipYears            int
}
