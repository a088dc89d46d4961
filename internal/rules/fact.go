// Package rules provides the rule-based vehicle classifier.
//
// The classifier is a pluggable capability: the pipeline hands an Evaluator
// a normalized fact set and gets back, per named category, the facts that
// satisfy it, plus qualitative strength phrases per fact. The default
// Evaluator is the in-process Engine; SwiplEvaluator shells out to
// SWI-Prolog for parity with rule sets maintained as Prolog predicates.
// Classification is an enrichment: an unavailable evaluator degrades to an
// empty mapping and must never abort the pipeline.
//
// Evaluators hold no state between calls, so one instance can serve
// concurrent requests.
package rules

import (
	"context"
	"fmt"

	"github.com/marden/carscout/internal/models"
)

// Fact is the canonical 7-field representation of a vehicle handed to the
// rule evaluator, plus the row-local VehicleID used to join results back.
type Fact struct {
	VehicleID   string
	Make        string
	Model       string
	Year        int
	Price       float64
	Safety      float64
	Reliability float64
	Mileage     float64
}

// Evaluator classifies a fact set into named categories. Implementations
// must be safe for concurrent use.
type Evaluator interface {
	// Classify returns, per category name, the facts satisfying that
	// category's rule. A vehicle may appear under zero, one or many
	// categories. An error means the evaluator is unavailable for this
	// call; callers degrade to an empty mapping.
	Classify(ctx context.Context, facts []Fact) (map[string][]Fact, error)

	// Strengths returns qualitative strength phrases for one fact, most
	// significant first.
	Strengths(ctx context.Context, f Fact) ([]string, error)
}

// FactsFor builds the fact set for an admissible set. A missing safety
// rating (zero, outside the 1-5 domain) falls back to the documented
// default; reliability is carried through as-is because 0 is a legitimate
// score and the dataset loader already defaults absent values. Fact order
// follows input order so classification is deterministic.
func FactsFor(vehicles []models.Vehicle) []Fact {
	facts := make([]Fact, 0, len(vehicles))
	for _, v := range vehicles {
		safety := v.SafetyRating
		if safety == 0 {
			safety = models.DefaultSafetyRating
		}
		facts = append(facts, Fact{
			VehicleID:   v.ID,
			Make:        v.Make,
			Model:       v.Model,
			Year:        v.Year,
			Price:       v.PriceOrDefault(),
			Safety:      safety,
			Reliability: v.ReliabilityScore,
			Mileage:     v.MileageOrDefault(),
		})
	}
	return facts
}

// Key returns the attribute identity MAKE|MODEL|YEAR of the fact.
func (f Fact) Key() string {
	return fmt.Sprintf("%s|%s|%d", f.Make, f.Model, f.Year)
}
