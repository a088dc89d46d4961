// Package scoring normalizes the pipeline's signals and produces the final
// composite ranking.
//
// Every sub-score is normalized to [0,1] relative to the current admissible
// set, never globally, so a row's score only has meaning within one request.
// The weights are fixed constants of the design, not user-configurable.
package scoring

import (
	"sort"

	"github.com/marden/carscout/internal/models"
)

// Composite score weights. Safety and reliability dominate; price and
// resale share the middle; classification is a bonus.
const (
	WeightSafety         = 0.30
	WeightReliability    = 0.30
	WeightPrice          = 0.20
	WeightResale         = 0.20
	WeightClassification = 0.10
)

// classificationBonusPerCategory is the bonus per matched category, with
// the total capped at 1.0.
const classificationBonusPerCategory = 0.2

// Input pairs a vehicle with its reliability metrics for scoring.
type Input struct {
	Vehicle models.Vehicle
	Metrics models.ReliabilityMetrics
}

// Score computes normalized sub-scores and the weighted composite for the
// whole admissible set, then sorts descending by composite score. The sort
// is stable: rows with equal scores keep their input order. The full scored
// set is returned; callers slice the top N.
//
// categories maps vehicle ID to the category labels assigned by the
// classifier; vehicles absent from the map receive no classification bonus.
func Score(inputs []Input, categories map[string][]string) []models.RankedVehicle {
	priceMin, priceMax := priceRange(inputs)
	resaleMin, resaleMax := resaleRange(inputs)

	ranked := make([]models.RankedVehicle, 0, len(inputs))
	for _, in := range inputs {
		scores := models.SubScores{
			Safety:         safetyScore(in.Vehicle),
			Reliability:    in.Metrics.ReliabilityScore,
			Price:          invertedMinMax(in.Vehicle.PriceOrDefault(), priceMin, priceMax),
			Resale:         minMax(in.Metrics.ExpectedResaleValue, resaleMin, resaleMax),
			Classification: classificationBonus(len(categories[in.Vehicle.ID])),
		}

		final := scores.Safety*WeightSafety +
			scores.Reliability*WeightReliability +
			scores.Price*WeightPrice +
			scores.Resale*WeightResale +
			scores.Classification*WeightClassification

		ranked = append(ranked, models.RankedVehicle{
			Vehicle:    in.Vehicle,
			Metrics:    in.Metrics,
			Scores:     scores,
			FinalScore: final,
			Categories: categoryList(categories[in.Vehicle.ID]),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	return ranked
}

// safetyScore rescales the 1-5 star rating to [0,1]; a missing rating maps
// to the neutral 0.5.
func safetyScore(v models.Vehicle) float64 {
	if v.SafetyRating < 1.0 || v.SafetyRating > 5.0 {
		return 0.5
	}
	return (v.SafetyRating - 1.0) / 4.0
}

// classificationBonus rewards each matched category, capped at 1.0.
func classificationBonus(categoryCount int) float64 {
	bonus := classificationBonusPerCategory * float64(categoryCount)
	if bonus > 1.0 {
		return 1.0
	}
	return bonus
}

// categoryList returns the assigned categories, or the uncategorized
// fallback when there are none.
func categoryList(assigned []string) []string {
	if len(assigned) == 0 {
		return []string{models.CategoryUncategorized}
	}
	return assigned
}

func priceRange(inputs []Input) (min, max float64) {
	first := true
	for _, in := range inputs {
		p := in.Vehicle.PriceOrDefault()
		if first || p < min {
			min = p
		}
		if first || p > max {
			max = p
		}
		first = false
	}
	return min, max
}

func resaleRange(inputs []Input) (min, max float64) {
	first := true
	for _, in := range inputs {
		r := in.Metrics.ExpectedResaleValue
		if first || r < min {
			min = r
		}
		if first || r > max {
			max = r
		}
		first = false
	}
	return min, max
}

// minMax rescales x into [0,1] over [min,max]; a degenerate range maps
// every row to the neutral 0.5.
func minMax(x, min, max float64) float64 {
	if max <= min {
		return 0.5
	}
	return (x - min) / (max - min)
}

// invertedMinMax is minMax flipped so that lower values score higher.
func invertedMinMax(x, min, max float64) float64 {
	if max <= min {
		return 0.5
	}
	return 1.0 - (x-min)/(max-min)
}
