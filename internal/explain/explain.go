// Package explain assembles the human-readable justification bundle for
// each top-ranked vehicle. It is pure formatting over the figures produced
// during scoring; no scoring logic lives here and nothing is recomputed.
package explain

import (
	"fmt"
	"strings"

	"github.com/marden/carscout/internal/models"
	"github.com/marden/carscout/internal/reliability"
)

// maxStrengths caps the classifier-provided strength phrases per bundle.
const maxStrengths = 4

// Build produces one explanation bundle per ranked vehicle, in rank order.
// Strength phrases come from the classifier via the RankedVehicle; an
// unavailable classifier leaves them empty.
func Build(ranked []models.RankedVehicle) []models.Explanation {
	bundles := make([]models.Explanation, 0, len(ranked))
	for _, r := range ranked {
		bundles = append(bundles, buildOne(r))
	}
	return bundles
}

func buildOne(r models.RankedVehicle) models.Explanation {
	strengths := r.Strengths
	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	if strengths == nil {
		strengths = []string{}
	}

	categories := r.Categories
	if len(categories) == 0 {
		categories = []string{models.CategoryUncategorized}
	}

	return models.Explanation{
		Vehicle:     r.Vehicle.Label(),
		Score:       fmt.Sprintf("%.3f", r.FinalScore),
		Price:       FormatDollars(r.Vehicle.Price),
		Safety:      fmt.Sprintf("%.1f stars", r.Vehicle.SafetyRating),
		Reliability: fmt.Sprintf("%.0f%%", r.Metrics.ReliabilityScore*100),
		ResaleValue: FormatDollars(r.Metrics.ExpectedResaleValue),
		Categories:  categories,
		Strengths:   strengths,
		Advice:      reliability.Advice(r.Metrics),
	}
}

// FormatDollars renders a dollar amount with thousands separators, or "n/a"
// for unknown values.
func FormatDollars(amount float64) string {
	if amount < 0 {
		return "n/a"
	}
	whole := int64(amount + 0.5)
	s := fmt.Sprintf("%d", whole)

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return "$" + strings.Join(parts, ",")
}
