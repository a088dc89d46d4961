// Package filter implements constraint filtering over the candidate pool.
//
// Each populated preference field becomes one named predicate; a vehicle is
// admitted only if every predicate holds. A predicate that errors on a
// malformed row counts as a failure of that predicate, so broken rows are
// excluded instead of aborting the pipeline.
package filter

import (
	"fmt"

	"github.com/marden/carscout/internal/models"
)

// Constraint is a single named predicate over a vehicle.
type Constraint struct {
	Name        string
	Description string
	Check       func(models.Vehicle) (bool, error)
}

// Set is the conjunction of active constraints for one request.
type Set struct {
	constraints []Constraint
}

// ForPreferences builds the constraint set for a validated profile.
// Absent fields contribute no constraint.
func ForPreferences(p models.Preferences) *Set {
	s := &Set{}

	if p.MaxPrice != nil {
		max := *p.MaxPrice
		s.add("max_price", fmt.Sprintf("price <= $%.0f", max), func(v models.Vehicle) (bool, error) {
			return v.PriceOrDefault() <= max, nil
		})
	}
	if p.MinYear != nil {
		min := *p.MinYear
		s.add("min_year", fmt.Sprintf("year >= %d", min), func(v models.Vehicle) (bool, error) {
			return v.Year >= min, nil
		})
	}
	if p.MaxYear != nil {
		max := *p.MaxYear
		s.add("max_year", fmt.Sprintf("year <= %d", max), func(v models.Vehicle) (bool, error) {
			if v.Year == 0 {
				// Unknown year fails a max-year bound.
				return false, nil
			}
			return v.Year <= max, nil
		})
	}
	if p.MinSafety != nil {
		min := *p.MinSafety
		s.add("min_safety", fmt.Sprintf("safety >= %.1f", min), func(v models.Vehicle) (bool, error) {
			return v.SafetyRating >= min, nil
		})
	}
	if p.MaxMileage != nil {
		max := *p.MaxMileage
		s.add("max_mileage", fmt.Sprintf("mileage <= %.0f", max), func(v models.Vehicle) (bool, error) {
			return v.MileageOrDefault() <= max, nil
		})
	}
	if p.MinReliability != nil {
		min := *p.MinReliability
		s.add("min_reliability", fmt.Sprintf("reliability >= %.2f", min), func(v models.Vehicle) (bool, error) {
			return v.ReliabilityScore >= min, nil
		})
	}

	return s
}

func (s *Set) add(name, description string, check func(models.Vehicle) (bool, error)) {
	s.constraints = append(s.constraints, Constraint{Name: name, Description: description, Check: check})
}

// Len returns the number of active constraints.
func (s *Set) Len() int {
	return len(s.constraints)
}

// Summary lists the active constraints in the order they were built.
func (s *Set) Summary() []string {
	summary := make([]string, 0, len(s.constraints))
	for _, c := range s.constraints {
		summary = append(summary, fmt.Sprintf("%s: %s", c.Name, c.Description))
	}
	return summary
}

// Evaluate checks every constraint against a single vehicle and returns the
// names of the constraints it failed. An empty result means the vehicle is
// admissible.
func (s *Set) Evaluate(v models.Vehicle) []string {
	var failed []string
	for _, c := range s.constraints {
		ok, err := c.Check(v)
		if err != nil || !ok {
			failed = append(failed, c.Name)
		}
	}
	return failed
}

// Apply evaluates the whole pool and returns the admissible subset in input
// order, plus a count of exclusions per constraint. An empty admissible set
// is a valid result, not an error.
func (s *Set) Apply(pool []models.Vehicle) ([]models.Vehicle, map[string]int) {
	admitted := make([]models.Vehicle, 0, len(pool))
	rejections := make(map[string]int)

	for _, v := range pool {
		failed := s.Evaluate(v)
		if len(failed) == 0 {
			admitted = append(admitted, v)
			continue
		}
		for _, name := range failed {
			rejections[name]++
		}
	}

	return admitted, rejections
}
