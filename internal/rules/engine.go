package rules

import "context"

// rule is one named boolean predicate over a fact.
type rule struct {
	name  string
	check func(Fact) bool
}

// Category rules, evaluated in this fixed order. Thresholds mirror the
// Prolog rule set the engine replaces.
var categoryRules = []rule{
	{
		name: "excellent_choice",
		check: func(f Fact) bool {
			return f.Safety >= 4.5 && f.Reliability >= 0.85
		},
	},
	{
		name: "good_value",
		check: func(f Fact) bool {
			return f.Price <= 20000 && f.Reliability >= 0.80 && f.Safety >= 4.0
		},
	},
	{
		name: "family_car",
		check: func(f Fact) bool {
			return f.Safety >= 4.5 && f.Price <= 30000
		},
	},
	{
		name: "reliable_commuter",
		check: func(f Fact) bool {
			return f.Reliability >= 0.85 && f.Mileage <= 60000
		},
	},
	{
		name: "budget_pick",
		check: func(f Fact) bool {
			return f.Price <= 15000
		},
	},
}

// Engine is the in-process rule evaluator. It is stateless and safe for
// concurrent use by any number of goroutines.
type Engine struct{}

// NewEngine creates the embedded rule evaluator.
func NewEngine() *Engine {
	return &Engine{}
}

// Categories returns the category names the engine knows, in evaluation order.
func (e *Engine) Categories() []string {
	names := make([]string, 0, len(categoryRules))
	for _, r := range categoryRules {
		names = append(names, r.name)
	}
	return names
}

// Classify evaluates every rule against every fact. The result maps category
// name to the facts satisfying it, in input order; categories with no
// matches are omitted. Re-running on an unchanged fact set yields identical
// assignments.
func (e *Engine) Classify(_ context.Context, facts []Fact) (map[string][]Fact, error) {
	results := make(map[string][]Fact)
	for _, r := range categoryRules {
		for _, f := range facts {
			if r.check(f) {
				results[r.name] = append(results[r.name], f)
			}
		}
	}
	return results, nil
}

// Strengths derives qualitative strength phrases from a single fact, most
// significant first.
func (e *Engine) Strengths(_ context.Context, f Fact) ([]string, error) {
	var strengths []string
	if f.Safety >= 4.5 {
		strengths = append(strengths, "top safety rating")
	} else if f.Safety >= 4.0 {
		strengths = append(strengths, "strong safety rating")
	}
	if f.Reliability >= 0.85 {
		strengths = append(strengths, "excellent reliability record")
	} else if f.Reliability >= 0.70 {
		strengths = append(strengths, "solid reliability record")
	}
	if f.Price <= 15000 {
		strengths = append(strengths, "budget friendly price")
	} else if f.Price <= 22000 {
		strengths = append(strengths, "competitive price")
	}
	if f.Mileage <= 40000 {
		strengths = append(strengths, "low mileage")
	}
	if f.Year >= 2020 {
		strengths = append(strengths, "recent model year")
	}
	return strengths, nil
}
