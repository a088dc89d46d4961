// Package engine orchestrates the recommendation pipeline: constraint
// filtering, classification, semantic queries, reliability estimation,
// scoring and explanation building.
//
// The pipeline is synchronous and request-scoped. The backing dataset is
// immutable for the process lifetime; every call works on private copies so
// concurrent requests never observe each other's intermediate state.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/marden/carscout/internal/explain"
	"github.com/marden/carscout/internal/filter"
	"github.com/marden/carscout/internal/models"
	"github.com/marden/carscout/internal/reliability"
	"github.com/marden/carscout/internal/rules"
	"github.com/marden/carscout/internal/scoring"
	"github.com/marden/carscout/internal/semantic"
)

// safeVehicleThreshold is the safety rating used for the summary query
// exposed in pipeline stats.
const safeVehicleThreshold = 4.0

// Logger receives pipeline progress messages. May be nil.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Engine runs the recommendation pipeline over a fixed dataset.
type Engine struct {
	pool      []models.Vehicle
	evaluator rules.Evaluator
	log       Logger
}

// New creates an engine over the loaded dataset. evaluator may be nil, in
// which case classification degrades to uncategorized for every vehicle.
func New(pool []models.Vehicle, evaluator rules.Evaluator, log Logger) *Engine {
	return &Engine{pool: pool, evaluator: evaluator, log: log}
}

// PoolSize returns the number of candidate rows the engine was built over.
func (e *Engine) PoolSize() int {
	return len(e.pool)
}

// Pool returns a copy of the backing dataset.
func (e *Engine) Pool() []models.Vehicle {
	return append([]models.Vehicle(nil), e.pool...)
}

// Recommend runs the full pipeline for one preference profile.
//
// Fatal conditions are an invalid preference (*models.InvalidPreferenceError)
// and an empty dataset (models.ErrDataUnavailable). An empty admissible set
// is not an error: the returned Recommendation has NoMatches set, the active
// constraints echoed back, and guidance naming the constraint to relax.
// Enrichment failures degrade locally and are recorded in Stats.Degraded.
func (e *Engine) Recommend(ctx context.Context, prefs models.Preferences) (*models.Recommendation, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	prefs.Normalize()

	if len(e.pool) == 0 {
		return nil, models.ErrDataUnavailable
	}

	// Private working copy; no stage mutates the backing dataset.
	pool := append([]models.Vehicle(nil), e.pool...)

	constraints := filter.ForPreferences(prefs)
	admitted, rejections := constraints.Apply(pool)
	e.infof("constraint filter admitted %d of %d vehicles", len(admitted), len(pool))

	stats := models.PipelineStats{
		PoolSize:   len(pool),
		Admitted:   len(admitted),
		Rejections: rejections,
	}

	if len(admitted) == 0 {
		return &models.Recommendation{
			Stats:       stats,
			NoMatches:   true,
			Constraints: constraints.Summary(),
			Guidance:    relaxationGuidance(constraints, rejections, len(pool)),
		}, nil
	}

	facts := rules.FactsFor(admitted)
	categories, classified := e.classify(ctx, facts, &stats)
	stats.Classified = classified

	graph := semantic.Build(admitted)
	stats.Semantic = graph.Stats()
	stats.SafeVehicles = len(graph.VehiclesWithMinSafety(safeVehicleThreshold))
	for _, m := range graph.ReliableManufacturers() {
		stats.ReliableMakes = append(stats.ReliableMakes, m.Name)
	}
	e.debugf("semantic graph: %d triples over %d vehicles", stats.Semantic.TripleCount, stats.Semantic.VehicleCount)

	inputs := make([]scoring.Input, 0, len(admitted))
	for _, v := range admitted {
		metrics := reliability.Estimate(v, prefs.OwnershipYears)
		// The horizon-adjusted score replaces the dataset score for
		// ranking and display.
		v.ReliabilityScore = metrics.ReliabilityScore
		inputs = append(inputs, scoring.Input{Vehicle: v, Metrics: metrics})
	}

	ranked := scoring.Score(inputs, categories)
	top := ranked
	if len(top) > prefs.TopN {
		top = top[:prefs.TopN]
	}

	e.attachStrengths(ctx, top, facts)
	e.infof("returning top %d of %d scored vehicles", len(top), len(ranked))

	return &models.Recommendation{
		Results:      top,
		Explanations: explain.Build(top),
		Stats:        stats,
	}, nil
}

// classify runs the rule evaluator over the request's fact set and joins
// the results back by vehicle ID. An unavailable evaluator degrades to an
// empty mapping; per-vehicle category lists come back sorted for
// determinism.
func (e *Engine) classify(ctx context.Context, facts []rules.Fact, stats *models.PipelineStats) (map[string][]string, int) {
	if e.evaluator == nil {
		stats.Degraded = append(stats.Degraded, "classification")
		return nil, 0
	}

	results, err := e.evaluator.Classify(ctx, facts)
	if err != nil {
		e.warnf("rule evaluator unavailable, continuing without classification: %v", err)
		stats.Degraded = append(stats.Degraded, "classification")
		return nil, 0
	}

	categoryNames := make([]string, 0, len(results))
	for name := range results {
		categoryNames = append(categoryNames, name)
	}
	sort.Strings(categoryNames)

	categories := make(map[string][]string)
	for _, name := range categoryNames {
		for _, f := range results[name] {
			categories[f.VehicleID] = append(categories[f.VehicleID], name)
		}
		e.debugf("category %s: %d vehicles", name, len(results[name]))
	}

	return categories, len(categories)
}

// attachStrengths asks the evaluator for strength phrases per top-ranked
// vehicle, using the fact recorded for that row during this request.
// Failures leave the strengths empty; they never fail the call.
func (e *Engine) attachStrengths(ctx context.Context, top []models.RankedVehicle, facts []rules.Fact) {
	if e.evaluator == nil {
		return
	}

	factByID := make(map[string]rules.Fact, len(facts))
	for _, f := range facts {
		factByID[f.VehicleID] = f
	}

	for i := range top {
		f, ok := factByID[top[i].Vehicle.ID]
		if !ok {
			continue
		}
		strengths, err := e.evaluator.Strengths(ctx, f)
		if err != nil {
			e.warnf("strengths query failed for %s: %v", top[i].Vehicle.Label(), err)
			continue
		}
		top[i].Strengths = strengths
	}
}

// relaxationGuidance names the constraint that excluded the most candidates.
func relaxationGuidance(constraints *filter.Set, rejections map[string]int, poolSize int) string {
	var worst string
	var worstCount int
	for _, summary := range constraints.Summary() {
		name, _, _ := strings.Cut(summary, ":")
		if rejections[name] > worstCount {
			worst = name
			worstCount = rejections[name]
		}
	}
	if worst == "" {
		return "no vehicles in the dataset; check the dataset path"
	}
	return fmt.Sprintf("no vehicles matched; try relaxing %s (excluded %d of %d candidates)", worst, worstCount, poolSize)
}

func (e *Engine) infof(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Infof(format, args...)
	}
}

func (e *Engine) debugf(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Debugf(format, args...)
	}
}

func (e *Engine) warnf(format string, args ...interface{}) {
	if e.log != nil {
		e.log.Warnf(format, args...)
	}
}
