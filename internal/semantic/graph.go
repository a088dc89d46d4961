// Package semantic builds an in-memory relation graph over the admissible
// set and answers a small fixed vocabulary of declarative queries.
//
// Each vehicle is a node with a madeBy relation to its manufacturer plus
// scalar attribute edges (modelName, modelYear, price, mileage, safetyRating,
// reliabilityScore). The graph is read-only after Build; queries never
// mutate vehicle data and are independently invocable and idempotent. The
// layer feeds summary statistics for the presentation layer and is never on
// the critical path of the ranking score: a nil graph degrades to empty
// results.
package semantic

import (
	"fmt"
	"sort"

	"github.com/marden/carscout/internal/models"
)

// Relation names the edge types of the graph schema.
type Relation string

const (
	RelationMadeBy           Relation = "madeBy"
	RelationModelName        Relation = "modelName"
	RelationModelYear        Relation = "modelYear"
	RelationPrice            Relation = "price"
	RelationMileage          Relation = "mileage"
	RelationSafetyRating     Relation = "safetyRating"
	RelationReliabilityScore Relation = "reliabilityScore"
)

// Triple is one (subject, relation, object) assertion.
type Triple struct {
	Subject  string
	Relation Relation
	Object   string
}

// reliableManufacturerThreshold is the minimum average reliability for a
// manufacturer to count as reliable.
const reliableManufacturerThreshold = 0.7

// SafeVehicle is one row of a safety query result.
type SafeVehicle struct {
	Model  string
	Year   int
	Safety float64
}

// Manufacturer is one row of the reliable-manufacturers aggregation.
type Manufacturer struct {
	Name           string
	AvgReliability float64
	VehicleCount   int
}

// Graph is the indexed relation store. Built once per request over the
// admissible set; all query methods are safe to call on a nil Graph and
// return empty results.
type Graph struct {
	triples  []Triple
	vehicles []models.Vehicle // subjects in insertion order
	makers   map[string][]int // manufacturer -> indices into vehicles
}

// Build constructs the graph from an admissible set. Vehicle subjects are
// the row-local IDs so duplicate make/model/year listings stay distinct.
func Build(vehicles []models.Vehicle) *Graph {
	g := &Graph{
		vehicles: append([]models.Vehicle(nil), vehicles...),
		makers:   make(map[string][]int),
	}

	for i, v := range g.vehicles {
		subject := v.ID
		g.assert(subject, RelationMadeBy, v.Make)
		g.assert(subject, RelationModelName, v.Model)
		g.assert(subject, RelationModelYear, fmt.Sprintf("%d", v.Year))
		g.assert(subject, RelationPrice, fmt.Sprintf("%g", v.Price))
		g.assert(subject, RelationMileage, fmt.Sprintf("%g", v.Mileage))
		g.assert(subject, RelationSafetyRating, fmt.Sprintf("%g", v.SafetyRating))
		g.assert(subject, RelationReliabilityScore, fmt.Sprintf("%g", v.ReliabilityScore))

		g.makers[v.Make] = append(g.makers[v.Make], i)
	}

	return g
}

func (g *Graph) assert(subject string, relation Relation, object string) {
	g.triples = append(g.triples, Triple{Subject: subject, Relation: relation, Object: object})
}

// VehiclesWithMinSafety returns vehicles whose safety rating meets the
// threshold, ordered by safety descending with input order breaking ties.
func (g *Graph) VehiclesWithMinSafety(threshold float64) []SafeVehicle {
	if g == nil {
		return nil
	}

	var out []SafeVehicle
	for _, v := range g.vehicles {
		if v.SafetyRating >= threshold {
			out = append(out, SafeVehicle{Model: v.Model, Year: v.Year, Safety: v.SafetyRating})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Safety > out[j].Safety
	})
	return out
}

// ReliableManufacturers aggregates average reliability per manufacturer and
// returns those at or above the reliability threshold, ordered by average
// descending, name ascending on ties.
func (g *Graph) ReliableManufacturers() []Manufacturer {
	if g == nil {
		return nil
	}

	var out []Manufacturer
	for name, indices := range g.makers {
		sum := 0.0
		for _, i := range indices {
			sum += g.vehicles[i].ReliabilityScore
		}
		avg := sum / float64(len(indices))
		if avg >= reliableManufacturerThreshold {
			out = append(out, Manufacturer{Name: name, AvgReliability: avg, VehicleCount: len(indices)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgReliability != out[j].AvgReliability {
			return out[i].AvgReliability > out[j].AvgReliability
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// VehiclesUnderPrice returns up to limit vehicles priced at or below max,
// cheapest first.
func (g *Graph) VehiclesUnderPrice(max float64, limit int) []models.Vehicle {
	if g == nil {
		return nil
	}

	var out []models.Vehicle
	for _, v := range g.vehicles {
		if v.Price >= 0 && v.Price <= max {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price < out[j].Price
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// VehiclesByManufacturer returns all vehicles made by the given
// manufacturer, newest model year first.
func (g *Graph) VehiclesByManufacturer(maker string) []models.Vehicle {
	if g == nil {
		return nil
	}

	indices := g.makers[maker]
	out := make([]models.Vehicle, 0, len(indices))
	for _, i := range indices {
		out = append(out, g.vehicles[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Year > out[j].Year
	})
	return out
}

// Stats reports the size of the graph.
func (g *Graph) Stats() models.SemanticStats {
	if g == nil {
		return models.SemanticStats{}
	}
	return models.SemanticStats{
		TripleCount:       len(g.triples),
		VehicleCount:      len(g.vehicles),
		ManufacturerCount: len(g.makers),
	}
}

// Triples exposes the raw assertions, mainly for export and debugging.
func (g *Graph) Triples() []Triple {
	if g == nil {
		return nil
	}
	return append([]Triple(nil), g.triples...)
}
