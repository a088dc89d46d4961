package models

// SubScores holds the five normalized signals feeding the composite score.
// Each is in [0,1] and computed relative to the current admissible set.
type SubScores struct {
	Safety         float64 `json:"safety"`
	Reliability    float64 `json:"reliability"`
	Price          float64 `json:"price"`
	Resale         float64 `json:"resale"`
	Classification float64 `json:"classification"`
}

// RankedVehicle is a vehicle augmented with its reliability metrics,
// normalized sub-scores, composite score and enrichment labels.
type RankedVehicle struct {
	Vehicle    Vehicle            `json:"vehicle"`
	Metrics    ReliabilityMetrics `json:"metrics"`
	Scores     SubScores          `json:"scores"`
	FinalScore float64            `json:"final_score"`
	Categories []string           `json:"categories"`
	Strengths  []string           `json:"strengths,omitempty"`
}

// Explanation is the human-readable justification bundle for one ranked row.
// All figures are pre-formatted copies of the values produced during scoring;
// nothing here is recomputed.
type Explanation struct {
	Vehicle     string   `json:"vehicle"`
	Score       string   `json:"score"`
	Price       string   `json:"price"`
	Safety      string   `json:"safety"`
	Reliability string   `json:"reliability"`
	ResaleValue string   `json:"resale_value"`
	Categories  []string `json:"categories"`
	Strengths   []string `json:"strengths"`
	Advice      string   `json:"advice,omitempty"`
}

// SemanticStats summarizes the relation graph built over the admissible set.
type SemanticStats struct {
	TripleCount       int `json:"triple_count"`
	VehicleCount      int `json:"vehicle_count"`
	ManufacturerCount int `json:"manufacturer_count"`
}

// PipelineStats records per-stage counts and degradation notes for one
// recommendation call.
type PipelineStats struct {
	PoolSize      int            `json:"pool_size"`
	Admitted      int            `json:"admitted"`
	Rejections    map[string]int `json:"rejections,omitempty"` // constraint name -> rows it excluded
	Classified    int            `json:"classified"`           // vehicles with at least one category
	SafeVehicles  int            `json:"safe_vehicles"`        // semantic query: safety >= 4.0
	ReliableMakes []string       `json:"reliable_makes,omitempty"`
	Semantic      SemanticStats  `json:"semantic"`
	Degraded      []string       `json:"degraded,omitempty"` // enrichment signals that were unavailable
}

// Recommendation is the full response of one pipeline run.
type Recommendation struct {
	Results      []RankedVehicle `json:"results"`
	Explanations []Explanation   `json:"explanations"`
	Stats        PipelineStats   `json:"stats"`

	// NoMatches marks the defined terminal state where the constraint
	// filter admitted zero candidates. Constraints echoes the active
	// constraints back and Guidance suggests which one to relax.
	NoMatches   bool     `json:"no_matches,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
	Guidance    string   `json:"guidance,omitempty"`
}
