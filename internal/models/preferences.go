package models

import "fmt"

// Preferences is the user-supplied search profile. Bound fields are pointers:
// nil means "no constraint for that dimension". OwnershipYears and TopN are
// value fields with defaults applied by Normalize.
type Preferences struct {
	MaxPrice       *float64 `yaml:"max_price" json:"max_price,omitempty"`
	MinYear        *int     `yaml:"min_year" json:"min_year,omitempty"`
	MaxYear        *int     `yaml:"max_year" json:"max_year,omitempty"`
	MinSafety      *float64 `yaml:"min_safety" json:"min_safety,omitempty"`
	MinReliability *float64 `yaml:"min_reliability" json:"min_reliability,omitempty"`
	MaxMileage     *float64 `yaml:"max_mileage" json:"max_mileage,omitempty"`

	// OwnershipYears is the planned ownership horizon used for failure
	// probability compounding and resale estimation. 0 means default.
	OwnershipYears int `yaml:"ownership_years" json:"ownership_years,omitempty"`

	// TopN bounds the returned result set. 0 means default.
	TopN int `yaml:"top_n" json:"top_n,omitempty"`
}

// InvalidPreferenceError reports a preference bound outside its valid domain.
// It names the offending field so callers can surface a specific message.
type InvalidPreferenceError struct {
	Field  string
	Reason string
}

func (e *InvalidPreferenceError) Error() string {
	return fmt.Sprintf("invalid preference %q: %s", e.Field, e.Reason)
}

// Validate rejects out-of-domain bounds before any filtering begins.
// It returns an *InvalidPreferenceError naming the first offending field.
func (p *Preferences) Validate() error {
	if p.MaxPrice != nil && *p.MaxPrice < 0 {
		return &InvalidPreferenceError{Field: "max_price", Reason: "must be non-negative"}
	}
	if p.MinSafety != nil && (*p.MinSafety < 1.0 || *p.MinSafety > 5.0) {
		return &InvalidPreferenceError{Field: "min_safety", Reason: "must be between 1 and 5"}
	}
	if p.MinReliability != nil && (*p.MinReliability < 0.0 || *p.MinReliability > 1.0) {
		return &InvalidPreferenceError{Field: "min_reliability", Reason: "must be between 0 and 1"}
	}
	if p.MaxMileage != nil && *p.MaxMileage < 0 {
		return &InvalidPreferenceError{Field: "max_mileage", Reason: "must be non-negative"}
	}
	if p.MinYear != nil && p.MaxYear != nil && *p.MinYear > *p.MaxYear {
		return &InvalidPreferenceError{Field: "min_year", Reason: "must not exceed max_year"}
	}
	if p.OwnershipYears < 0 {
		return &InvalidPreferenceError{Field: "ownership_years", Reason: "must be positive"}
	}
	if p.TopN < 0 {
		return &InvalidPreferenceError{Field: "top_n", Reason: "must be positive"}
	}
	return nil
}

// Normalize fills defaulted value fields in place. Validate should be called
// first; Normalize does not re-check domains.
func (p *Preferences) Normalize() {
	if p.OwnershipYears == 0 {
		p.OwnershipYears = DefaultOwnershipYears
	}
	if p.TopN == 0 {
		p.TopN = DefaultTopN
	}
}

// Float64Ptr returns a pointer to v. Convenience for building profiles.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v. Convenience for building profiles.
func IntPtr(v int) *int { return &v }
