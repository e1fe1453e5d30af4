// Package proposal holds the domain model for a proposal session: cost
// configuration, travel estimates, recommendations, conversation transcript
// and the derived cost sheet.
package proposal

import (
	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
)

// CostConfig is the flat set of named numeric cost parameters. JSON names
// double as form input names and as the keys accepted in partial updates.
// All values are non-negative.
type CostConfig struct {
	OnSiteLabor       float64 `json:"onSiteLabor"`       // hours per site
	TechnicianRate    float64 `json:"technicianRate"`    // $ per hour
	LivingExpenses    float64 `json:"livingExpenses"`    // $ per night
	PMOverhead        float64 `json:"pmOverhead"`        // percent
	TravelHoursMatrix float64 `json:"travelHoursMatrix"` // travel hours per distance unit
	Parking           float64 `json:"parking"`           // $ per overnight stay
	MealsCost         float64 `json:"mealsCost"`         // $ per overnight stay
}

// DefaultCostConfig returns the session-start defaults.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		OnSiteLabor:       3,
		TechnicianRate:    75,
		LivingExpenses:    330,
		PMOverhead:        12.5,
		TravelHoursMatrix: 1,
		Parking:           15,
		MealsCost:         80,
	}
}

// Validate checks the non-negativity invariant, naming the offending field.
func (c CostConfig) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"onSiteLabor", c.OnSiteLabor},
		{"technicianRate", c.TechnicianRate},
		{"livingExpenses", c.LivingExpenses},
		{"pmOverhead", c.PMOverhead},
		{"travelHoursMatrix", c.TravelHoursMatrix},
		{"parking", c.Parking},
		{"mealsCost", c.MealsCost},
	}
	for _, f := range fields {
		if f.value < 0 {
			return perrors.NewValidation(f.name, "must be non-negative")
		}
	}
	return nil
}

// ConfigUpdate is a sparse partial update of CostConfig. A nil field means
// "no change requested" — never "set to zero". The three states (absent,
// present-zero, present-nonzero) are all distinguishable.
type ConfigUpdate struct {
	OnSiteLabor       *float64 `json:"onSiteLabor,omitempty"`
	TechnicianRate    *float64 `json:"technicianRate,omitempty"`
	LivingExpenses    *float64 `json:"livingExpenses,omitempty"`
	PMOverhead        *float64 `json:"pmOverhead,omitempty"`
	TravelHoursMatrix *float64 `json:"travelHoursMatrix,omitempty"`
	Parking           *float64 `json:"parking,omitempty"`
	MealsCost         *float64 `json:"mealsCost,omitempty"`
}

// IsZero reports whether no field is present in the update.
func (u ConfigUpdate) IsZero() bool {
	return u.OnSiteLabor == nil &&
		u.TechnicianRate == nil &&
		u.LivingExpenses == nil &&
		u.PMOverhead == nil &&
		u.TravelHoursMatrix == nil &&
		u.Parking == nil &&
		u.MealsCost == nil
}

// Apply overwrites exactly the fields present in the update, leaving all
// others untouched. An empty update returns cfg unchanged.
func (u ConfigUpdate) Apply(cfg CostConfig) CostConfig {
	if u.OnSiteLabor != nil {
		cfg.OnSiteLabor = *u.OnSiteLabor
	}
	if u.TechnicianRate != nil {
		cfg.TechnicianRate = *u.TechnicianRate
	}
	if u.LivingExpenses != nil {
		cfg.LivingExpenses = *u.LivingExpenses
	}
	if u.PMOverhead != nil {
		cfg.PMOverhead = *u.PMOverhead
	}
	if u.TravelHoursMatrix != nil {
		cfg.TravelHoursMatrix = *u.TravelHoursMatrix
	}
	if u.Parking != nil {
		cfg.Parking = *u.Parking
	}
	if u.MealsCost != nil {
		cfg.MealsCost = *u.MealsCost
	}
	return cfg
}

// Validate checks that every present field is non-negative.
func (u ConfigUpdate) Validate() error {
	fields := []struct {
		name  string
		value *float64
	}{
		{"onSiteLabor", u.OnSiteLabor},
		{"technicianRate", u.TechnicianRate},
		{"livingExpenses", u.LivingExpenses},
		{"pmOverhead", u.PMOverhead},
		{"travelHoursMatrix", u.TravelHoursMatrix},
		{"parking", u.Parking},
		{"mealsCost", u.MealsCost},
	}
	for _, f := range fields {
		if f.value != nil && *f.value < 0 {
			return perrors.NewValidation(f.name, "must be non-negative")
		}
	}
	return nil
}
