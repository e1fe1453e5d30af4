package proposal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCostSheet_ReferenceScenario(t *testing.T) {
	cfg := CostConfig{
		OnSiteLabor:       3,
		TechnicianRate:    75,
		LivingExpenses:    330,
		PMOverhead:        12.5,
		TravelHoursMatrix: 1,
		Parking:           15,
		MealsCost:         80,
	}
	travel := TravelEstimate{
		NumberOfLocations:   10,
		TotalTravelCost:     5000,
		TotalLivingExpenses: 3300,
		TotalOvernightStays: 12,
	}

	sheet := ComputeCostSheet(cfg, travel)

	assert.Equal(t, 225.0, sheet.OnsiteLaborCost)
	assert.Equal(t, 500.0, sheet.TravelCostPerSite)
	assert.Equal(t, 330.0, sheet.LivingCostPerSite)
	assert.Equal(t, 1.2, sheet.OvernightsPerSite)
	assert.InDelta(t, 96.0, sheet.MealsCostPerSite, 1e-9)
	assert.InDelta(t, 18.0, sheet.ParkingCostPerSite, 1e-9)
	assert.InDelta(t, 1169.0, sheet.PerSiteSubtotal, 1e-9)
	assert.InDelta(t, 11690.0, sheet.TotalSubtotal, 1e-9)
	assert.InDelta(t, 1461.25, sheet.PMOverheadCost, 1e-9)
	assert.InDelta(t, 13151.25, sheet.GrandTotal, 1e-9)
}

func TestComputeCostSheet_ZeroLocations(t *testing.T) {
	cfg := DefaultCostConfig()
	sheet := ComputeCostSheet(cfg, TravelEstimate{
		TotalTravelCost:     5000,
		TotalLivingExpenses: 3300,
		TotalOvernightStays: 12,
	})

	assert.Equal(t, 0.0, sheet.TravelCostPerSite)
	assert.Equal(t, 0.0, sheet.LivingCostPerSite)
	assert.Equal(t, 0.0, sheet.OvernightsPerSite)
	assert.Equal(t, 0.0, sheet.TotalSubtotal)
	assert.Equal(t, 0.0, sheet.GrandTotal)

	// Nothing divides by zero anywhere in the sheet.
	for _, v := range []float64{
		sheet.OnsiteLaborCost, sheet.TravelCostPerSite, sheet.LivingCostPerSite,
		sheet.OvernightsPerSite, sheet.MealsCostPerSite, sheet.ParkingCostPerSite,
		sheet.PerSiteSubtotal, sheet.TotalSubtotal, sheet.PMOverheadCost, sheet.GrandTotal,
	} {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestComputeCostSheet_RecomputesAfterUpdate(t *testing.T) {
	cfg := DefaultCostConfig()
	travel := TravelEstimate{NumberOfLocations: 10, TotalTravelCost: 5000, TotalLivingExpenses: 3300, TotalOvernightStays: 12}

	before := ComputeCostSheet(cfg, travel)

	updated := ConfigUpdate{TechnicianRate: f(85)}.Apply(cfg)
	after := ComputeCostSheet(updated, travel)

	assert.Equal(t, 255.0, after.OnsiteLaborCost)
	assert.Greater(t, after.GrandTotal, before.GrandTotal)
	// Travel-derived figures are unaffected by a rate change.
	assert.Equal(t, before.TravelCostPerSite, after.TravelCostPerSite)
}
