package proposal

// TravelEstimate is the travel-cost estimation output for a location list.
type TravelEstimate struct {
	NumberOfLocations   int     `json:"numberOfLocations"`
	TotalTravelCost     float64 `json:"totalTravelCost"`
	TotalLivingExpenses float64 `json:"totalLivingExpenses"`
	TotalOvernightStays float64 `json:"totalOvernightStays"`
	OptimalRouteSummary string  `json:"optimalRouteSummary"`
}

// CostSheet holds the derived totals recomputed from the cost config and the
// latest travel estimate whenever either changes.
type CostSheet struct {
	OnsiteLaborCost    float64 `json:"onsiteLaborCost"`
	TravelCostPerSite  float64 `json:"travelCostPerSite"`
	LivingCostPerSite  float64 `json:"livingCostPerSite"`
	OvernightsPerSite  float64 `json:"overnightsPerSite"`
	MealsCostPerSite   float64 `json:"mealsCostPerSite"`
	ParkingCostPerSite float64 `json:"parkingCostPerSite"`
	PerSiteSubtotal    float64 `json:"perSiteSubtotal"`
	TotalSubtotal      float64 `json:"totalSubtotal"`
	PMOverheadCost     float64 `json:"pmOverheadCost"`
	GrandTotal         float64 `json:"grandTotal"`
}

// ComputeCostSheet derives all totals. A zero-location estimate yields zero
// per-site figures rather than dividing by zero.
func ComputeCostSheet(cfg CostConfig, t TravelEstimate) CostSheet {
	var sheet CostSheet

	sheet.OnsiteLaborCost = cfg.OnSiteLabor * cfg.TechnicianRate

	n := float64(t.NumberOfLocations)
	if n > 0 {
		sheet.TravelCostPerSite = t.TotalTravelCost / n
		sheet.LivingCostPerSite = t.TotalLivingExpenses / n
		sheet.OvernightsPerSite = t.TotalOvernightStays / n
	}

	sheet.MealsCostPerSite = sheet.OvernightsPerSite * cfg.MealsCost
	sheet.ParkingCostPerSite = sheet.OvernightsPerSite * cfg.Parking

	sheet.PerSiteSubtotal = sheet.OnsiteLaborCost +
		sheet.TravelCostPerSite +
		sheet.LivingCostPerSite +
		sheet.MealsCostPerSite +
		sheet.ParkingCostPerSite

	sheet.TotalSubtotal = sheet.PerSiteSubtotal * n
	sheet.PMOverheadCost = sheet.TotalSubtotal * (cfg.PMOverhead / 100)
	sheet.GrandTotal = sheet.TotalSubtotal + sheet.PMOverheadCost

	return sheet
}
