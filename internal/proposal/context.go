package proposal

import "fmt"

// Canvas holds the six free-text narrative fields supplied by the user and
// passed through to the model unmodified.
type Canvas struct {
	Scope        string `json:"scope"`
	Assumptions  string `json:"assumptions"`
	Risks        string `json:"risks"`
	Knowns       string `json:"knowns"`
	Dependencies string `json:"dependencies"`
	Estimate     string `json:"estimate"`
}

// ProjectContext is the aggregated snapshot grounding a recommendation or
// challenge call. All fields are opaque strings; nothing here is parsed
// structurally — they are interpolated into a prompt.
type ProjectContext struct {
	ClientData               string
	VendorQuotes             string
	LogisticalConfigurations string
	CostModelConfigurations  string
	StrategyAAnalysis        string
	StrategyBAnalysis        string
	BillOfMaterials          string
	InitialRecommendation    string
	Canvas                   Canvas
}

// CostModelSummary renders the numeric config as the free-text cost-model
// line embedded in prompts.
func CostModelSummary(c CostConfig) string {
	return fmt.Sprintf(
		"On-site Labor: %g hours/site. Technician Rate: $%g/hour. Living Expenses: $%g/night. "+
			"PM Overhead: %g%%. Travel Hours Matrix: %g hours/unit. Parking: $%g/stay. Meals: $%g/stay.",
		c.OnSiteLabor, c.TechnicianRate, c.LivingExpenses,
		c.PMOverhead, c.TravelHoursMatrix, c.Parking, c.MealsCost,
	)
}

// Placeholder texts used when the corresponding inputs have not been
// provided yet.
const (
	defaultClientData   = "Client has a standard pricing agreement with tiered discounts."
	defaultVendorQuotes = "Primary vendor offers a 5% discount on bulk orders over $50,000."
	defaultLogistics    = "Standard logistics to be applied based on location density."
)
