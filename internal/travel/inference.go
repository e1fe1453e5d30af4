package travel

import (
	"context"
	"encoding/json"
	"text/template"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/inference"
	"github.com/atmosphere-labs/proposal-engine/internal/llm"
	"github.com/atmosphere-labs/proposal-engine/internal/proposal"
)

// InferenceEstimator asks the model to read the location document and
// estimate the route itself. Same contract as the mock; swapped in via
// configuration.
type InferenceEstimator struct {
	gw *inference.Gateway
}

// NewInferenceEstimator creates an estimator backed by the gateway.
func NewInferenceEstimator(gw *inference.Gateway) *InferenceEstimator {
	return &InferenceEstimator{gw: gw}
}

var estimateTemplate = template.Must(template.New("estimate_travel_costs").Parse(
	`You are a logistics analyst estimating travel costs for a multi-location field-services rollout.

The attached document lists the client locations (address columns such as street, city, state, and zip code).

Parameters:
- Average living expense per technician per night: ${{.LivingExpensePerNight}}
- Technicians required per location: {{.TechniciansPerLocation}}

Plan an efficient visiting order, then estimate the total driving distance, the total travel cost, the total number of overnight stays, and the total living expenses for all technicians across all locations. Summarize the optimal route, including key locations and estimated travel times.`))

var estimateSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "numberOfLocations": {"type": "integer", "description": "How many distinct client locations the document contains."},
    "totalTravelCost": {"type": "number", "description": "The estimated total travel cost for all technicians across all locations."},
    "totalLivingExpenses": {"type": "number", "description": "The estimated total living expenses for all technicians across all locations."},
    "totalOvernightStays": {"type": "number", "description": "The estimated total number of overnight stays."},
    "optimalRouteSummary": {"type": "string", "description": "A summary of the optimal travel route, including key locations and estimated travel times."}
  },
  "required": ["numberOfLocations", "totalTravelCost", "totalLivingExpenses", "totalOvernightStays", "optimalRouteSummary"],
  "additionalProperties": false
}`)

func estimateOperation() inference.Operation[Request, proposal.TravelEstimate] {
	return inference.Operation[Request, proposal.TravelEstimate]{
		Name:         "estimate_travel_costs",
		Description:  "Record the travel cost estimate for the provided location list.",
		Template:     estimateTemplate,
		OutputSchema: estimateSchema,
		ValidateInput: func(r Request) error {
			return r.Validate()
		},
		ValidateOutput: func(t proposal.TravelEstimate) error {
			if t.NumberOfLocations < 0 {
				return perrors.NewValidation("numberOfLocations", "must be non-negative")
			}
			if t.TotalTravelCost < 0 || t.TotalLivingExpenses < 0 || t.TotalOvernightStays < 0 {
				return perrors.NewValidation("totals", "must be non-negative")
			}
			return nil
		},
		Media: func(r Request) []llm.Media {
			return []llm.Media{{MIMEType: r.MIMEType, Data: r.Locations}}
		},
	}
}

// Estimate runs the estimation through the gateway.
func (e *InferenceEstimator) Estimate(ctx context.Context, req Request) (proposal.TravelEstimate, error) {
	return inference.Invoke(ctx, e.gw, estimateOperation(), req)
}
