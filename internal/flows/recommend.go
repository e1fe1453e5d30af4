package flows

import (
	"context"
	"encoding/json"
	"text/template"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/inference"
	"github.com/atmosphere-labs/proposal-engine/internal/proposal"
)

var recommendTemplate = template.Must(template.New("recommend_strategy").Parse(
	`You are an expert project management consultant specializing in optimizing project costs and logistical efficiency. Based on the information provided, you will analyze the various strategies and recommend the best costing and approach. Provide a detailed explanation of your recommendation, including a justification for your choice and the key factors that influenced your decision.

Client Data: {{.ClientData}}
Vendor Quotes: {{.VendorQuotes}}
Logistical Configurations: {{.LogisticalConfigurations}}
Cost Model Configurations: {{.CostModelConfigurations}}
Strategy A Analysis: {{.StrategyAAnalysis}}
Strategy B Analysis: {{.StrategyBAnalysis}}

Consider factors such as total cost, project duration, logistical complexity, and potential risks when formulating your recommendation. Select the most appropriate strategy (Strategy A or Strategy B) and provide an estimated cost for the recommended approach.`))

var recommendSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "recommendation": {"type": "string", "description": "A detailed recommendation of the best costing and approach, including a justification for the recommendation."},
    "recommendedStrategy": {"type": "string", "enum": ["Strategy A", "Strategy B"], "description": "The recommended strategy: either Strategy A or Strategy B."},
    "estimatedCost": {"type": "number", "description": "The estimated cost for the recommended strategy."},
    "keyFactors": {"type": "string", "description": "Key factors influencing the recommendation."}
  },
  "required": ["recommendation", "recommendedStrategy", "estimatedCost", "keyFactors"],
  "additionalProperties": false
}`)

var recommendOperation = inference.Operation[proposal.ProjectContext, proposal.Recommendation]{
	Name:         "recommend_strategy",
	Description:  "Record the costing and approach recommendation.",
	Template:     recommendTemplate,
	OutputSchema: recommendSchema,
	ValidateInput: func(c proposal.ProjectContext) error {
		if c.StrategyAAnalysis == "" || c.StrategyBAnalysis == "" {
			return perrors.NewValidation("strategies", "both strategy analyses are required")
		}
		return nil
	},
	ValidateOutput: func(r proposal.Recommendation) error {
		if !r.RecommendedStrategy.Valid() {
			return perrors.NewValidation("recommendedStrategy", "unknown strategy")
		}
		if r.Recommendation == "" {
			return perrors.NewValidation("recommendation", "must not be empty")
		}
		return nil
	},
}

// Recommend analyzes the project context and picks one of the two
// deployment strategies.
func (s *Service) Recommend(ctx context.Context, pc proposal.ProjectContext) (proposal.Recommendation, error) {
	return inference.Invoke(ctx, s.gw, recommendOperation, pc)
}
