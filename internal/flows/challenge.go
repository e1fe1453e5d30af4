package flows

import (
	"context"
	"encoding/json"
	"text/template"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/inference"
	"github.com/atmosphere-labs/proposal-engine/internal/proposal"
)

// ChallengeRequest is one turn of the red-team conversation: the full
// project context, the transcript so far, and the user's new utterance.
type ChallengeRequest struct {
	Context   proposal.ProjectContext
	History   []proposal.Turn
	Utterance string
}

// ChallengeResult is the model's reply. UpdatedConfig is present only when
// the user explicitly asked for a configuration change; absence means no
// change was requested, which is distinct from an empty update.
type ChallengeResult struct {
	Response      string                 `json:"response"`
	UpdatedConfig *proposal.ConfigUpdate `json:"updatedConfig,omitempty"`
}

// challengePrompt is the template input: the request with the new user
// utterance already appended to the transmitted history.
type challengePrompt struct {
	Context proposal.ProjectContext
	History []proposal.Turn
}

var challengeTemplate = template.Must(template.New("challenge_recommendation").Parse(
	`You are an expert project management consultant acting as a "red team" to challenge and validate a project proposal. A user will ask you questions to probe for weaknesses or inaccuracies in the proposal. Your job is to provide critical, insightful, and helpful answers based on ALL the context provided. If the user's challenge is valid, acknowledge it. If it is not, explain why with data from the context.

**Project Context:**
- Client Data: {{.Context.ClientData}}
- Vendor Quotes: {{.Context.VendorQuotes}}
- Logistical Configurations: {{.Context.LogisticalConfigurations}}
- Cost Model Configurations: {{.Context.CostModelConfigurations}}
- Bill of Materials: {{.Context.BillOfMaterials}}
- Strategy A Analysis: {{.Context.StrategyAAnalysis}}
- Strategy B Analysis: {{.Context.StrategyBAnalysis}}
- Initial AI Recommendation: {{.Context.InitialRecommendation}}

**Conversation History:**
{{range .History}}- {{.Role}}: {{.Content}}
{{end}}
Based on the final user question in the conversation history, provide a direct and concise response.

If, and only if, the user explicitly asked to change one of the cost model parameters (onSiteLabor, technicianRate, livingExpenses, pmOverhead, travelHoursMatrix, parking, mealsCost), also populate updatedConfig with exactly the fields the user asked to change and their new numeric values. Leave every field the user did not mention absent, and leave updatedConfig out entirely when no change was requested. Ignore requests to change parameters outside that list.`))

var challengeSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "response": {"type": "string", "description": "The response to the user's challenging question."},
    "updatedConfig": {
      "type": "object",
      "description": "Cost model fields the user explicitly asked to change, and nothing else.",
      "properties": {
        "onSiteLabor": {"type": "number"},
        "technicianRate": {"type": "number"},
        "livingExpenses": {"type": "number"},
        "pmOverhead": {"type": "number"},
        "travelHoursMatrix": {"type": "number"},
        "parking": {"type": "number"},
        "mealsCost": {"type": "number"}
      },
      "additionalProperties": false
    }
  },
  "required": ["response"],
  "additionalProperties": false
}`)

var challengeOperation = inference.Operation[challengePrompt, ChallengeResult]{
	Name:         "challenge_recommendation",
	Description:  "Record the reply to the user's challenge, with any explicitly requested cost model changes.",
	Template:     challengeTemplate,
	OutputSchema: challengeSchema,
	ValidateInput: func(p challengePrompt) error {
		if len(p.History) == 0 {
			return perrors.NewValidation("utterance", "must not be empty")
		}
		return nil
	},
	ValidateOutput: func(r ChallengeResult) error {
		if r.Response == "" {
			return perrors.NewValidation("response", "must not be empty")
		}
		if r.UpdatedConfig != nil {
			return r.UpdatedConfig.Validate()
		}
		return nil
	},
}

// Challenge runs one red-team turn. The utterance is appended to the
// transmitted history as a user turn; the durable transcript is the
// caller's to update, and only after this call succeeds.
func (s *Service) Challenge(ctx context.Context, req ChallengeRequest) (ChallengeResult, error) {
	if req.Utterance == "" {
		return ChallengeResult{}, perrors.NewValidation("utterance", "must not be empty")
	}
	history := make([]proposal.Turn, 0, len(req.History)+1)
	history = append(history, req.History...)
	history = append(history, proposal.UserTurn(req.Utterance))

	return inference.Invoke(ctx, s.gw, challengeOperation, challengePrompt{
		Context: req.Context,
		History: history,
	})
}
