package flows

import (
	"context"
	"encoding/json"
	"text/template"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/inference"
)

// SherpaResult is the structured extraction from a natural-language setup
// request. Nil fields mean the request did not mention them.
type SherpaResult struct {
	ProjectName *string `json:"projectName,omitempty"`
	ClientName  *string `json:"clientName,omitempty"`
}

type sherpaRequest struct {
	Request string
}

var sherpaTemplate = template.Must(template.New("sherpa").Parse(
	`You are Sherpa, an intelligent assistant for the Atmosphere Proposal Framework. Your purpose is to understand a user's request and extract key information to populate the project's setup fields.

From the user's request, identify the project name and client name. Omit any field the request does not mention.

User Request: {{.Request}}`))

var sherpaSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "projectName": {"type": "string", "description": "The name of the project."},
    "clientName": {"type": "string", "description": "The name of the client."}
  },
  "additionalProperties": false
}`)

var sherpaOperation = inference.Operation[sherpaRequest, SherpaResult]{
	Name:         "sherpa",
	Description:  "Record the project setup fields extracted from the request.",
	Template:     sherpaTemplate,
	OutputSchema: sherpaSchema,
	ValidateInput: func(r sherpaRequest) error {
		if r.Request == "" {
			return perrors.NewValidation("request", "must not be empty")
		}
		return nil
	},
}

// Sherpa extracts project setup fields from a natural-language request.
func (s *Service) Sherpa(ctx context.Context, request string) (SherpaResult, error) {
	return inference.Invoke(ctx, s.gw, sherpaOperation, sherpaRequest{Request: request})
}
