package flows

import (
	"context"
	"encoding/json"
	"text/template"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/inference"
	"github.com/atmosphere-labs/proposal-engine/internal/llm"
)

var bomTemplate = template.Must(template.New("generate_bill_of_materials").Parse(
	`You are an expert project estimator. Based on the provided PDF drawing, generate a detailed bill of materials including all components and their quantities. Use your knowledge of construction, electrical and plumbing systems to identify the components. Be as accurate as possible with quantities. Include manufacturer if discernable.

The drawing is attached to this message.`))

var bomSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "billOfMaterials": {"type": "string", "description": "The generated bill of materials."}
  },
  "required": ["billOfMaterials"],
  "additionalProperties": false
}`)

type bomResult struct {
	BillOfMaterials string `json:"billOfMaterials"`
}

var bomOperation = inference.Operation[Document, bomResult]{
	Name:         "generate_bill_of_materials",
	Description:  "Record the bill of materials extracted from the drawing.",
	Template:     bomTemplate,
	OutputSchema: bomSchema,
	ValidateInput: func(d Document) error {
		if len(d.Data) == 0 {
			return perrors.NewValidation("document", "drawing is required")
		}
		if d.MIMEType == "" {
			return perrors.NewValidation("document", "MIME type is required")
		}
		return nil
	},
	ValidateOutput: func(r bomResult) error {
		if r.BillOfMaterials == "" {
			return perrors.NewValidation("billOfMaterials", "must not be empty")
		}
		return nil
	},
	Media: func(d Document) []llm.Media {
		return []llm.Media{{MIMEType: d.MIMEType, Data: d.Data}}
	},
}

// GenerateBOM extracts a bill of materials from a construction drawing.
func (s *Service) GenerateBOM(ctx context.Context, drawing Document) (string, error) {
	out, err := inference.Invoke(ctx, s.gw, bomOperation, drawing)
	if err != nil {
		return "", err
	}
	return out.BillOfMaterials, nil
}
