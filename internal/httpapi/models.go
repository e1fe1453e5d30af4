package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atmosphere-labs/proposal-engine/internal/flows"
	"github.com/atmosphere-labs/proposal-engine/internal/proposal"
)

// CreateProposalRequest optionally seeds a new session.
type CreateProposalRequest struct {
	Info   *proposal.ProjectInfo `json:"info,omitempty"`
	Config *proposal.CostConfig  `json:"config,omitempty"`
}

// CanvasRequest replaces the narrative inputs of a session.
type CanvasRequest struct {
	Canvas     proposal.Canvas              `json:"canvas"`
	Strategies *proposal.StrategyNarratives `json:"strategies,omitempty"`
	Documents  *SourceDocuments             `json:"documents,omitempty"`
}

// SourceDocuments carries the free-text client and vendor inputs.
type SourceDocuments struct {
	ClientData   string `json:"clientData"`
	VendorQuotes string `json:"vendorQuotes"`
}

// DocumentRequest carries an uploaded file as a data URI.
type DocumentRequest struct {
	DataURI string `json:"dataUri"`
}

// BOMResponse is the extracted bill of materials.
type BOMResponse struct {
	BillOfMaterials string `json:"billOfMaterials"`
}

// TravelRequest carries the location document plus the per-location
// technician count; the living expense comes from the session's cost config.
type TravelRequest struct {
	DataURI                string  `json:"dataUri"`
	TechniciansPerLocation float64 `json:"techniciansPerLocation"`
}

// ChallengeTurnRequest is one user utterance.
type ChallengeTurnRequest struct {
	Utterance string `json:"utterance"`
}

// ChallengeTurnResponse is the model's reply plus the resulting config and
// transcript. UpdatedConfig is present only when a change was applied.
type ChallengeTurnResponse struct {
	Response      string                 `json:"response"`
	UpdatedConfig *proposal.ConfigUpdate `json:"updatedConfig,omitempty"`
	CostConfig    proposal.CostConfig    `json:"costConfig"`
	CostSheet     proposal.CostSheet     `json:"costSheet"`
	Transcript    []proposal.Turn        `json:"transcript"`
}

// SherpaRequest is a natural-language setup request. When SessionID names
// an existing proposal, the extracted fields are merged into its info.
type SherpaRequest struct {
	Request   string `json:"request"`
	SessionID string `json:"sessionId,omitempty"`
}

// SherpaResponse is the extraction result plus the merged project info when
// a session id was provided.
type SherpaResponse struct {
	Result flows.SherpaResult    `json:"result"`
	Info   *proposal.ProjectInfo `json:"info,omitempty"`
}

// ProblemDetail follows RFC 7807 for error responses.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// problemResponse returns an RFC 7807 Problem Detail error response.
func problemResponse(c *fiber.Ctx, status int, errType, title, detail string) error {
	return c.Status(status).JSON(ProblemDetail{
		Type:     errType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Path(),
	})
}
