package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/flows"
	"github.com/atmosphere-labs/proposal-engine/internal/health"
	"github.com/atmosphere-labs/proposal-engine/internal/metrics"
	"github.com/atmosphere-labs/proposal-engine/internal/proposal"
	"github.com/atmosphere-labs/proposal-engine/internal/travel"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	registry  *proposal.Registry
	svc       *flows.Service
	estimator travel.Estimator
	checker   *health.Checker
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	registry *proposal.Registry,
	svc *flows.Service,
	estimator travel.Estimator,
	checker *health.Checker,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		registry:  registry,
		svc:       svc,
		estimator: estimator,
		checker:   checker,
		metrics:   m,
		logger:    logger.With().Str("component", "handlers").Logger(),
	}
}

// mapError translates the error taxonomy into an HTTP problem response.
func mapError(c *fiber.Ctx, err error) error {
	var vErr *perrors.ValidationError
	var sErr *perrors.SchemaViolationError
	var tErr *perrors.TransportError

	switch {
	case errors.Is(err, perrors.ErrChallengeBusy):
		return problemResponse(c, fiber.StatusConflict,
			"challenge_in_flight", "Conflict", err.Error())
	case errors.Is(err, perrors.ErrNotFound):
		return problemResponse(c, fiber.StatusNotFound,
			"not_found", "Not Found", err.Error())
	case errors.As(err, &vErr):
		return problemResponse(c, fiber.StatusBadRequest,
			"validation_failed", "Bad Request", vErr.Error())
	case errors.As(err, &sErr):
		return problemResponse(c, fiber.StatusBadGateway,
			"schema_violation", "Bad Gateway", sErr.Error())
	case errors.As(err, &tErr):
		return problemResponse(c, fiber.StatusServiceUnavailable,
			"upstream_unavailable", "Service Unavailable", tErr.Error())
	default:
		return err
	}
}

func (h *Handlers) session(c *fiber.Ctx) (*proposal.Session, error) {
	id := c.Params("id")
	s, ok := h.registry.Get(id)
	if !ok {
		return nil, problemResponse(c, fiber.StatusNotFound,
			"proposal_not_found", "Not Found", "Proposal not found: "+id)
	}
	return s, nil
}

// CreateProposal handles POST /api/v1/proposals.
func (h *Handlers) CreateProposal(c *fiber.Ctx) error {
	var req CreateProposalRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return problemResponse(c, fiber.StatusBadRequest,
				"invalid_body", "Bad Request", "Invalid request body: "+err.Error())
		}
	}

	s := h.registry.Create()
	if req.Info != nil {
		s.SetInfo(*req.Info)
	}
	if req.Config != nil {
		if err := s.SetCostConfig(*req.Config); err != nil {
			h.registry.Delete(s.ID())
			return mapError(c, err)
		}
	}

	h.logger.Info().Str("proposal_id", s.ID()).Msg("proposal created")
	return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
}

// GetProposal handles GET /api/v1/proposals/:id.
func (h *Handlers) GetProposal(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(s.Snapshot())
}

// PatchConfig handles PATCH /api/v1/proposals/:id/config. The body is a
// sparse update: only fields present are overwritten, and unknown field
// names are rejected.
func (h *Handlers) PatchConfig(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	var update proposal.ConfigUpdate
	if err := dec.Decode(&update); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request", "Invalid config update: "+err.Error())
	}

	if _, err := s.ApplyConfigUpdate(update); err != nil {
		return mapError(c, err)
	}
	if h.metrics != nil && !update.IsZero() {
		h.metrics.ConfigUpdates.Inc()
	}

	return c.JSON(s.Snapshot())
}

// PutCanvas handles PUT /api/v1/proposals/:id/canvas.
func (h *Handlers) PutCanvas(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	var req CanvasRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request", "Invalid request body: "+err.Error())
	}

	s.SetCanvas(req.Canvas)
	if req.Strategies != nil {
		s.SetStrategies(*req.Strategies)
	}
	if req.Documents != nil {
		s.SetSourceDocuments(req.Documents.ClientData, req.Documents.VendorQuotes)
	}

	return c.JSON(s.Snapshot())
}

// GenerateBOM handles POST /api/v1/proposals/:id/documents/bom.
func (h *Handlers) GenerateBOM(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	var req DocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request", "Invalid request body: "+err.Error())
	}

	doc, err := flows.ParseDataURI(req.DataURI)
	if err != nil {
		return mapError(c, err)
	}

	bom, err := h.svc.GenerateBOM(c.Context(), doc)
	if err != nil {
		return mapError(c, err)
	}

	s.SetBillOfMaterials(bom)
	return c.JSON(BOMResponse{BillOfMaterials: bom})
}

// EstimateTravel handles POST /api/v1/proposals/:id/travel. The living
// expense per night comes from the session's cost config so the estimate
// and the cost sheet stay consistent.
func (h *Handlers) EstimateTravel(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	var req TravelRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request", "Invalid request body: "+err.Error())
	}

	doc, err := flows.ParseDataURI(req.DataURI)
	if err != nil {
		return mapError(c, err)
	}

	technicians := req.TechniciansPerLocation
	if technicians == 0 {
		technicians = 1
	}

	estimate, err := h.estimator.Estimate(c.Context(), travel.Request{
		MIMEType:               doc.MIMEType,
		Locations:              doc.Data,
		LivingExpensePerNight:  s.CostConfig().LivingExpenses,
		TechniciansPerLocation: technicians,
	})
	if err != nil {
		return mapError(c, err)
	}

	s.SetTravelEstimate(estimate)
	return c.JSON(s.Snapshot())
}

// Recommend handles POST /api/v1/proposals/:id/recommendation. A new
// recommendation resets the challenge transcript.
func (h *Handlers) Recommend(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	rec, err := h.svc.Recommend(c.Context(), s.Context())
	if err != nil {
		return mapError(c, err)
	}

	s.SetRecommendation(rec)
	return c.JSON(s.Snapshot())
}

// Challenge handles POST /api/v1/proposals/:id/challenge: one red-team
// turn. Turns on the same proposal are serialized; a second in-flight turn
// gets 409. Nothing is committed to the transcript unless the flow
// succeeds.
func (h *Handlers) Challenge(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	var req ChallengeTurnRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request", "Invalid request body: "+err.Error())
	}
	if req.Utterance == "" {
		return problemResponse(c, fiber.StatusBadRequest,
			"missing_utterance", "Bad Request", "Utterance is required")
	}

	if err := s.BeginChallenge(); err != nil {
		return mapError(c, err)
	}
	defer s.EndChallenge()

	res, err := h.svc.Challenge(c.Context(), flows.ChallengeRequest{
		Context:   s.Context(),
		History:   s.Transcript(),
		Utterance: req.Utterance,
	})
	if err != nil {
		return mapError(c, err)
	}

	cfg, err := s.CommitChallenge(req.Utterance, res.Response, res.UpdatedConfig)
	if err != nil {
		return mapError(c, err)
	}

	if h.metrics != nil {
		h.metrics.ChallengeTurns.Inc()
		if res.UpdatedConfig != nil {
			h.metrics.ConfigUpdates.Inc()
		}
	}

	snap := s.Snapshot()
	return c.JSON(ChallengeTurnResponse{
		Response:      res.Response,
		UpdatedConfig: res.UpdatedConfig,
		CostConfig:    cfg,
		CostSheet:     snap.CostSheet,
		Transcript:    snap.Transcript,
	})
}

// Sherpa handles POST /api/v1/sherpa.
func (h *Handlers) Sherpa(c *fiber.Ctx) error {
	var req SherpaRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request", "Invalid request body: "+err.Error())
	}

	res, err := h.svc.Sherpa(c.Context(), req.Request)
	if err != nil {
		return mapError(c, err)
	}

	resp := SherpaResponse{Result: res}
	if req.SessionID != "" {
		s, ok := h.registry.Get(req.SessionID)
		if !ok {
			return problemResponse(c, fiber.StatusNotFound,
				"proposal_not_found", "Not Found", "Proposal not found: "+req.SessionID)
		}
		info := s.MergeInfo(res.ProjectName, res.ClientName)
		resp.Info = &info
	}

	return c.JSON(resp)
}

// Liveness handles GET /healthz.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Readiness handles GET /readyz.
func (h *Handlers) Readiness(c *fiber.Ctx) error {
	results := h.checker.RunAll(c.Context())
	if health.Overall(results) == health.StatusDown {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not_ready",
			"checks": results,
		})
	}
	return c.JSON(fiber.Map{"status": "ready", "checks": results})
}
