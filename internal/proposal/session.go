package proposal

import (
	"sync"
	"time"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
)

// ProjectInfo holds the basic project identification fields.
type ProjectInfo struct {
	Name   string `json:"name"`
	Client string `json:"client"`
	Date   string `json:"date"`
}

// StrategyNarratives are the editable analysis texts for the two deployment
// strategies.
type StrategyNarratives struct {
	A string `json:"a"`
	B string `json:"b"`
}

// DefaultStrategyNarratives returns the seeded strategy analyses.
func DefaultStrategyNarratives() StrategyNarratives {
	return StrategyNarratives{
		A: "Strategy A involves an accelerated deployment model, prioritizing speed by deploying " +
			"multiple technician teams simultaneously across different regions. This approach aims to " +
			"reduce the overall project timeline but may incur higher logistical and travel costs due to " +
			"less optimized routing.",
		B: "Strategy B focuses on a logistical cluster deployment, where a single technician or team is " +
			"assigned to a geographical province or cluster of locations. This strategy optimizes travel " +
			"routes and minimizes overnight stays, aiming for maximum cost-efficiency, potentially at the " +
			"expense of a longer project duration.",
	}
}

// Session is the mutable state of one proposal. All mutations go through
// mutex-guarded methods; challenge turns are additionally serialized by a
// busy flag so two in-flight turns cannot race to append to the transcript.
type Session struct {
	mu sync.Mutex

	id        string
	createdAt time.Time

	info         ProjectInfo
	costConfig   CostConfig
	strategies   StrategyNarratives
	canvas       Canvas
	clientData   string
	vendorQuotes string

	billOfMaterials string
	travel          *TravelEstimate
	recommendation  *Recommendation
	transcript      []Turn

	challengeBusy bool
}

// NewSession creates a session with default configuration.
func NewSession(id string) *Session {
	return &Session{
		id:         id,
		createdAt:  time.Now(),
		costConfig: DefaultCostConfig(),
		strategies: DefaultStrategyNarratives(),
		info:       ProjectInfo{Date: time.Now().Format("2006-01-02")},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Snapshot is an immutable copy of the session state plus the derived
// cost sheet.
type Snapshot struct {
	ID              string             `json:"id"`
	CreatedAt       time.Time          `json:"createdAt"`
	Info            ProjectInfo        `json:"info"`
	CostConfig      CostConfig         `json:"costConfig"`
	Strategies      StrategyNarratives `json:"strategies"`
	Canvas          Canvas             `json:"canvas"`
	BillOfMaterials string             `json:"billOfMaterials,omitempty"`
	Travel          *TravelEstimate    `json:"travel,omitempty"`
	Recommendation  *Recommendation    `json:"recommendation,omitempty"`
	Transcript      []Turn             `json:"transcript"`
	CostSheet       CostSheet          `json:"costSheet"`
}

// Snapshot returns a copy of the current state with totals recomputed.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:              s.id,
		CreatedAt:       s.createdAt,
		Info:            s.info,
		CostConfig:      s.costConfig,
		Strategies:      s.strategies,
		Canvas:          s.canvas,
		BillOfMaterials: s.billOfMaterials,
		Transcript:      append([]Turn(nil), s.transcript...),
	}
	if s.travel != nil {
		t := *s.travel
		snap.Travel = &t
		snap.CostSheet = ComputeCostSheet(s.costConfig, t)
	} else {
		snap.CostSheet = ComputeCostSheet(s.costConfig, TravelEstimate{})
	}
	if s.recommendation != nil {
		r := *s.recommendation
		snap.Recommendation = &r
	}
	return snap
}

// SetInfo replaces the project info.
func (s *Session) SetInfo(info ProjectInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

// MergeInfo overwrites only non-empty fields, as the assistant-driven setup
// flow does.
func (s *Session) MergeInfo(name, client *string) ProjectInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != nil && *name != "" {
		s.info.Name = *name
	}
	if client != nil && *client != "" {
		s.info.Client = *client
	}
	return s.info
}

// SetCostConfig replaces the full cost config after validating it.
func (s *Session) SetCostConfig(cfg CostConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costConfig = cfg
	return nil
}

// CostConfig returns the current cost config.
func (s *Session) CostConfig() CostConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.costConfig
}

// ApplyConfigUpdate merges a partial update into the cost config and
// returns the result. The update must already be schema-valid; values are
// still checked for non-negativity.
func (s *Session) ApplyConfigUpdate(u ConfigUpdate) (CostConfig, error) {
	if err := u.Validate(); err != nil {
		return CostConfig{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costConfig = u.Apply(s.costConfig)
	return s.costConfig, nil
}

// SetCanvas replaces the narrative canvas fields.
func (s *Session) SetCanvas(c Canvas) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas = c
}

// SetStrategies replaces the strategy narratives.
func (s *Session) SetStrategies(n StrategyNarratives) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies = n
}

// SetSourceDocuments replaces the client-data and vendor-quote texts.
func (s *Session) SetSourceDocuments(clientData, vendorQuotes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientData = clientData
	s.vendorQuotes = vendorQuotes
}

// SetBillOfMaterials stores the extracted BOM text.
func (s *Session) SetBillOfMaterials(bom string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.billOfMaterials = bom
}

// SetTravelEstimate stores the latest travel estimate.
func (s *Session) SetTravelEstimate(t TravelEstimate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.travel = &t
}

// SetRecommendation stores a fresh recommendation and resets the
// conversation transcript: a regenerated recommendation invalidates any
// prior challenge dialogue.
func (s *Session) SetRecommendation(r Recommendation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommendation = &r
	s.transcript = nil
}

// Recommendation returns the current recommendation, or nil.
func (s *Session) Recommendation() *Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recommendation == nil {
		return nil
	}
	r := *s.recommendation
	return &r
}

// Transcript returns a copy of the conversation transcript.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.transcript...)
}

// RecordUserTurn appends a user turn to the transcript.
func (s *Session) RecordUserTurn(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, UserTurn(content))
}

// RecordModelTurn appends a model turn to the transcript.
func (s *Session) RecordModelTurn(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, ModelTurn(content))
}

// BeginChallenge marks a challenge turn in flight. A second concurrent turn
// on the same session is rejected rather than interleaved.
func (s *Session) BeginChallenge() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recommendation == nil {
		return perrors.NewValidation("recommendation", "generate a recommendation before challenging it")
	}
	if s.challengeBusy {
		return perrors.ErrChallengeBusy
	}
	s.challengeBusy = true
	return nil
}

// EndChallenge clears the in-flight marker.
func (s *Session) EndChallenge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challengeBusy = false
}

// CommitChallenge durably appends the completed exchange and applies the
// optional config update in one atomic step. A failed challenge commits
// nothing: no turns, no partial config change.
func (s *Session) CommitChallenge(utterance, response string, update *ConfigUpdate) (CostConfig, error) {
	if update != nil {
		if err := update.Validate(); err != nil {
			return CostConfig{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, UserTurn(utterance), ModelTurn(response))
	if update != nil {
		s.costConfig = update.Apply(s.costConfig)
	}
	return s.costConfig, nil
}

// Context assembles a fresh ProjectContext from current state. Fields not
// yet provided fall back to the seeded placeholder texts.
func (s *Session) Context() ProjectContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := ProjectContext{
		ClientData:               s.clientData,
		VendorQuotes:             s.vendorQuotes,
		LogisticalConfigurations: defaultLogistics,
		CostModelConfigurations:  CostModelSummary(s.costConfig),
		StrategyAAnalysis:        s.strategies.A,
		StrategyBAnalysis:        s.strategies.B,
		BillOfMaterials:          s.billOfMaterials,
		Canvas:                   s.canvas,
	}
	if ctx.ClientData == "" {
		ctx.ClientData = defaultClientData
	}
	if ctx.VendorQuotes == "" {
		ctx.VendorQuotes = defaultVendorQuotes
	}
	if s.travel != nil && s.travel.OptimalRouteSummary != "" {
		ctx.LogisticalConfigurations = s.travel.OptimalRouteSummary
	}
	if s.recommendation != nil {
		ctx.InitialRecommendation = s.recommendation.Recommendation
	}
	return ctx
}
