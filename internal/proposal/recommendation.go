package proposal

import (
	"encoding/json"
	"fmt"
)

// Strategy is the closed two-variant deployment strategy enum. The narrative
// analysis text for each strategy is carried separately; only the label is
// fed back through the model.
type Strategy string

const (
	StrategyA Strategy = "Strategy A"
	StrategyB Strategy = "Strategy B"
)

// Valid reports whether s is one of the two allowed variants.
func (s Strategy) Valid() bool {
	return s == StrategyA || s == StrategyB
}

// UnmarshalJSON rejects anything outside the closed set.
func (s *Strategy) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Strategy(raw)
	if !v.Valid() {
		return fmt.Errorf("invalid strategy %q: must be %q or %q", raw, StrategyA, StrategyB)
	}
	*s = v
	return nil
}

// Recommendation is the result of one "generate recommendation" action.
// Regenerating it resets the session's conversation transcript.
type Recommendation struct {
	Recommendation      string   `json:"recommendation"`
	RecommendedStrategy Strategy `json:"recommendedStrategy"`
	EstimatedCost       float64  `json:"estimatedCost"`
	KeyFactors          string   `json:"keyFactors"`
}
