package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordAndExpose(t *testing.T) {
	m := New()

	m.RecordFlow("challengeRecommendation", "success")
	m.RecordFlow("challengeRecommendation", "success")
	m.RecordFlow("generateBillOfMaterials", "schema_violation")
	m.RecordError("gateway", "transport")
	m.ObserveInference("recommendStrategy", 1.42)
	m.RecordTokens(1200, 340)
	m.SetSessions(3)
	m.ChallengeTurns.Inc()
	m.ConfigUpdates.Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `proposal_flow_calls_total{flow="challengeRecommendation",status="success"} 2`)
	assert.Contains(t, body, `proposal_flow_calls_total{flow="generateBillOfMaterials",status="schema_violation"} 1`)
	assert.Contains(t, body, `proposal_errors_total{component="gateway",type="transport"} 1`)
	assert.Contains(t, body, `proposal_inference_tokens_total{direction="input"} 1200`)
	assert.Contains(t, body, `proposal_inference_tokens_total{direction="output"} 340`)
	assert.Contains(t, body, `proposal_sessions_active 3`)
	assert.Contains(t, body, `proposal_challenge_turns_total 1`)
	assert.Contains(t, body, `proposal_config_updates_total 1`)
}
