package travel

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/inference"
	"github.com/atmosphere-labs/proposal-engine/internal/llm"
)

func validRequest() Request {
	return Request{
		MIMEType:               "text/csv",
		Locations:              []byte("street,city,state,zip\n1 Main St,Springfield,IL,62701\n"),
		LivingExpensePerNight:  330,
		TechniciansPerLocation: 1,
	}
}

func TestMockEstimator_FiguresAreConsistent(t *testing.T) {
	m := NewMockEstimator(WithSeed(1))

	for i := 0; i < 50; i++ {
		est, err := m.Estimate(context.Background(), validRequest())
		require.NoError(t, err)

		assert.GreaterOrEqual(t, est.NumberOfLocations, 10)
		assert.LessOrEqual(t, est.NumberOfLocations, 40)

		// 200-350 km per location at $0.75/km.
		perLocation := est.TotalTravelCost / float64(est.NumberOfLocations)
		assert.GreaterOrEqual(t, perLocation, 200*0.75)
		assert.LessOrEqual(t, perLocation, 350*0.75)

		staysPerLocation := est.TotalOvernightStays / float64(est.NumberOfLocations)
		assert.GreaterOrEqual(t, staysPerLocation, 1.0)
		assert.LessOrEqual(t, staysPerLocation, 1.7)

		assert.InDelta(t, est.TotalOvernightStays*330, est.TotalLivingExpenses, 1e-9)
		assert.Contains(t, est.OptimalRouteSummary, "Optimal route covers")
	}
}

func TestMockEstimator_Deterministic(t *testing.T) {
	a, err := NewMockEstimator(WithSeed(42)).Estimate(context.Background(), validRequest())
	require.NoError(t, err)
	b, err := NewMockEstimator(WithSeed(42)).Estimate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMockEstimator_ScalesWithTechnicians(t *testing.T) {
	req := validRequest()
	req.TechniciansPerLocation = 3

	est, err := NewMockEstimator(WithSeed(7)).Estimate(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, est.TotalOvernightStays*330*3, est.TotalLivingExpenses, 1e-9)
}

func TestMockEstimator_RejectsBadInput(t *testing.T) {
	m := NewMockEstimator(WithSeed(1))

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty document", func(r *Request) { r.Locations = nil }},
		{"negative living expense", func(r *Request) { r.LivingExpensePerNight = -1 }},
		{"zero technicians", func(r *Request) { r.TechniciansPerLocation = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := m.Estimate(context.Background(), req)
			var vErr *perrors.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", groupThousands(0))
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "1,000", groupThousands(1000))
	assert.Equal(t, "12,345", groupThousands(12345))
	assert.Equal(t, "1,234,567", groupThousands(1234567))
}

type fakeProvider struct {
	last *llm.CompletionRequest
	resp *llm.CompletionResponse
	err  error
}

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.last = &req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeProvider) Available(context.Context) bool { return true }
func (f *fakeProvider) ModelID() string                { return "fake-model" }

func TestInferenceEstimator_ForwardsDocumentAndDecodes(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{
		"numberOfLocations":   12,
		"totalTravelCost":     4500.0,
		"totalLivingExpenses": 3960.0,
		"totalOvernightStays": 12.0,
		"optimalRouteSummary": "Route across 12 sites.",
	})
	fp := &fakeProvider{resp: &llm.CompletionResponse{
		ToolUse: &llm.ToolUse{Name: "estimate_travel_costs", Input: payload},
	}}
	gw := inference.NewGateway(fp, zerolog.Nop())

	est, err := NewInferenceEstimator(gw).Estimate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 12, est.NumberOfLocations)
	assert.InDelta(t, 4500.0, est.TotalTravelCost, 1e-9)
	assert.Equal(t, "Route across 12 sites.", est.OptimalRouteSummary)

	require.NotNil(t, fp.last)
	require.Len(t, fp.last.Messages, 1)
	require.Len(t, fp.last.Messages[0].Media, 1)
	assert.Equal(t, "text/csv", fp.last.Messages[0].Media[0].MIMEType)
	assert.Equal(t, "estimate_travel_costs", fp.last.ForceTool)
	assert.Contains(t, fp.last.Messages[0].Content, "Technicians required per location: 1")
}

func TestInferenceEstimator_RejectsNegativeTotals(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{
		"numberOfLocations":   5,
		"totalTravelCost":     -1.0,
		"totalLivingExpenses": 0.0,
		"totalOvernightStays": 0.0,
		"optimalRouteSummary": "bad",
	})
	fp := &fakeProvider{resp: &llm.CompletionResponse{
		ToolUse: &llm.ToolUse{Name: "estimate_travel_costs", Input: payload},
	}}
	gw := inference.NewGateway(fp, zerolog.Nop())

	_, err := NewInferenceEstimator(gw).Estimate(context.Background(), validRequest())
	var sErr *perrors.SchemaViolationError
	require.ErrorAs(t, err, &sErr)
}
