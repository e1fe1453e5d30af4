// Package travel estimates travel and living costs for multi-location
// rollouts. The routing problem itself is out of scope here: callers get a
// stable Estimator contract, and the default implementation fabricates
// plausible figures until a real routing backend exists.
package travel

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/proposal"
)

// Request carries the inputs of one estimation: the raw location document
// plus the two cost parameters taken from the session's cost config.
type Request struct {
	// MIMEType describes the Locations payload (e.g. text/csv).
	MIMEType string
	// Locations is the uploaded location list, typically a CSV or
	// spreadsheet with address columns.
	Locations []byte

	LivingExpensePerNight  float64
	TechniciansPerLocation float64
}

// Validate rejects requests that cannot produce a meaningful estimate.
func (r Request) Validate() error {
	if len(r.Locations) == 0 {
		return perrors.NewValidation("locations", "location document is required")
	}
	if r.LivingExpensePerNight < 0 {
		return perrors.NewValidation("livingExpensePerNight", "must be non-negative")
	}
	if r.TechniciansPerLocation <= 0 {
		return perrors.NewValidation("techniciansPerLocation", "must be positive")
	}
	return nil
}

// Estimator produces a travel estimate for a location list.
type Estimator interface {
	Estimate(ctx context.Context, req Request) (proposal.TravelEstimate, error)
}

// MockEstimator fabricates an estimate without parsing the location
// document: 10-40 locations, 200-350 km of driving per location at $0.75/km,
// and 1.2-1.7 overnight stays per location.
type MockEstimator struct {
	rng *rand.Rand
}

// MockOption configures a MockEstimator.
type MockOption func(*MockEstimator)

// WithSeed makes the fabricated figures deterministic.
func WithSeed(seed int64) MockOption {
	return func(m *MockEstimator) { m.rng = rand.New(rand.NewSource(seed)) }
}

// NewMockEstimator creates a mock estimator.
func NewMockEstimator(opts ...MockOption) *MockEstimator {
	m := &MockEstimator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for _, o := range opts {
		o(m)
	}
	return m
}

const travelCostPerKm = 0.75

// Estimate fabricates a consistent set of figures for the request. The
// context is accepted for interface parity; the mock never blocks.
func (m *MockEstimator) Estimate(_ context.Context, req Request) (proposal.TravelEstimate, error) {
	if err := req.Validate(); err != nil {
		return proposal.TravelEstimate{}, err
	}

	locations := m.rng.Intn(31) + 10
	distanceKm := locations * (m.rng.Intn(151) + 200)
	stays := int(float64(locations) * (m.rng.Float64()*0.5 + 1.2))

	return proposal.TravelEstimate{
		NumberOfLocations:   locations,
		TotalTravelCost:     float64(distanceKm) * travelCostPerKm,
		TotalLivingExpenses: float64(stays) * req.LivingExpensePerNight * req.TechniciansPerLocation,
		TotalOvernightStays: float64(stays),
		OptimalRouteSummary: fmt.Sprintf(
			"Optimal route covers %d locations over an estimated %s km. "+
				"This will require approximately %d overnight stays per technician.",
			locations, groupThousands(distanceKm), stays,
		),
	}, nil
}

// groupThousands renders 12345 as "12,345".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
