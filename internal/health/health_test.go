package health

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_RunAll(t *testing.T) {
	c := NewChecker(zerolog.Nop())
	c.Register("inference", func(ctx context.Context) Status { return StatusOK })
	c.Register("estimator", func(ctx context.Context) Status { return StatusDegraded })

	results := c.RunAll(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, StatusOK, results["inference"])
	assert.Equal(t, StatusDegraded, results["estimator"])

	// Results are cached.
	cached := c.Cached()
	assert.Equal(t, results, cached)
}

func TestOverall(t *testing.T) {
	assert.Equal(t, StatusOK, Overall(nil))
	assert.Equal(t, StatusOK, Overall(map[string]Status{"a": StatusOK}))
	assert.Equal(t, StatusDegraded, Overall(map[string]Status{"a": StatusOK, "b": StatusDegraded}))
	assert.Equal(t, StatusDown, Overall(map[string]Status{"a": StatusDegraded, "b": StatusDown}))
}
