package proposal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestConfigUpdate_FieldwiseOverwrite(t *testing.T) {
	cfg := DefaultCostConfig()
	update := ConfigUpdate{TechnicianRate: f(85)}

	got := update.Apply(cfg)

	assert.Equal(t, 85.0, got.TechnicianRate)
	// Every other field keeps its prior value.
	assert.Equal(t, cfg.OnSiteLabor, got.OnSiteLabor)
	assert.Equal(t, cfg.LivingExpenses, got.LivingExpenses)
	assert.Equal(t, cfg.PMOverhead, got.PMOverhead)
	assert.Equal(t, cfg.TravelHoursMatrix, got.TravelHoursMatrix)
	assert.Equal(t, cfg.Parking, got.Parking)
	assert.Equal(t, cfg.MealsCost, got.MealsCost)
}

func TestConfigUpdate_EmptyIsNoOp(t *testing.T) {
	cfg := DefaultCostConfig()
	got := ConfigUpdate{}.Apply(cfg)
	assert.Equal(t, cfg, got)
	assert.True(t, ConfigUpdate{}.IsZero())
}

func TestConfigUpdate_ZeroIsNotAbsent(t *testing.T) {
	cfg := DefaultCostConfig()
	update := ConfigUpdate{Parking: f(0)}

	require.False(t, update.IsZero())
	got := update.Apply(cfg)
	assert.Equal(t, 0.0, got.Parking)
	assert.Equal(t, cfg.MealsCost, got.MealsCost)
}

func TestConfigUpdate_JSONAbsentVsPresent(t *testing.T) {
	var explicit ConfigUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"parking": 0}`), &explicit))
	require.NotNil(t, explicit.Parking)
	assert.Equal(t, 0.0, *explicit.Parking)

	var absent ConfigUpdate
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.Nil(t, absent.Parking)
	assert.True(t, absent.IsZero())

	// Absent fields stay absent through re-serialization.
	out, err := json.Marshal(ConfigUpdate{TechnicianRate: f(85)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"technicianRate":85}`, string(out))
}

func TestConfigUpdate_MultipleFields(t *testing.T) {
	cfg := DefaultCostConfig()
	update := ConfigUpdate{OnSiteLabor: f(4), MealsCost: f(95)}

	got := update.Apply(cfg)
	assert.Equal(t, 4.0, got.OnSiteLabor)
	assert.Equal(t, 95.0, got.MealsCost)
	assert.Equal(t, cfg.TechnicianRate, got.TechnicianRate)
}

func TestConfigUpdate_Validate(t *testing.T) {
	assert.NoError(t, ConfigUpdate{}.Validate())
	assert.NoError(t, ConfigUpdate{Parking: f(0)}.Validate())

	err := ConfigUpdate{TechnicianRate: f(-1)}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "technicianRate")
}

func TestCostConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultCostConfig().Validate())

	bad := DefaultCostConfig()
	bad.PMOverhead = -5
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pmOverhead")
}

func TestDefaultCostConfig(t *testing.T) {
	cfg := DefaultCostConfig()
	assert.Equal(t, 3.0, cfg.OnSiteLabor)
	assert.Equal(t, 75.0, cfg.TechnicianRate)
	assert.Equal(t, 330.0, cfg.LivingExpenses)
	assert.Equal(t, 12.5, cfg.PMOverhead)
	assert.Equal(t, 1.0, cfg.TravelHoursMatrix)
	assert.Equal(t, 15.0, cfg.Parking)
	assert.Equal(t, 80.0, cfg.MealsCost)
}
