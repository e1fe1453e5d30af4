// Package config tests.
package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, 120*time.Second, cfg.InferenceTimeout)
	assert.Equal(t, "mock", cfg.TravelEstimator)
	assert.Equal(t, 1024, cfg.SessionCapacity)
}

func TestLoad_Overrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("INFERENCE_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("INFERENCE_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model())
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.InferenceTimeout)
}

func TestConfig_ProviderSelection(t *testing.T) {
	cfg := &Config{
		Provider:        "gemini",
		GeminiAPIKey:    "g-key",
		GeminiModel:     "gemini-2.5-flash",
		AnthropicAPIKey: "a-key",
		AnthropicModel:  "claude-sonnet-4-5",
	}
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.Equal(t, "gemini-2.5-flash", cfg.Model())

	cfg.Provider = "Anthropic"
	assert.Equal(t, "a-key", cfg.APIKey())
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model())
}

func TestConfig_Validate(t *testing.T) {
	valid := &Config{
		Provider:        "gemini",
		GeminiAPIKey:    "g-key",
		TravelEstimator: "mock",
		SessionCapacity: 10,
	}
	require.NoError(t, valid.Validate())

	noKey := &Config{Provider: "gemini", TravelEstimator: "mock", SessionCapacity: 10}
	assert.Error(t, noKey.Validate())

	badProvider := &Config{Provider: "openai", GeminiAPIKey: "k", TravelEstimator: "mock", SessionCapacity: 10}
	assert.Error(t, badProvider.Validate())

	badEstimator := &Config{Provider: "gemini", GeminiAPIKey: "k", TravelEstimator: "osrm", SessionCapacity: 10}
	assert.Error(t, badEstimator.Validate())

	badCapacity := &Config{Provider: "gemini", GeminiAPIKey: "k", TravelEstimator: "mock", SessionCapacity: 0}
	assert.Error(t, badCapacity.Validate())
}

func TestParseFlowSettings(t *testing.T) {
	t.Setenv("BOM_MODEL", "gemini-2.5-pro")

	yamlData := []byte(`
flows:
  generateBillOfMaterials:
    model: ${BOM_MODEL}
    max_tokens: 8192
  challengeRecommendation:
    temperature: 0.2
`)
	flows, err := ParseFlowSettings(yamlData)
	require.NoError(t, err)
	require.Len(t, flows, 2)

	bom := flows["generateBillOfMaterials"]
	assert.Equal(t, "gemini-2.5-pro", bom.Model)
	assert.Equal(t, 8192, bom.MaxTokens)
	assert.Nil(t, bom.Temperature)

	chal := flows["challengeRecommendation"]
	require.NotNil(t, chal.Temperature)
	assert.Equal(t, 0.2, *chal.Temperature)
	assert.Empty(t, chal.Model)
}

func TestParseFlowSettings_Empty(t *testing.T) {
	flows, err := ParseFlowSettings([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, flows)

	flows, err = LoadFlowSettings("")
	require.NoError(t, err)
	assert.Empty(t, flows)
}

func TestParseFlowSettings_Invalid(t *testing.T) {
	_, err := ParseFlowSettings([]byte("flows: [not a map"))
	assert.Error(t, err)
}
