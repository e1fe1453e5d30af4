package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`

	// Inference provider: "gemini" or "anthropic".
	Provider string `envconfig:"INFERENCE_PROVIDER" default:"gemini"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-5"`

	MaxTokens        int           `envconfig:"INFERENCE_MAX_TOKENS" default:"4096"`
	InferenceTimeout time.Duration `envconfig:"INFERENCE_TIMEOUT" default:"120s"`

	// Optional per-flow inference settings file (YAML).
	FlowSettingsPath string `envconfig:"FLOW_SETTINGS_PATH"`

	// Travel estimator backend: "mock" or "inference".
	TravelEstimator string `envconfig:"TRAVEL_ESTIMATOR" default:"mock"`

	// HTTP middleware
	RateLimitRPS   int    `envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst int    `envconfig:"RATE_LIMIT_BURST" default:"100"`
	CORSOrigins    string `envconfig:"CORS_ORIGINS"`

	// Maximum resident proposal sessions before LRU eviction.
	SessionCapacity int `envconfig:"SESSION_CAPACITY" default:"1024"`
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	if strings.EqualFold(c.Provider, "anthropic") {
		return c.AnthropicAPIKey
	}
	return c.GeminiAPIKey
}

// Model returns the model ID for the configured provider.
func (c *Config) Model() string {
	if strings.EqualFold(c.Provider, "anthropic") {
		return c.AnthropicModel
	}
	return c.GeminiModel
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "gemini", "anthropic":
	default:
		return fmt.Errorf("unknown inference provider %q", c.Provider)
	}
	switch strings.ToLower(c.TravelEstimator) {
	case "mock", "inference":
	default:
		return fmt.Errorf("unknown travel estimator %q", c.TravelEstimator)
	}
	if c.APIKey() == "" {
		return fmt.Errorf("no API key configured for provider %q", c.Provider)
	}
	if c.SessionCapacity < 1 {
		return fmt.Errorf("SESSION_CAPACITY must be >= 1, got %d", c.SessionCapacity)
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}
