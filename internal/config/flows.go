// Per-flow inference settings loaded from YAML. Values may reference
// environment variables via ${VAR} or $VAR syntax.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlowSettings overrides gateway defaults for a single named flow.
type FlowSettings struct {
	// Model overrides the provider's default model for this flow.
	Model string `yaml:"model"`

	// Temperature for sampling. Nil keeps the provider default.
	Temperature *float64 `yaml:"temperature"`

	// MaxTokens caps the completion length. 0 keeps the provider default.
	MaxTokens int `yaml:"max_tokens"`
}

// FlowSettingsFile is the top-level structure of the flow settings YAML:
//
//	flows:
//	  challengeRecommendation:
//	    temperature: 0.2
//	  generateBillOfMaterials:
//	    model: ${BOM_MODEL}
//	    max_tokens: 8192
type FlowSettingsFile struct {
	Flows map[string]FlowSettings `yaml:"flows"`
}

// LoadFlowSettings reads and parses a flow settings YAML file, expanding
// env vars. Returns an empty map when path is empty.
func LoadFlowSettings(path string) (map[string]FlowSettings, error) {
	if path == "" {
		return map[string]FlowSettings{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flow settings: read %s: %w", path, err)
	}
	return ParseFlowSettings(raw)
}

// ParseFlowSettings parses flow settings from YAML bytes (useful for testing).
func ParseFlowSettings(data []byte) (map[string]FlowSettings, error) {
	expanded := expandEnvVars(string(data))

	var f FlowSettingsFile
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return nil, fmt.Errorf("flow settings: parse: %w", err)
	}
	if f.Flows == nil {
		f.Flows = map[string]FlowSettings{}
	}
	return f.Flows, nil
}

// envVarPattern matches ${VAR_NAME} and $VAR_NAME.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars replaces ${VAR} and $VAR with the corresponding environment
// variable value. Missing vars expand to an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "${")
		name = strings.TrimSuffix(name, "}")
		name = strings.TrimPrefix(name, "$")
		return os.Getenv(name)
	})
}
