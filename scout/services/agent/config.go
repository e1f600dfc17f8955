package agent

import (
	"os"

	"scout/scout/utils/logging"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel     = "claude-opus-4-20250514"
	DefaultMaxTokens = 4096
)

// AgentConfig tunes the research agent. All fields are optional; zero
// values fall back to the defaults above and the built-in keyword list.
type AgentConfig struct {
	Model         string   `yaml:"model"`
	MaxTokens     int      `yaml:"max_tokens"`
	ExtraKeywords []string `yaml:"extra_keywords"`
}

// LoadAgentConfig reads the optional YAML tuning file. A missing or empty
// path yields defaults; a malformed file is logged and ignored.
func LoadAgentConfig(path string) AgentConfig {
	cfg := AgentConfig{
		Model:     DefaultModel,
		MaxTokens: DefaultMaxTokens,
	}
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logging.AppLogger.Error("agent config read error", zap.Error(err))
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logging.ErrorLogger.Error("agent config parse error", zap.Error(err))
		return AgentConfig{Model: DefaultModel, MaxTokens: DefaultMaxTokens}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return cfg
}
