package assistant

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var defaultPrompt []byte

type Example struct {
	Question string `yaml:"question"`
	Cypher   string `yaml:"cypher"`
}

// PromptConfig drives translation and the cast repair.
type PromptConfig struct {
	System        string    `yaml:"system"`
	NumericFields []string  `yaml:"numeric_fields"`
	Examples      []Example `yaml:"examples"`
}

func parsePromptConfig(raw []byte) (PromptConfig, error) {
	var cfg PromptConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return PromptConfig{}, fmt.Errorf("parse prompt config: %w", err)
	}
	if strings.TrimSpace(cfg.System) == "" {
		return PromptConfig{}, fmt.Errorf("prompt config: system prompt is empty")
	}
	return cfg, nil
}

// DefaultPromptConfig is the embedded prompt.yaml.
func DefaultPromptConfig() PromptConfig {
	cfg, err := parsePromptConfig(defaultPrompt)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadPromptConfig reads path, or returns the embedded default when path is empty.
func LoadPromptConfig(path string) (PromptConfig, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPromptConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return PromptConfig{}, fmt.Errorf("read prompt config: %w", err)
	}
	return parsePromptConfig(raw)
}
