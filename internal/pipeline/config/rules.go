package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleConfig is the shape of .shpurify.yml: which rule families/codes are
// enabled, and the severity floor for the CLI's exit-code decision.
type RuleConfig struct {
	// Enable/Disable list rule codes or family prefixes (e.g. "SEC",
	// "SC2006"). Disable takes precedence when a code appears in both.
	Enable  []string `yaml:"enable"`
	Disable []string `yaml:"disable"`
	// MinSeverity is the lowest severity ("info", "warning", "error")
	// that causes the CLI to exit non-zero.
	MinSeverity string `yaml:"min_severity"`
}

// DefaultRuleConfig enables every rule family and fails the CLI on any
// warning or error, matching how the built-in catalog behaves with no
// config file present.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{MinSeverity: "warning"}
}

// LoadRuleConfig reads and parses path; a missing file is not an error and
// yields DefaultRuleConfig, since .shpurify.yml is optional.
func LoadRuleConfig(path string) (RuleConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultRuleConfig(), nil
	}
	if err != nil {
		return RuleConfig{}, fmt.Errorf("read rule config %s: %w", path, err)
	}
	cfg := DefaultRuleConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RuleConfig{}, fmt.Errorf("parse rule config %s: %w", path, err)
	}
	return cfg, nil
}

// IsEnabled reports whether a rule code is enabled under cfg: disabled
// (by exact code or family prefix) beats enabled, and with no enable list
// everything not disabled is on.
func (cfg RuleConfig) IsEnabled(code, family string) bool {
	for _, d := range cfg.Disable {
		if d == code || d == family {
			return false
		}
	}
	if len(cfg.Enable) == 0 {
		return true
	}
	for _, e := range cfg.Enable {
		if e == code || e == family {
			return true
		}
	}
	return false
}
