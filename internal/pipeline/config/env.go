// Package config loads the CLI collaborator's environment-driven settings.
// The core pipeline functions (Parse, Purify, Emit, Lint) never read this
// package themselves; config is assembled here, at the edge, and passed in
// as plain structs, per spec.md's "no shared mutable state" guarantee.
package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Env is the process-environment configuration for the CLI/batch runner,
// loaded with the same envconfig.Process shape the teacher uses for its
// own service configuration.
type Env struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogColor       bool   `envconfig:"LOG_COLOR" default:"true"`
	RuleConfigPath string `envconfig:"RULE_CONFIG_PATH" default:".shpurify.yml"`
	MaxParallel    int    `envconfig:"MAX_PARALLEL" default:"4"`
}

const namespace = "SHPURIFY"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return &env, nil
}

func (e *Env) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
