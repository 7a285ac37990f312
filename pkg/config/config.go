// Package config loads the runtime configuration for the browser agent.
//
// Two inputs exist: an optional YAML config file with tunables (model,
// turn limit, timeouts, snapshot roles), and a required JSON credentials
// file for the Bedrock endpoint. Credentials are read once at startup and
// any problem with them is fatal before a session begins.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the shipped configuration.
const (
	DefaultModelID         = "us.amazon.nova-pro-v1:0"
	DefaultMaxTurns        = 20
	DefaultTimeoutMs       = 5000
	DefaultInitialURL      = "https://www.google.com/"
	DefaultCredentialsPath = "credentials/aws_credentials.json"
)

// DefaultAllowedRoles is the set of snapshot roles the agent acts on.
// The snapshotter observes more roles; only these survive filtering.
var DefaultAllowedRoles = []string{"button", "link", "textbox", "searchbox", "combobox"}

// Config holds all runtime tunables.
type Config struct {
	// ModelID selects the Bedrock model for the conversation loop.
	ModelID string `yaml:"model_id"`

	// MaxTurns bounds the conversation loop. Exceeding it fails the session.
	MaxTurns int `yaml:"max_turns"`

	// TimeoutMs bounds every browser operation, in milliseconds.
	TimeoutMs float64 `yaml:"timeout_ms"`

	// AllowedRoles filters snapshot elements to actionable roles.
	AllowedRoles []string `yaml:"allowed_roles"`

	// InitialURL is loaded when the browser session starts.
	InitialURL string `yaml:"initial_url"`

	// Headless controls whether the browser runs without a window.
	Headless bool `yaml:"headless"`

	// PromptCaching marks the system prompt as a cacheable prefix.
	// Optimization only; off by default.
	PromptCaching bool `yaml:"prompt_caching"`
}

// Default returns a Config populated with the shipped defaults.
func Default() *Config {
	return &Config{
		ModelID:      DefaultModelID,
		MaxTurns:     DefaultMaxTurns,
		TimeoutMs:    DefaultTimeoutMs,
		AllowedRoles: append([]string(nil), DefaultAllowedRoles...),
		InitialURL:   DefaultInitialURL,
	}
}

// Load reads a YAML config file and overlays it on the defaults. An empty
// path returns the defaults; a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ModelID == "" {
		return fmt.Errorf("model_id must not be empty")
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be positive, got %d", c.MaxTurns)
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %v", c.TimeoutMs)
	}
	if len(c.AllowedRoles) == 0 {
		return fmt.Errorf("allowed_roles must not be empty")
	}
	return nil
}
