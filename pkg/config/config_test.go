package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultModelID, cfg.ModelID)
	assert.Equal(t, DefaultMaxTurns, cfg.MaxTurns)
	assert.Equal(t, float64(DefaultTimeoutMs), cfg.TimeoutMs)
	assert.Equal(t, DefaultInitialURL, cfg.InitialURL)
	assert.Equal(t, DefaultAllowedRoles, cfg.AllowedRoles)
	assert.False(t, cfg.Headless)
	assert.False(t, cfg.PromptCaching)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
model_id: anthropic.claude-3-5-sonnet-20241022-v2:0
max_turns: 8
timeout_ms: 10000
initial_url: https://duckduckgo.com/
headless: true
prompt_caching: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic.claude-3-5-sonnet-20241022-v2:0", cfg.ModelID)
	assert.Equal(t, 8, cfg.MaxTurns)
	assert.Equal(t, float64(10000), cfg.TimeoutMs)
	assert.Equal(t, "https://duckduckgo.com/", cfg.InitialURL)
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.PromptCaching)

	// Unset keys keep their defaults.
	assert.Equal(t, DefaultAllowedRoles, cfg.AllowedRoles)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero max_turns", "max_turns: 0"},
		{"negative timeout", "timeout_ms: -1"},
		{"empty model", `model_id: ""`},
		{"empty roles", "allowed_roles: []"},
		{"malformed yaml", "max_turns: [not an int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.yaml", tt.yaml)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadCredentials(t *testing.T) {
	path := writeFile(t, "aws_credentials.json", `{
  "aws_access_key_id": "AKIAEXAMPLE",
  "aws_secret_access_key": "secret",
  "region": "ap-northeast-1"
}`)

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
	assert.Equal(t, "ap-northeast-1", creds.Region)
}

func TestLoadCredentialsRegionDefault(t *testing.T) {
	path := writeFile(t, "aws_credentials.json",
		`{"aws_access_key_id": "AKIAEXAMPLE", "aws_secret_access_key": "secret"}`)

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, creds.Region)
}

func TestLoadCredentialsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"aws_access_key_id": `},
		{"missing access key", `{"aws_secret_access_key": "secret"}`},
		{"missing secret key", `{"aws_access_key_id": "AKIAEXAMPLE"}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "aws_credentials.json", tt.content)
			_, err := LoadCredentials(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadCredentials(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
