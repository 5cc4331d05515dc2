// Package config tests the settings hierarchy: defaults, user file, local
// file, and environment overrides, plus validation.
// Related: internal/config/config.go
// Tags: config, koanf, validation, layering
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolateHome points the user config at an empty temp dir so real user
// settings never leak into tests.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Backend != "claude-cli" {
		t.Errorf("expected claude-cli backend default, got %q", cfg.Backend)
	}
	if cfg.CLICmd != "claude" {
		t.Errorf("expected claude cli_cmd default, got %q", cfg.CLICmd)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected 3 max_attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.TimeoutSeconds != 120 {
		t.Errorf("expected 120s timeout default, got %d", cfg.TimeoutSeconds)
	}
	if cfg.BreakerThreshold != 5 || cfg.BreakerCooldownSeconds != 60 {
		t.Errorf("unexpected breaker defaults: %d/%d", cfg.BreakerThreshold, cfg.BreakerCooldownSeconds)
	}
	if got := cfg.RetryBudget().Minutes(); got != 5 {
		t.Errorf("expected 5 minute retry budget, got %v", got)
	}
}

func TestLoadUserConfigOverridesDefaults(t *testing.T) {
	home := isolateHome(t)
	writeConfig(t, filepath.Join(home, ".glint", "config.json"),
		`{"model": "claude-opus-4-1", "max_attempts": 5}`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Model != "claude-opus-4-1" {
		t.Errorf("user config model not applied, got %q", cfg.Model)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("user config max_attempts not applied, got %d", cfg.MaxAttempts)
	}
	if cfg.Backend != "claude-cli" {
		t.Errorf("untouched keys must keep defaults, got %q", cfg.Backend)
	}
}

func TestLoadLocalConfigOverridesUser(t *testing.T) {
	home := isolateHome(t)
	writeConfig(t, filepath.Join(home, ".glint", "config.json"), `{"timeout": 60}`)
	local := filepath.Join(t.TempDir(), "glint.json")
	writeConfig(t, local, `{"timeout": 240}`)

	cfg, err := Load(local)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TimeoutSeconds != 240 {
		t.Errorf("local config must win over user config, got %d", cfg.TimeoutSeconds)
	}
}

func TestLoadEnvironmentWins(t *testing.T) {
	home := isolateHome(t)
	writeConfig(t, filepath.Join(home, ".glint", "config.json"), `{"max_attempts": 5}`)
	t.Setenv("GLINT_MAX_ATTEMPTS", "7")
	t.Setenv("GLINT_LANGUAGE", "go")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxAttempts != 7 {
		t.Errorf("environment must win, got %d", cfg.MaxAttempts)
	}
	if cfg.Language != "go" {
		t.Errorf("environment language not applied, got %q", cfg.Language)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"unknown backend":        `{"backend": "carrier-pigeon"}`,
		"max_attempts too high":  `{"max_attempts": 99}`,
		"zero breaker threshold": `{"breaker_threshold": 0}`,
		"negative timeout":       `{"timeout": -5}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			home := isolateHome(t)
			writeConfig(t, filepath.Join(home, ".glint", "config.json"), content)

			if _, err := Load(""); err == nil {
				t.Errorf("expected validation failure for %s", content)
			}
		})
	}
}

func TestLoadMissingLocalFileIsFine(t *testing.T) {
	isolateHome(t)

	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Fatalf("missing local config must not fail: %v", err)
	}
}

func TestLoadMalformedUserConfigFails(t *testing.T) {
	home := isolateHome(t)
	writeConfig(t, filepath.Join(home, ".glint", "config.json"), `{not json`)

	if _, err := Load(""); err == nil {
		t.Error("expected parse failure for malformed user config")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Configuration{TimeoutSeconds: 90, RetryBudgetMS: 1500, BreakerCooldownSeconds: 30}

	if got := cfg.Timeout().Seconds(); got != 90 {
		t.Errorf("Timeout() = %vs", got)
	}
	if got := cfg.RetryBudget().Milliseconds(); got != 1500 {
		t.Errorf("RetryBudget() = %vms", got)
	}
	if got := cfg.BreakerCooldown().Seconds(); got != 30 {
		t.Errorf("BreakerCooldown() = %vs", got)
	}
}

func TestDefaultsMatchSchema(t *testing.T) {
	defaults := GetDefaults()

	for key, schema := range KnownKeys {
		if _, ok := defaults[key]; !ok {
			t.Errorf("schema key %q missing from defaults", key)
			continue
		}
		if schema.Path != key {
			t.Errorf("schema key %q has mismatched path %q", key, schema.Path)
		}
	}
}
