// Package config loads the glint settings hierarchy. Priority, highest
// first: GLINT_* environment variables, the local config file, the user
// config at ~/.glint/config.json, built-in defaults. The engine treats the
// result as read-only; one value set is read per operation start.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration is the resolved glint configuration.
type Configuration struct {
	// Backend selects the completion backend: the claude CLI subprocess,
	// a hosted API, or a custom YAML-defined HTTP backend.
	Backend string `koanf:"backend" validate:"required,oneof=claude-cli anthropic openai custom"`

	// Model is the model identifier passed to the backend.
	Model string `koanf:"model" validate:"required"`

	// Language is the programming language requested for solutions.
	Language string `koanf:"language" validate:"required"`

	// CLICmd is the backend CLI binary name or path.
	CLICmd string `koanf:"cli_cmd" validate:"required"`

	// CLIArgs are extra arguments prepended to every CLI invocation.
	CLIArgs []string `koanf:"cli_args"`

	// MinCLIVersion gates CLI compatibility. Empty accepts every version.
	MinCLIVersion string `koanf:"min_cli_version"`

	// APIKeyEnv names the environment variable holding the provider key.
	APIKeyEnv string `koanf:"api_key_env"`

	// TimeoutSeconds bounds one backend invocation. 0 uses the runner default.
	TimeoutSeconds int `koanf:"timeout" validate:"omitempty,min=1,max=604800"`

	// MaxAttempts bounds one retry session.
	MaxAttempts int `koanf:"max_attempts" validate:"min=1,max=10"`

	// RetryBudgetMS is the cumulative retry time budget in milliseconds.
	RetryBudgetMS int `koanf:"retry_budget_ms" validate:"omitempty,min=1000"`

	// BreakerThreshold is the consecutive systemic failures that open the
	// circuit breaker.
	BreakerThreshold int `koanf:"breaker_threshold" validate:"min=1,max=100"`

	// BreakerCooldownSeconds is how long the breaker stays open.
	BreakerCooldownSeconds int `koanf:"breaker_cooldown" validate:"min=1"`

	// CustomBackendPath points at a YAML backend definition, used when
	// Backend is "custom".
	CustomBackendPath string `koanf:"custom_backend_path"`

	// ShowProgress enables terminal spinners during execution.
	ShowProgress bool `koanf:"show_progress"`

	// Notifications enables desktop notifications on terminal failures.
	Notifications bool `koanf:"notifications"`
}

// Timeout returns the per-invocation timeout as a duration.
func (c *Configuration) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryBudget returns the session retry budget as a duration.
func (c *Configuration) RetryBudget() time.Duration {
	return time.Duration(c.RetryBudgetMS) * time.Millisecond
}

// BreakerCooldown returns the breaker cooldown as a duration.
func (c *Configuration) BreakerCooldown() time.Duration {
	return time.Duration(c.BreakerCooldownSeconds) * time.Second
}

// Load resolves the configuration from defaults, the user config file, an
// optional local file, and GLINT_* environment variables, then validates it.
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if userPath, err := UserConfigPath(); err == nil {
		if _, err := os.Stat(userPath); err == nil {
			if err := k.Load(file.Provider(userPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("loading user config: %w", err)
			}
		}
	}

	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("loading local config: %w", err)
			}
		}
	}

	k.Load(env.Provider("GLINT_", ".", envTransform), nil)

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.CustomBackendPath = expandHomePath(cfg.CustomBackendPath)

	return &cfg, nil
}

// envTransform maps GLINT_MAX_ATTEMPTS to max_attempts.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "GLINT_"))
}

// expandHomePath expands a leading ~/ to the user's home directory.
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
