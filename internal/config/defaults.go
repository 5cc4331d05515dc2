package config

// GetDefaults returns the built-in configuration values. Every key here has
// a matching entry in KnownKeys.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"backend":             "claude-cli",
		"model":               "claude-sonnet-4-5",
		"language":            "python",
		"cli_cmd":             "claude",
		"cli_args":            []string{"-p", "--output-format", "text"},
		"min_cli_version":     "",
		"api_key_env":         "ANTHROPIC_API_KEY",
		"timeout":             120,
		"max_attempts":        3,
		"retry_budget_ms":     300000,
		"breaker_threshold":   5,
		"breaker_cooldown":    60,
		"custom_backend_path": "",
		"show_progress":       true,
		"notifications":       false,
	}
}
