package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigValueType is the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeEnum
)

// String returns the type label used in help and error text.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema describes one known configuration key.
type ConfigKeySchema struct {
	Path          string
	Type          ConfigValueType
	AllowedValues []string // enum options; empty for other types
	Description   string
	Default       interface{}
}

// KnownKeys is the registry of settable configuration keys. cli_args is
// deliberately absent: list values go through the config file, not
// `glint config set`.
var KnownKeys = map[string]ConfigKeySchema{
	"backend": {
		Path:          "backend",
		Type:          TypeEnum,
		AllowedValues: []string{"claude-cli", "anthropic", "openai", "custom"},
		Description:   "Completion backend to use",
		Default:       "claude-cli",
	},
	"model": {
		Path:        "model",
		Type:        TypeString,
		Description: "Model identifier passed to the backend",
		Default:     "claude-sonnet-4-5",
	},
	"language": {
		Path:        "language",
		Type:        TypeString,
		Description: "Programming language requested for solutions",
		Default:     "python",
	},
	"cli_cmd": {
		Path:        "cli_cmd",
		Type:        TypeString,
		Description: "Path to the backend CLI executable",
		Default:     "claude",
	},
	"min_cli_version": {
		Path:        "min_cli_version",
		Type:        TypeString,
		Description: "Minimum compatible CLI version (empty accepts any)",
		Default:     "",
	},
	"api_key_env": {
		Path:        "api_key_env",
		Type:        TypeString,
		Description: "Environment variable holding the provider API key",
		Default:     "ANTHROPIC_API_KEY",
	},
	"timeout": {
		Path:        "timeout",
		Type:        TypeInt,
		Description: "Timeout in seconds for one backend invocation",
		Default:     120,
	},
	"max_attempts": {
		Path:        "max_attempts",
		Type:        TypeInt,
		Description: "Maximum attempts per operation",
		Default:     3,
	},
	"retry_budget_ms": {
		Path:        "retry_budget_ms",
		Type:        TypeInt,
		Description: "Cumulative retry time budget in milliseconds",
		Default:     300000,
	},
	"breaker_threshold": {
		Path:        "breaker_threshold",
		Type:        TypeInt,
		Description: "Consecutive systemic failures that open the circuit breaker",
		Default:     5,
	},
	"breaker_cooldown": {
		Path:        "breaker_cooldown",
		Type:        TypeInt,
		Description: "Circuit breaker cooldown in seconds",
		Default:     60,
	},
	"custom_backend_path": {
		Path:        "custom_backend_path",
		Type:        TypeString,
		Description: "Path to a YAML custom backend definition",
		Default:     "",
	},
	"show_progress": {
		Path:        "show_progress",
		Type:        TypeBool,
		Description: "Show spinners during execution",
		Default:     true,
	},
	"notifications": {
		Path:        "notifications",
		Type:        TypeBool,
		Description: "Send desktop notifications on terminal failures",
		Default:     false,
	},
}

// ErrUnknownKey is returned for keys outside the registry.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema looks a key up in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue is user input converted to its schema type.
type ParsedValue struct {
	Raw    string
	Parsed interface{}
	Type   ConfigValueType
}

// ValidateValue checks a raw value against the schema for key.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}
