package config

import (
	"os"
	"path/filepath"
)

// DefaultLocalConfig is the project-local config file name looked up in the
// working directory.
const DefaultLocalConfig = ".glint.json"

// UserConfigPath returns the user-level config location, ~/.glint/config.json.
func UserConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".glint", "config.json"), nil
}

// LocalConfigPath returns the project-local config path if the file exists
// in the current directory, or empty when there is none.
func LocalConfigPath() string {
	if _, err := os.Stat(DefaultLocalConfig); err == nil {
		return DefaultLocalConfig
	}
	return ""
}
