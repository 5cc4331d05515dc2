package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyKeyPath is returned when an empty key path is provided.
var ErrEmptyKeyPath = errors.New("empty key path")

// ParseKeyPath splits a dotted key path into components.
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	return strings.Split(path, "."), nil
}

// SetConfigValue validates key and value against the schema and writes the
// result into the JSON config file, creating it if needed. The write is
// atomic: temp file in the same directory, then rename.
func SetConfigValue(filePath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return fmt.Errorf("validating value: %w", err)
	}

	doc, err := loadOrCreateJSON(filePath)
	if err != nil {
		return err
	}

	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return fmt.Errorf("parsing key path: %w", err)
	}
	setNestedValue(doc, keyPath, parsed.Parsed)

	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	content = append(content, '\n')

	if err := writeAtomically(filePath, content); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// GetConfigValue reads one key from the JSON config file. The boolean is
// false when the file or the key does not exist.
func GetConfigValue(filePath, key string) (interface{}, bool, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading config file: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("parsing config file: %w", err)
	}

	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return nil, false, err
	}

	var current interface{} = doc
	for _, part := range keyPath {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false, nil
		}
		if current, ok = m[part]; !ok {
			return nil, false, nil
		}
	}
	return current, true, nil
}

// setNestedValue writes value at keyPath, creating intermediate objects.
// A scalar in the way of a deeper path is replaced by an object.
func setNestedValue(doc map[string]interface{}, keyPath []string, value interface{}) {
	for _, part := range keyPath[:len(keyPath)-1] {
		child, ok := doc[part].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			doc[part] = child
		}
		doc = child
	}
	doc[keyPath[len(keyPath)-1]] = value
}

func loadOrCreateJSON(filePath string) (map[string]interface{}, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]interface{}), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if doc == nil {
		doc = make(map[string]interface{})
	}
	return doc, nil
}

// writeAtomically writes content via a temp file and rename, creating parent
// directories as needed.
func writeAtomically(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = ""
	return nil
}
