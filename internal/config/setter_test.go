// Package config tests JSON config writes and reads.
// Related: internal/config/setter.go
// Tags: config, setter, atomic-write
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetConfigValueCreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	if err := SetConfigValue(path, "model", "claude-opus-4-1"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}

	got, ok, err := GetConfigValue(path, "model")
	if err != nil || !ok {
		t.Fatalf("GetConfigValue: ok=%v err=%v", ok, err)
	}
	if got != "claude-opus-4-1" {
		t.Errorf("round-trip mismatch: %v", got)
	}
}

func TestSetConfigValuePreservesOtherKeys(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"model": "claude-sonnet-4-5", "timeout": 120}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := SetConfigValue(path, "max_attempts", "5"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}

	for key, want := range map[string]interface{}{
		"model":        "claude-sonnet-4-5",
		"timeout":      float64(120), // JSON numbers decode as float64
		"max_attempts": float64(5),
	} {
		got, ok, err := GetConfigValue(path, key)
		if err != nil || !ok {
			t.Fatalf("GetConfigValue(%s): ok=%v err=%v", key, ok, err)
		}
		if got != want {
			t.Errorf("%s = %v, want %v", key, got, want)
		}
	}
}

func TestSetConfigValueTypedValues(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")

	if err := SetConfigValue(path, "show_progress", "false"); err != nil {
		t.Fatalf("SetConfigValue: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"show_progress": false`) {
		t.Errorf("boolean must be written unquoted:\n%s", data)
	}
}

func TestSetConfigValueRejectsBadInput(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")

	if err := SetConfigValue(path, "unknown_key", "1"); err == nil {
		t.Error("expected unknown-key rejection")
	}
	if err := SetConfigValue(path, "max_attempts", "many"); err == nil {
		t.Error("expected type rejection")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected writes must not create the file")
	}
}

func TestGetConfigValueMissing(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")

	if _, ok, err := GetConfigValue(path, "model"); ok || err != nil {
		t.Errorf("missing file: ok=%v err=%v", ok, err)
	}

	if err := os.WriteFile(path, []byte(`{"model": "x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := GetConfigValue(path, "timeout"); ok || err != nil {
		t.Errorf("missing key: ok=%v err=%v", ok, err)
	}
}

func TestParseKeyPath(t *testing.T) {
	t.Parallel()

	if _, err := ParseKeyPath(""); err == nil {
		t.Error("empty path must fail")
	}
	parts, err := ParseKeyPath("a.b.c")
	if err != nil || len(parts) != 3 {
		t.Errorf("ParseKeyPath(a.b.c) = %v, %v", parts, err)
	}
}
