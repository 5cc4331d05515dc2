// Package extract tests best-effort recovery from undecodable output.
// Related: internal/extract/recover.go
// Tags: extract, recovery, heuristics
package extract

import (
	"strings"
	"testing"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

func TestRecoverLongTextBecomesFreeText(t *testing.T) {
	t.Parallel()

	raw := "> The answer is to use a two-pointer sweep over the sorted input.\n\n\n\n- it runs in O(n log n)"
	data, err := Recover(raw, apperrors.NoStructuredData(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !data.Recovered {
		t.Error("recovered flag must be set")
	}
	if data.Kind != KindText {
		t.Errorf("expected KindText, got %v", data.Kind)
	}
	if strings.HasPrefix(data.Text, ">") {
		t.Errorf("prompt chrome not stripped: %q", data.Text)
	}
	if strings.Contains(data.Text, "\n\n\n") {
		t.Errorf("blank-line runs not collapsed: %q", data.Text)
	}
}

func TestRecoverNeverFabricatesFromShortInput(t *testing.T) {
	t.Parallel()

	// Everything under 10 characters after cleaning must fail.
	shorts := []string{"", "ok", "> $ #", "\x1b[32mhi\x1b[0m", "12345678"}
	for _, raw := range shorts {
		if data, err := Recover(raw, apperrors.NoStructuredData("")); err == nil {
			t.Errorf("Recover(%q) fabricated content: %+v", raw, data)
		}
	}
}

func TestRecoverErrorLine(t *testing.T) {
	t.Parallel()

	// Short enough that the free-text stage passes it by.
	_, err := Recover("error: ng", apperrors.NoStructuredData(""))
	if err == nil {
		t.Fatal("expected failure")
	}
	if err.Code != "CLI_REPORTED_ERROR" {
		t.Errorf("expected CLI_REPORTED_ERROR, got %q", err.Code)
	}
	if !strings.Contains(err.Message, "ng") {
		t.Errorf("error message lost: %q", err.Message)
	}
}

func TestRecoverAuthAndInstallMarkers(t *testing.T) {
	t.Parallel()

	if _, err := Recover("401", apperrors.NoStructuredData("")); err == nil || err.Category != apperrors.Authentication {
		t.Errorf("expected Authentication, got %+v", err)
	}
	if _, err := Recover("enoent", apperrors.NoStructuredData("")); err == nil || err.Category != apperrors.Installation {
		t.Errorf("expected Installation, got %+v", err)
	}
	if _, err := Recover("??", apperrors.NoStructuredData("")); err == nil || err.Category != apperrors.Response {
		t.Errorf("short unmatched input should return the original error, got %+v", err)
	}
}

func TestRecoverAugmentsOriginalError(t *testing.T) {
	t.Parallel()

	orig := apperrors.NewResponseError("decode failed")
	_, err := Recover("???", orig)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Message, "decode failed") {
		t.Errorf("original message lost: %q", err.Message)
	}
	if !strings.Contains(err.Message, "???") {
		t.Errorf("preview missing: %q", err.Message)
	}
	if orig.Message != "decode failed" {
		t.Errorf("original error was mutated: %q", orig.Message)
	}
}
