// Package errors tests terminal rendering of classified errors.
// Related: internal/errors/format.go
// Tags: errors, formatting, terminal
package errors

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	err := NewNetworkError(
		"network connection failed",
		"Check your internet connection",
		"Retry the operation",
	)

	out := FormatError(err)

	if !strings.Contains(out, "Network Error") {
		t.Error("expected category label in output")
	}
	if !strings.Contains(out, "network connection failed") {
		t.Error("expected message in output")
	}
	if !strings.Contains(out, "To fix this:") {
		t.Error("expected remediation header")
	}
	if !strings.Contains(out, "1. Check your internet connection") {
		t.Error("expected numbered remediation steps")
	}
	if !strings.Contains(out, "2. Retry the operation") {
		t.Error("expected second remediation step")
	}
}

func TestFormatErrorNil(t *testing.T) {
	if got := FormatError(nil); got != "" {
		t.Errorf("nil error must render empty, got %q", got)
	}
	if got := FormatErrorPlain(nil); got != "" {
		t.Errorf("nil error must render empty, got %q", got)
	}
}

func TestFormatErrorPlainHasNoEscapes(t *testing.T) {
	err := CLINotFound("claude")

	out := FormatErrorPlain(err)

	if strings.Contains(out, "\x1b[") {
		t.Error("plain rendering must not contain ANSI escapes")
	}
	if !strings.Contains(out, "See: "+err.HelpURL) {
		t.Error("expected help URL line")
	}
}

func TestFormatErrorOmitsEmptySections(t *testing.T) {
	err := NewExecutionError("plain failure")
	err.Remediation = nil

	out := FormatErrorPlain(err)

	if strings.Contains(out, "To fix this:") {
		t.Error("remediation header must be omitted when there are no steps")
	}
	if strings.Contains(out, "See:") {
		t.Error("help line must be omitted when there is no URL")
	}
}

func TestFprintError(t *testing.T) {
	var buf bytes.Buffer

	FprintError(&buf, NewQuotaError("usage limit reached"))
	if !strings.Contains(buf.String(), "usage limit reached") {
		t.Error("expected error text written to the writer")
	}

	buf.Reset()
	FprintError(&buf, nil)
	if buf.Len() != 0 {
		t.Error("nil error must write nothing")
	}
}
