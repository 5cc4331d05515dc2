// Package progress tests the non-TTY display output paths. Spinner behavior
// needs a real terminal and is left to manual verification.
// Related: internal/progress/display.go
// Tags: progress, display
package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/glintlabs/glint/internal/notify"
)

func newPipedDisplay() (*Display, *bytes.Buffer) {
	d := NewDisplay(TerminalCapabilities{IsTTY: false})
	var buf bytes.Buffer
	d.out = &buf
	return d, &buf
}

func TestStartStepNonTTYPrintsLine(t *testing.T) {
	t.Parallel()
	d, buf := newPipedDisplay()

	err := d.StartStep(StepInfo{Name: "extract", Number: 1, TotalSteps: 2, Attempt: 1, MaxAttempts: 3})
	if err != nil {
		t.Fatalf("StartStep: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "[1/2]") || !strings.Contains(got, "Extract") {
		t.Errorf("output = %q", got)
	}
	if strings.Contains(got, "attempt") {
		t.Error("first attempt must not print an attempt counter")
	}
}

func TestStartStepShowsAttemptCounter(t *testing.T) {
	t.Parallel()
	d, buf := newPipedDisplay()

	if err := d.StartStep(StepInfo{Name: "solve", Number: 2, TotalSteps: 2, Attempt: 2, MaxAttempts: 3}); err != nil {
		t.Fatalf("StartStep: %v", err)
	}

	if !strings.Contains(buf.String(), "(attempt 2/3)") {
		t.Errorf("output = %q, want an attempt counter", buf.String())
	}
}

func TestStartStepRejectsInvalidInfo(t *testing.T) {
	t.Parallel()
	d, _ := newPipedDisplay()

	if err := d.StartStep(StepInfo{}); err == nil {
		t.Error("expected invalid step info to be rejected")
	}
}

func TestCompleteStepUsesAsciiMark(t *testing.T) {
	t.Parallel()
	d, buf := newPipedDisplay()

	if err := d.CompleteStep(StepInfo{Name: "extract", Number: 1, TotalSteps: 2}); err != nil {
		t.Fatalf("CompleteStep: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "[OK]") || !strings.Contains(got, "complete") {
		t.Errorf("output = %q", got)
	}
}

func TestFailStepIncludesError(t *testing.T) {
	t.Parallel()
	d, buf := newPipedDisplay()

	if err := d.FailStep(StepInfo{Name: "solve", Number: 2, TotalSteps: 2}, errors.New("backend down")); err != nil {
		t.Fatalf("FailStep: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "[FAIL]") || !strings.Contains(got, "backend down") {
		t.Errorf("output = %q", got)
	}
}

func TestPublishSeverityRouting(t *testing.T) {
	t.Parallel()
	d, buf := newPipedDisplay()

	d.Publish(notify.NewMessage("retrying in 2s", notify.SeverityWarning))
	d.Publish(notify.NewMessage("gave up", notify.SeverityError))
	d.Publish(notify.NewMessage("chatter", notify.SeverityInfo))

	got := buf.String()
	if !strings.Contains(got, "! retrying in 2s") {
		t.Errorf("warning missing: %q", got)
	}
	if !strings.Contains(got, "gave up") {
		t.Errorf("error missing: %q", got)
	}
	if strings.Contains(got, "chatter") {
		t.Error("info messages must be dropped off-TTY")
	}
}
