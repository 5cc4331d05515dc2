// Package progress renders terminal progress for inference operations:
// a spinner while an attempt runs, retry counters, and symbol-marked
// completion lines, degrading to plain output on pipes and dumb terminals.
package progress

import "fmt"

// StepStatus represents the execution state of an operation step.
type StepStatus int

const (
	// StepPending indicates the step has not started yet.
	StepPending StepStatus = iota
	// StepInProgress indicates the step is currently running.
	StepInProgress
	// StepCompleted indicates the step finished successfully.
	StepCompleted
	// StepFailed indicates the step failed with an error.
	StepFailed
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepInProgress:
		return "in_progress"
	case StepCompleted:
		return "completed"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepInfo describes one operation step for display purposes.
type StepInfo struct {
	// Name is the human-readable step name (e.g. "extract", "solve").
	Name string
	// Number is the current step number (1-based).
	Number int
	// TotalSteps is the number of steps in the flow.
	TotalSteps int
	// Status is the current execution status.
	Status StepStatus
	// Attempt is the current attempt number (1-based).
	Attempt int
	// MaxAttempts is the attempt bound for the step.
	MaxAttempts int
}

// Validate checks the StepInfo fields for display sanity.
func (s StepInfo) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("step name cannot be empty")
	}
	if s.Number <= 0 {
		return fmt.Errorf("step number must be > 0")
	}
	if s.TotalSteps <= 0 {
		return fmt.Errorf("total steps must be > 0")
	}
	if s.Number > s.TotalSteps {
		return fmt.Errorf("step number cannot exceed total steps")
	}
	if s.Attempt < 0 || s.MaxAttempts < 0 {
		return fmt.Errorf("attempt counters cannot be negative")
	}
	return nil
}

// TerminalCapabilities encapsulates detected terminal features.
type TerminalCapabilities struct {
	// IsTTY indicates whether stdout is a terminal (vs pipe/redirect).
	IsTTY bool
	// SupportsColor indicates whether the terminal accepts ANSI color codes.
	SupportsColor bool
	// SupportsUnicode indicates whether the terminal renders Unicode.
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe).
	Width int
}

// Symbols defines the character set for visual indicators.
type Symbols struct {
	// Checkmark is the success indicator ("✓" or "[OK]").
	Checkmark string
	// Failure is the failure indicator ("✗" or "[FAIL]").
	Failure string
	// SpinnerSet is the index into spinner.CharSets.
	SpinnerSet int
}
