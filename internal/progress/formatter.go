package progress

import (
	"fmt"
	"strings"
)

// formatStepCounter returns the [N/Total] step counter string.
func formatStepCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildStepMessage constructs the step message with optional attempt info.
func buildStepMessage(step StepInfo, action string) string {
	counter := formatStepCounter(step.Number, step.TotalSteps)
	msg := fmt.Sprintf("%s %s %s", counter, action, capitalize(step.Name))

	if step.Attempt > 1 {
		msg += fmt.Sprintf(" (attempt %d/%d)", step.Attempt, step.MaxAttempts)
	}

	return msg
}

// capitalize returns the string with the first letter capitalized.
func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// checkmark returns the success symbol, colored when supported.
func checkmark(symbols Symbols, supportsColor bool) string {
	mark := symbols.Checkmark
	if supportsColor && symbols.Checkmark == "✓" {
		mark = "\033[32m" + mark + "\033[0m"
	}
	return mark
}

// failureMark returns the failure symbol, colored when supported.
func failureMark(symbols Symbols, supportsColor bool) string {
	mark := symbols.Failure
	if supportsColor && symbols.Failure == "✗" {
		mark = "\033[31m" + mark + "\033[0m"
	}
	return mark
}
