package cli

import (
	"fmt"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

// Exit codes for the glint CLI. They support scripting and the desktop
// bridge's failure handling.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitFailure indicates a classified operation failure.
	ExitFailure = 1

	// ExitBreakerOpen indicates the circuit breaker rejected the call.
	ExitBreakerOpen = 3

	// ExitNotReady indicates the backend is not installed or not
	// authenticated.
	ExitNotReady = 4

	// ExitTimeout indicates the operation or its retry budget timed out.
	ExitTimeout = 5
)

// exitError carries an explicit exit code through RunE.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates an error carrying the given exit code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode maps an error onto the CLI exit code contract.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if e, ok := err.(*exitError); ok {
		return e.code
	}
	if ce := apperrors.AsClassified(err); ce != nil {
		switch {
		case ce.Code == "CIRCUIT_OPEN":
			return ExitBreakerOpen
		case ce.Category == apperrors.Installation || ce.Category == apperrors.Authentication:
			return ExitNotReady
		case ce.Category == apperrors.Timeout:
			return ExitTimeout
		}
	}
	return ExitFailure
}
