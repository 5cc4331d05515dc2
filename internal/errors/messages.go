package errors

import (
	"fmt"
	"time"
)

// Canned errors for situations the engine detects itself rather than
// classifying from process output. Keeping them here gives every caller the
// same wording and remediation order.

// CLINotFound reports that the backend binary is missing from PATH.
func CLINotFound(cmd string) *ClassifiedError {
	ce := NewInstallationError(
		fmt.Sprintf("%s CLI not found in PATH", cmd),
		fmt.Sprintf("Install the %s CLI", cmd),
		"Verify the install location is on your PATH",
		"Run `glint doctor` to re-check",
	)
	ce.HelpURL = "https://docs.anthropic.com/claude-code"
	return ce
}

// NotAuthenticated reports that no usable credentials were detected.
func NotAuthenticated(cmd string) *ClassifiedError {
	return NewAuthenticationError(
		fmt.Sprintf("%s CLI is installed but not authenticated", cmd),
		fmt.Sprintf("Run `%s` once interactively to log in", cmd),
		"Or set the provider API key environment variable",
	)
}

// VersionIncompatible reports a backend CLI version below the configured minimum.
func VersionIncompatible(got, want string) *ClassifiedError {
	return NewInstallationError(
		fmt.Sprintf("backend CLI version %s is below the required %s", got, want),
		"Update the backend CLI to the latest release",
	)
}

// BreakerOpen reports that the circuit breaker is rejecting calls.
// remaining is the estimated cooldown left before a probe is allowed.
func BreakerOpen(remaining time.Duration) *ClassifiedError {
	ce := NewExecutionError(
		fmt.Sprintf("the backend is temporarily unavailable (retry in %s)", remaining.Round(time.Second)),
		"Wait for the cooldown to elapse",
		"Run `glint doctor` to check the backend state",
	)
	ce.Code = "CIRCUIT_OPEN"
	ce.Severity = High
	ce.Retryable = false
	return ce
}

// Aborted reports cooperative cancellation by the caller. Distinct from
// OperationTimedOut: both terminate the process the same way, but callers
// need to tell a user abort apart from a deadline.
func Aborted() *ClassifiedError {
	ce := NewExecutionError("operation aborted by caller")
	ce.Code = "ABORTED"
	ce.Retryable = false
	return ce
}

// OperationTimedOut reports that an invocation exceeded its timeout.
func OperationTimedOut(timeout time.Duration) *ClassifiedError {
	ce := NewTimeoutError(
		fmt.Sprintf("the backend did not finish within %s", timeout),
		"Retry the operation",
		"Increase the timeout in the configuration",
	)
	ce.Code = "COMMAND_TIMEOUT"
	return ce
}

// RetryBudgetExhausted reports that cumulative backoff crossed the session
// budget; classified as a timeout per the engine's retry policy.
func RetryBudgetExhausted(budget time.Duration) *ClassifiedError {
	ce := NewTimeoutError(
		fmt.Sprintf("retries abandoned after exceeding the %s session budget", budget),
		"Check the backend state with `glint doctor`",
		"Try again once the underlying failure clears",
	)
	ce.Code = "RETRY_BUDGET_EXHAUSTED"
	ce.Retryable = false
	return ce
}

// NoStructuredData reports output in which no decodable payload was found.
// preview should already be truncated by the caller.
func NoStructuredData(preview string) *ClassifiedError {
	ce := NewResponseError(
		"no valid structured data found in the backend output",
		"Retry the operation",
		"Check the backend model configuration",
	)
	ce.Code = "NO_STRUCTURED_DATA"
	if preview != "" {
		ce.Message = fmt.Sprintf("%s (output began: %q)", ce.Message, preview)
	}
	return ce
}

// EmptyResponse reports a successful exit that produced no usable output.
func EmptyResponse() *ClassifiedError {
	ce := NewResponseError(
		"the backend returned an empty response",
		"Retry the operation",
	)
	ce.Code = "EMPTY_RESPONSE"
	return ce
}

// ModelUnavailable reports a requested model absent from the backend's list.
func ModelUnavailable(model string) *ClassifiedError {
	return NewExecutionError(
		fmt.Sprintf("model %q is not available on this backend", model),
		"Run `glint models` to list available models",
		"Pick an available model in the configuration",
	)
}
