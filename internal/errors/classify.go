package errors

import (
	"fmt"
	"strings"
)

// Shell-convention exit codes the classifier recognizes.
const (
	exitNotExecutable = 126
	exitNotFound      = 127
	exitSignalBase    = 128
)

// Classify derives a ClassifiedError from raw process output and exit code.
// The mapping is deterministic: the same text and code always produce the
// same category, code, and retryable flag. Pattern groups are checked in
// priority order; the first match wins.
func Classify(output string, exitCode int) *ClassifiedError {
	text := strings.ToLower(output)

	switch {
	case containsAny(text, installationPhrases) || exitCode == exitNotFound:
		ce := NewInstallationError(
			"the backend CLI is not installed or not on PATH",
			"Install the CLI tool and verify it with --version",
			"Check that the install directory is on your PATH",
		)
		ce.HelpURL = "https://docs.anthropic.com/claude-code"
		return withDetail(ce, output)

	case containsAny(text, authenticationPhrases):
		ce := NewAuthenticationError(
			"the backend CLI rejected the session credentials",
			"Run the CLI once interactively to log in",
			"Or export the provider API key environment variable",
		)
		return withDetail(ce, output)

	case containsAny(text, permissionPhrases) || exitCode == exitNotExecutable:
		ce := NewPermissionError(
			"the operating system denied the operation",
			"Check file and directory permissions for the CLI binary",
			"Verify the binary is executable",
		)
		return withDetail(ce, output)

	case containsAny(text, rateLimitPhrases):
		ce := NewQuotaError(
			"the backend is rate limiting requests",
			"Wait a moment before retrying",
			"Reduce request frequency",
		)
		ce.Code = "RATE_LIMITED"
		ce.Retryable = true
		return withDetail(ce, output)

	case containsAny(text, quotaPhrases):
		ce := NewQuotaError(
			"the account usage limit has been reached",
			"Check your plan and billing status",
			"Wait for the quota window to reset",
		)
		return withDetail(ce, output)

	case containsAny(text, networkPhrases):
		ce := NewNetworkError(
			"a network failure interrupted the backend call",
			"Check your internet connection",
			"Retry once connectivity is restored",
		)
		return withDetail(ce, output)

	case containsAny(text, timeoutPhrases):
		ce := NewTimeoutError(
			"the backend did not respond in time",
			"Retry the operation",
			"Increase the timeout in the configuration",
		)
		return withDetail(ce, output)

	// Go reports -1 for a signal-terminated process; shells report 128+signal.
	case exitCode == -1 || exitCode > exitSignalBase:
		ce := NewExecutionError(
			"the backend process was killed before completing",
			"Retry the operation",
			"Check system resources (memory, file handles)",
		)
		ce.Code = "CLI_CRASHED"
		ce.Severity = Critical
		return withDetail(ce, output)

	case exitCode != 0:
		ce := NewExecutionError(
			fmt.Sprintf("the backend process exited with code %d", exitCode),
			"Retry the operation",
			"Run `glint doctor` if the failure persists",
		)
		return withDetail(ce, output)

	default:
		return withDetail(NewUnknownError(
			"the backend failed for an unrecognized reason",
			"Retry the operation",
			"Run `glint doctor` to check the backend state",
		), output)
	}
}

// withDetail appends a trimmed single-line excerpt of the raw output to the
// message so the category label never loses the original evidence.
func withDetail(ce *ClassifiedError, output string) *ClassifiedError {
	detail := firstLine(strings.TrimSpace(output))
	if detail != "" && detail != ce.Message {
		ce.Message = fmt.Sprintf("%s: %s", ce.Message, detail)
	}
	return ce
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	const maxDetail = 200
	if len(s) > maxDetail {
		s = s[:maxDetail] + "..."
	}
	return s
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Phrase groups are matched against lowercased output. Order within a group
// does not matter; group priority is fixed by the switch in Classify.
var (
	installationPhrases = []string{
		"command not found",
		"is not recognized as an internal or external command",
		"no such file or directory",
		"executable file not found",
		"not installed",
	}

	authenticationPhrases = []string{
		"not logged in",
		"please log in",
		"please login",
		"unauthorized",
		"invalid api key",
		"authentication failed",
		"authentication_error",
		"invalid bearer token",
		"credentials",
		"401",
	}

	permissionPhrases = []string{
		"permission denied",
		"access denied",
		"operation not permitted",
		"eacces",
	}

	rateLimitPhrases = []string{
		"rate limit",
		"rate_limit",
		"too many requests",
		"429",
		"overloaded",
	}

	quotaPhrases = []string{
		"quota exceeded",
		"usage limit",
		"insufficient_quota",
		"billing",
	}

	networkPhrases = []string{
		"network",
		"connection refused",
		"connection reset",
		"no such host",
		"dial tcp",
		"econnrefused",
		"econnreset",
		"socket hang up",
		"getaddrinfo",
		"tls handshake",
	}

	timeoutPhrases = []string{
		"timed out",
		"timeout",
		"deadline exceeded",
		"etimedout",
	}
)
