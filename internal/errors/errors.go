// Package errors provides the classified error model shared by every layer
// of the inference engine. Failures from process execution, response parsing,
// hosted APIs, and readiness probes are all normalized into a ClassifiedError
// carrying a category, severity, stable code, and ordered remediation steps,
// so callers never see a raw exit code or stack trace.
package errors

import (
	"errors"
	"fmt"
)

// Category classifies a failure by its origin.
type Category int

const (
	// Installation indicates the external tool is missing or broken.
	Installation Category = iota
	// Authentication indicates missing or rejected credentials.
	Authentication
	// Execution indicates the process ran but failed.
	Execution
	// Response indicates output that could not be interpreted.
	Response
	// Timeout indicates an operation exceeded its time limit.
	Timeout
	// Network indicates a connectivity failure.
	Network
	// Permission indicates the OS denied an action.
	Permission
	// Quota indicates a rate or usage limit was hit.
	Quota
	// Unknown is the fallback category.
	Unknown
)

// String returns the human-readable display label for the category.
func (c Category) String() string {
	switch c {
	case Installation:
		return "Installation Error"
	case Authentication:
		return "Authentication Error"
	case Execution:
		return "Execution Error"
	case Response:
		return "Response Error"
	case Timeout:
		return "Timeout Error"
	case Network:
		return "Network Error"
	case Permission:
		return "Permission Error"
	case Quota:
		return "Quota Error"
	default:
		return "Error"
	}
}

// Severity grades how damaging a failure is to the session.
type Severity int

const (
	// Critical failures make the backend unusable (counted by the breaker).
	Critical Severity = iota
	// High failures block the current operation.
	High
	// Medium failures are recoverable within the operation.
	Medium
	// Low failures are informational.
	Low
)

// String returns the lowercase severity label.
func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "unknown"
	}
}

// ClassifiedError is a structured failure with remediation guidance.
// It is immutable by convention: derive a new value instead of mutating one
// that has already been returned.
type ClassifiedError struct {
	// Category is the failure origin class.
	Category Category

	// Severity grades the impact.
	Severity Severity

	// Code is a stable machine-readable identifier (e.g. "CLI_NOT_INSTALLED").
	Code string

	// Message is the short human-readable description.
	Message string

	// Remediation holds ordered, concrete steps the user can take.
	Remediation []string

	// Retryable reports whether the retry orchestrator may attempt again.
	Retryable bool

	// HelpURL optionally points at documentation for this failure.
	HelpURL string

	cause error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// WithCause returns a copy of the error carrying cause for errors.Is/As chains.
func (e *ClassifiedError) WithCause(cause error) *ClassifiedError {
	c := *e
	c.cause = cause
	return &c
}

// defaultsFor returns the severity, code, and retryable flag conventions for
// a category. Constructors apply these; callers may override fields after.
func defaultsFor(c Category) (Severity, string, bool) {
	switch c {
	case Installation:
		return Critical, "CLI_NOT_INSTALLED", false
	case Authentication:
		return Critical, "AUTH_FAILED", false
	case Execution:
		return Medium, "EXECUTION_FAILED", true
	case Response:
		return Medium, "RESPONSE_INVALID", true
	case Timeout:
		return High, "TIMEOUT", true
	case Network:
		return High, "NETWORK_ERROR", true
	case Permission:
		return High, "PERMISSION_DENIED", false
	case Quota:
		return High, "QUOTA_EXCEEDED", false
	default:
		return Medium, "UNKNOWN_ERROR", true
	}
}

// New creates a ClassifiedError for the given category with its default
// severity, code, and retryable flag.
func New(category Category, message string, remediation ...string) *ClassifiedError {
	sev, code, retryable := defaultsFor(category)
	return &ClassifiedError{
		Category:    category,
		Severity:    sev,
		Code:        code,
		Message:     message,
		Remediation: remediation,
		Retryable:   retryable,
	}
}

// NewInstallationError creates an installation-category error.
func NewInstallationError(message string, remediation ...string) *ClassifiedError {
	return New(Installation, message, remediation...)
}

// NewAuthenticationError creates an authentication-category error.
func NewAuthenticationError(message string, remediation ...string) *ClassifiedError {
	return New(Authentication, message, remediation...)
}

// NewExecutionError creates an execution-category error.
func NewExecutionError(message string, remediation ...string) *ClassifiedError {
	return New(Execution, message, remediation...)
}

// NewResponseError creates a response-category error.
func NewResponseError(message string, remediation ...string) *ClassifiedError {
	return New(Response, message, remediation...)
}

// NewTimeoutError creates a timeout-category error.
func NewTimeoutError(message string, remediation ...string) *ClassifiedError {
	return New(Timeout, message, remediation...)
}

// NewNetworkError creates a network-category error.
func NewNetworkError(message string, remediation ...string) *ClassifiedError {
	return New(Network, message, remediation...)
}

// NewPermissionError creates a permission-category error.
func NewPermissionError(message string, remediation ...string) *ClassifiedError {
	return New(Permission, message, remediation...)
}

// NewQuotaError creates a quota-category error.
func NewQuotaError(message string, remediation ...string) *ClassifiedError {
	return New(Quota, message, remediation...)
}

// NewUnknownError creates an unknown-category error.
func NewUnknownError(message string, remediation ...string) *ClassifiedError {
	return New(Unknown, message, remediation...)
}

// Wrap converts any error into a ClassifiedError of the given category,
// preserving the original as the cause. Returns nil for a nil error.
// If err is already classified it is returned unchanged except for any
// additional remediation steps.
func Wrap(err error, category Category, remediation ...string) *ClassifiedError {
	if err == nil {
		return nil
	}
	if ce := AsClassified(err); ce != nil {
		if len(remediation) == 0 {
			return ce
		}
		c := *ce
		c.Remediation = append(append([]string{}, ce.Remediation...), remediation...)
		return &c
	}
	wrapped := New(category, err.Error(), remediation...)
	wrapped.cause = err
	return wrapped
}

// WrapWithMessage wraps err with an outer message ("outer: inner") under the
// given category. Remediation steps from an already-classified inner error are
// carried over. Returns nil for a nil error.
func WrapWithMessage(err error, category Category, message string) *ClassifiedError {
	if err == nil {
		return nil
	}
	wrapped := New(category, fmt.Sprintf("%s: %s", message, err.Error()))
	wrapped.cause = err
	if ce := AsClassified(err); ce != nil {
		wrapped.Remediation = append([]string{}, ce.Remediation...)
		wrapped.HelpURL = ce.HelpURL
	}
	return wrapped
}

// IsClassified reports whether err is (or wraps) a ClassifiedError.
func IsClassified(err error) bool {
	var ce *ClassifiedError
	return errors.As(err, &ce)
}

// AsClassified extracts the ClassifiedError from err, or nil.
func AsClassified(err error) *ClassifiedError {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}
