// Package notify carries one-way progress messages out of the engine: retry
// announcements, final-failure reports, readiness changes. Messages are
// fire-and-forget; a slow or broken sink must never block or fail the
// operation that produced them.
package notify

import "time"

// Severity tags a message for the consuming sink.
type Severity string

const (
	// SeverityInfo is routine progress (attempt started, retry scheduled).
	SeverityInfo Severity = "info"
	// SeverityWarning is a recoverable problem (attempt failed, retrying).
	SeverityWarning Severity = "warning"
	// SeverityError is a terminal failure for the operation.
	SeverityError Severity = "error"
)

// Message is one progress event. No acknowledgment travels back.
type Message struct {
	Text      string
	Severity  Severity
	Timestamp time.Time
}

// NewMessage stamps a message with the current time.
func NewMessage(text string, severity Severity) Message {
	return Message{Text: text, Severity: severity, Timestamp: time.Now()}
}

// Sink receives messages. Implementations must return quickly and swallow
// their own errors; Publish has no error return on purpose.
type Sink interface {
	Publish(m Message)
}
