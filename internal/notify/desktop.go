package notify

import (
	"context"
	"os"
	"time"

	"golang.org/x/term"
)

// dispatchTimeout bounds one desktop notification attempt. The helper tools
// (osascript, notify-send, powershell) occasionally hang; the engine must
// not wait on them.
const dispatchTimeout = 5 * time.Second

// DesktopSink surfaces terminal failures as OS notifications. Only
// SeverityError messages are forwarded: a popup per retry would be noise.
// The sink disables itself in CI and non-interactive sessions.
type DesktopSink struct {
	title   string
	sender  sender
	enabled bool
}

// NewDesktopSink creates a DesktopSink titled with the application name.
func NewDesktopSink(title string) *DesktopSink {
	return &DesktopSink{
		title:   title,
		sender:  newSender(),
		enabled: !isCI() && isInteractive(),
	}
}

func (s *DesktopSink) Publish(m Message) {
	if !s.enabled || m.Severity != SeverityError || !s.sender.available() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.sender.send(s.title, m.Text)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// isCI reports whether a CI environment variable is set. Desktop popups in
// CI are never wanted.
func isCI() bool {
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"DRONE",
		"TF_BUILD",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive checks stdout first because stdin is often piped while
// stdout remains a terminal, then falls back to stderr and stdin.
func isInteractive() bool {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return true
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return true
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
