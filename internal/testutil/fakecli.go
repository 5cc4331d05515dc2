package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// Script configures a fake backend CLI written as an executable shell
// script. Tests use it to stand in for the real external tool so process
// spawning, timeouts, and retry behavior can be exercised hermetically.
type Script struct {
	// Stdout is printed to standard output on a successful run.
	Stdout string

	// Stderr is printed to standard error on a successful run.
	Stderr string

	// ExitCode is the exit code for a successful run (after any
	// configured failures have been consumed).
	ExitCode int

	// Sleep delays the script before producing output, for timeout and
	// cancellation tests.
	Sleep time.Duration

	// FailuresBeforeSuccess makes the first N invocations exit with
	// FailExitCode and FailStderr, then fall through to the success
	// behavior. State is kept in a counter file next to the script.
	FailuresBeforeSuccess int

	// FailStderr is the stderr text emitted during a configured failure.
	FailStderr string

	// FailExitCode is the exit code for configured failures (default 1).
	FailExitCode int

	// EchoStdin copies the script's stdin to stdout before Stdout is
	// printed, for verifying piped payloads.
	EchoStdin bool

	// IgnoreTerm makes the script ignore SIGTERM so only SIGKILL ends it.
	// Sleep then runs as a re-entrant wait loop: a group-wide SIGTERM kills
	// the current sleep child, but the script keeps going.
	IgnoreTerm bool
}

// WriteScript writes the fake CLI into t's temp dir and returns its path.
// Skips the test on Windows; the scripts are POSIX shell.
func WriteScript(t *testing.T, s Script) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake CLI scripts require a POSIX shell")
	}

	if s.FailExitCode == 0 {
		s.FailExitCode = 1
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if s.IgnoreTerm {
		b.WriteString("trap '' TERM\n")
	}
	b.WriteString(`count_file="$0.count"` + "\n")
	b.WriteString(`count=$(cat "$count_file" 2>/dev/null || echo 0)` + "\n")
	b.WriteString("count=$((count + 1))\n")
	b.WriteString(`echo "$count" > "$count_file"` + "\n")

	if s.FailuresBeforeSuccess > 0 {
		fmt.Fprintf(&b, "if [ \"$count\" -le %d ]; then\n", s.FailuresBeforeSuccess)
		writeHeredoc(&b, "  ", s.FailStderr, true)
		fmt.Fprintf(&b, "  exit %d\n", s.FailExitCode)
		b.WriteString("fi\n")
	}

	if s.Sleep > 0 {
		if s.IgnoreTerm {
			fmt.Fprintf(&b, "deadline=$(( $(date +%%s) + %d ))\n", int(s.Sleep.Seconds())+1)
			b.WriteString(`while [ "$(date +%s)" -lt "$deadline" ]; do sleep 0.05; done` + "\n")
		} else {
			fmt.Fprintf(&b, "sleep %.3f\n", s.Sleep.Seconds())
		}
	}
	if s.EchoStdin {
		b.WriteString("cat -\n")
	}
	writeHeredoc(&b, "", s.Stdout, false)
	writeHeredoc(&b, "", s.Stderr, true)
	fmt.Fprintf(&b, "exit %d\n", s.ExitCode)

	path := filepath.Join(t.TempDir(), "fake-cli")
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("writing fake CLI script: %v", err)
	}
	return path
}

// ScriptCallCount returns how many times a WriteScript script has been
// invoked. A script that was never run counts zero.
func ScriptCallCount(t *testing.T, scriptPath string) int {
	t.Helper()

	data, err := os.ReadFile(scriptPath + ".count")
	if err != nil {
		return 0
	}
	n := 0
	fmt.Sscanf(strings.TrimSpace(string(data)), "%d", &n)
	return n
}

// writeHeredoc emits `cat <<'EOF'` so the payload is passed through without
// shell expansion. A quoted delimiter keeps $, backticks, and quotes intact.
func writeHeredoc(b *strings.Builder, indent, payload string, toStderr bool) {
	if payload == "" {
		return
	}
	redirect := ""
	if toStderr {
		redirect = " >&2"
	}
	fmt.Fprintf(b, "%scat <<'GLINT_FAKE_EOF'%s\n%s\nGLINT_FAKE_EOF\n", indent, redirect, payload)
}
