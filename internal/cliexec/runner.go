// Package cliexec runs the external backend CLI as a bounded, cancellable
// process. Every invocation spawns exactly one process, captures its output,
// and guarantees termination on every exit path: natural exit, timeout,
// caller cancellation, or launch failure. Failures never cross the package
// boundary as raw errors; they come back classified inside ExecutionResult.
package cliexec

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	apperrors "github.com/glintlabs/glint/internal/errors"
	"github.com/glintlabs/glint/internal/sanitize"
)

const (
	// DefaultTimeout bounds invocations whose Invocation.Timeout is zero.
	DefaultTimeout = 120 * time.Second

	// DefaultGraceWindow is how long a terminated process gets to exit
	// after the graceful signal before it is forcefully killed.
	DefaultGraceWindow = 5 * time.Second
)

// Invocation is one request to run the external program. Created per call,
// immutable, discarded after completion.
type Invocation struct {
	// Program is the binary name or path.
	Program string

	// Args is the ordered argument list. Arguments are sanitized before
	// the process is launched.
	Args []string

	// Stdin is an optional payload piped to the process.
	Stdin string

	// Timeout is the hard runtime bound. Zero means DefaultTimeout.
	Timeout time.Duration
}

// ExecutionResult is produced once per Run call.
type ExecutionResult struct {
	// Success is true only for a natural exit with code 0.
	Success bool

	// Stdout is the captured standard output, trimmed on success.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// ExitCode is the process exit code, or -1 when no code is available
	// (launch failure, signal kill).
	ExitCode int

	// Err carries the classified failure when Success is false.
	Err *apperrors.ClassifiedError

	// Duration is the wall time from launch to completion.
	Duration time.Duration
}

// Runner spawns backend CLI processes.
type Runner struct {
	log   *slog.Logger
	grace time.Duration
}

// NewRunner creates a Runner logging to log. A nil logger is replaced with
// a discard logger.
func NewRunner(log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{log: log, grace: DefaultGraceWindow}
}

// SetGraceWindow overrides the kill grace window. Used by tests to avoid
// waiting the full default on deliberately hung processes.
func (r *Runner) SetGraceWindow(d time.Duration) {
	if d > 0 {
		r.grace = d
	}
}

// Run launches the invocation and blocks until the process completes or is
// terminated. The returned result is never nil and no process is left
// running after Run returns.
//
// Timeout and caller cancellation share the same termination sequence but
// produce distinguishable error codes (COMMAND_TIMEOUT vs ABORTED).
func (r *Runner) Run(ctx context.Context, inv Invocation) *ExecutionResult {
	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	args := sanitize.Args(inv.Args)
	cmd := exec.Command(inv.Program, args...)
	if inv.Stdin != "" {
		cmd.Stdin = strings.NewReader(inv.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.log.Error("backend launch failed", "program", inv.Program, "error", err)
		return &ExecutionResult{
			ExitCode: -1,
			Err:      classifyLaunchError(inv.Program, err),
			Duration: time.Since(start),
		}
	}

	r.log.Debug("backend process started", "program", inv.Program, "pid", cmd.Process.Pid, "timeout", timeout)

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-waitCh:
		return r.finish(inv, err, &stdout, &stderr, start)

	case <-timer.C:
		r.log.Warn("backend timed out, terminating", "program", inv.Program, "timeout", timeout)
		return r.terminated(cmd, waitCh, &stdout, &stderr, apperrors.OperationTimedOut(timeout), start)

	case <-ctx.Done():
		r.log.Info("backend aborted by caller", "program", inv.Program)
		return r.terminated(cmd, waitCh, &stdout, &stderr, apperrors.Aborted(), start)
	}
}

// terminated runs the kill sequence and builds the result for a process that
// was cut short. The output buffers are read only once the wait goroutine has
// confirmed the exit; if the process somehow survives SIGKILL the goroutine
// may still be writing them.
func (r *Runner) terminated(cmd *exec.Cmd, waitCh <-chan error, stdout, stderr *bytes.Buffer, ce *apperrors.ClassifiedError, start time.Time) *ExecutionResult {
	exited := r.terminate(cmd, waitCh)
	result := &ExecutionResult{
		ExitCode: -1,
		Err:      ce,
		Duration: time.Since(start),
	}
	if exited {
		result.Stdout = stdout.String()
		result.Stderr = stderr.String()
	}
	return result
}

// finish builds the result for a naturally exited process.
func (r *Runner) finish(inv Invocation, waitErr error, stdout, stderr *bytes.Buffer, start time.Time) *ExecutionResult {
	result := &ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if waitErr == nil {
		result.Success = true
		result.Stdout = strings.TrimSpace(result.Stdout)
		r.log.Debug("backend completed", "program", inv.Program, "duration", result.Duration)
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}

	combined := strings.TrimSpace(result.Stderr + "\n" + result.Stdout)
	result.Err = apperrors.Classify(combined, result.ExitCode)
	r.log.Warn("backend failed",
		"program", inv.Program,
		"exit_code", result.ExitCode,
		"category", result.Err.Category.String(),
		"duration", result.Duration,
	)
	return result
}

// terminate runs the graceful-then-forceful kill sequence and waits for the
// wait goroutine to observe the exit, so no process outlives Run. It reports
// whether the exit was actually observed.
func (r *Runner) terminate(cmd *exec.Cmd, waitCh <-chan error) bool {
	signalTerm(cmd)
	select {
	case <-waitCh:
		return true
	case <-time.After(r.grace):
	}

	signalKill(cmd)
	select {
	case <-waitCh:
		return true
	case <-time.After(2 * time.Second):
		// The kernel owes us a SIGKILL; don't block the caller further.
		return false
	}
}

// classifyLaunchError maps a Start failure onto the error taxonomy.
func classifyLaunchError(program string, err error) *apperrors.ClassifiedError {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return apperrors.CLINotFound(program).WithCause(err)
	case errors.Is(err, os.ErrPermission):
		return apperrors.NewPermissionError(
			program+" is not executable",
			"Check file permissions on the binary",
			"Reinstall the backend CLI if permissions cannot be fixed",
		).WithCause(err)
	default:
		return apperrors.Classify(err.Error(), 0).WithCause(err)
	}
}
