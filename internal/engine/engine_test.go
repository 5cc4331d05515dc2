// Package engine tests the full retry session: gating, sequential attempts,
// backoff, budget, and cancellation, driven against real fake-CLI processes.
// Related: internal/engine/engine.go
// Tags: engine, retry, backoff, breaker, readiness
package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glintlabs/glint/internal/breaker"
	"github.com/glintlabs/glint/internal/cliexec"
	apperrors "github.com/glintlabs/glint/internal/errors"
	"github.com/glintlabs/glint/internal/logging"
	"github.com/glintlabs/glint/internal/notify"
	"github.com/glintlabs/glint/internal/readiness"
	"github.com/glintlabs/glint/internal/testutil"
)

// sleepRecorder replaces the backoff sleep with an instant one that records
// every requested delay.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return true
}

// readyStub satisfies ReadinessSource with a fixed snapshot.
type readyStub struct {
	snap readiness.Snapshot
}

func (r readyStub) Current(context.Context) readiness.Snapshot { return r.snap }

func okReadiness() readyStub {
	return readyStub{snap: readiness.Snapshot{Installed: true, Authenticated: true}}
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *sleepRecorder) {
	t.Helper()
	if cfg.Log == nil {
		cfg.Log = logging.NewNop()
	}
	e := New(cfg)
	rec := &sleepRecorder{}
	e.sleep = rec.sleep
	e.jitter = func() float64 { return 0 }
	return e, rec
}

func invocation(program string) InvocationBuilder {
	return func(int) cliexec.Invocation {
		return cliexec.Invocation{Program: program, Timeout: 10 * time.Second}
	}
}

func TestSucceedsOnFirstAttempt(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{
		Stdout: `{"problem_statement":"Find max","constraints":"n>0"}`,
	})
	e, rec := newTestEngine(t, Config{Readiness: okReadiness()})

	res := e.ExecuteWithRetry(context.Background(), invocation(script))

	require.True(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	assert.Contains(t, res.Stdout, "Find max")
	assert.Empty(t, rec.delays, "no backoff on first-attempt success")
	assert.Equal(t, breaker.Closed, e.breaker.Stats().State)
}

func TestRetriesTransientFailuresThenSucceeds(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{
		Stdout:                `{"status":"ok"}`,
		FailuresBeforeSuccess: 2,
		FailStderr:            "network connection failed",
		FailExitCode:          1,
	})
	e, rec := newTestEngine(t, Config{MaxAttempts: 3, Readiness: okReadiness()})

	res := e.ExecuteWithRetry(context.Background(), invocation(script))

	require.True(t, res.Success)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, testutil.ScriptCallCount(t, script))

	// Network tier doubles from 2s; jitter is pinned to zero.
	require.Len(t, rec.delays, 2)
	assert.Equal(t, 2*time.Second, rec.delays[0])
	assert.Equal(t, 4*time.Second, rec.delays[1])

	// Success wipes the failure streak.
	assert.Equal(t, 0, e.breaker.Stats().Failures)
}

func TestTimeoutIsClassifiedAndRetryable(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{
		Sleep:  5 * time.Second,
		Stdout: "never printed",
	})
	e, _ := newTestEngine(t, Config{MaxAttempts: 1, Readiness: okReadiness()})

	start := time.Now()
	res := e.ExecuteWithRetry(context.Background(), func(int) cliexec.Invocation {
		return cliexec.Invocation{Program: script, Timeout: 100 * time.Millisecond}
	})

	require.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Equal(t, "COMMAND_TIMEOUT", res.Err.Code)
	assert.Less(t, time.Since(start), 3*time.Second, "timeout must not wait for the full sleep")
}

func TestOpenBreakerFailsFastWithoutSpawning(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{Stdout: "ok"})
	br := breaker.New(5, time.Minute)
	for i := 0; i < 5; i++ {
		br.RecordFailure(apperrors.NewNetworkError("network connection failed"))
	}
	e, _ := newTestEngine(t, Config{Breaker: br, Readiness: okReadiness()})

	res := e.ExecuteWithRetry(context.Background(), invocation(script))

	require.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Equal(t, "CIRCUIT_OPEN", res.Err.Code)
	assert.Equal(t, 0, res.Attempts)
	assert.Equal(t, 0, testutil.ScriptCallCount(t, script), "no process may be spawned while open")
}

func TestNotReadyFailsFastWithoutSpawning(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{Stdout: "ok"})
	notReady := readyStub{snap: readiness.Snapshot{Err: apperrors.CLINotFound("claude")}}
	e, _ := newTestEngine(t, Config{Readiness: notReady})

	res := e.ExecuteWithRetry(context.Background(), invocation(script))

	require.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Equal(t, apperrors.Installation, res.Err.Category)
	assert.Equal(t, 0, testutil.ScriptCallCount(t, script))
}

func TestNonRetryableErrorStopsImmediately(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{
		Stderr:   "invalid api key",
		ExitCode: 1,
	})
	e, rec := newTestEngine(t, Config{MaxAttempts: 3, Readiness: okReadiness()})

	res := e.ExecuteWithRetry(context.Background(), invocation(script))

	require.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Equal(t, apperrors.Authentication, res.Err.Category)
	assert.Equal(t, 1, res.Attempts, "non-retryable failures must not be retried")
	assert.Empty(t, rec.delays)
	assert.Equal(t, 1, e.breaker.Stats().Failures, "auth failures count toward the breaker")
}

func TestRetryBudgetExhausted(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{
		Stderr:   "network connection failed",
		ExitCode: 1,
	})
	// The first network backoff (2s) already exceeds a 1s budget.
	e, rec := newTestEngine(t, Config{
		MaxAttempts: 5,
		Budget:      time.Second,
		Readiness:   okReadiness(),
	})

	res := e.ExecuteWithRetry(context.Background(), invocation(script))

	require.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Equal(t, "RETRY_BUDGET_EXHAUSTED", res.Err.Code)
	assert.Equal(t, apperrors.Timeout, res.Err.Category)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, rec.delays, "the budget check precedes the sleep")
}

func TestCancellationAbortsBackoffSleep(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{
		Stderr:   "network connection failed",
		ExitCode: 1,
	})
	e, _ := newTestEngine(t, Config{MaxAttempts: 3, Readiness: okReadiness()})
	e.sleep = sleepCtx // real abortable sleep

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := e.ExecuteWithRetry(ctx, invocation(script))

	require.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Equal(t, "ABORTED", res.Err.Code)
	assert.Equal(t, 1, res.Attempts, "no attempt may start after cancellation")
	assert.Less(t, time.Since(start), 2*time.Second, "cancellation must cut the backoff short")
}

func TestProgressMessagesOnRetryAndFinalFailure(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{
		Stderr:   "network connection failed",
		ExitCode: 1,
	})
	sink := notify.NewChannelSink(8)
	e, _ := newTestEngine(t, Config{MaxAttempts: 2, Sink: sink, Readiness: okReadiness()})

	res := e.ExecuteWithRetry(context.Background(), invocation(script))
	require.False(t, res.Success)

	var got []notify.Message
	for len(sink.Messages()) > 0 {
		got = append(got, <-sink.Messages())
	}
	require.Len(t, got, 2)
	assert.Equal(t, notify.SeverityWarning, got[0].Severity, "retry announcement")
	assert.Contains(t, got[0].Text, "retrying in")
	assert.Equal(t, notify.SeverityError, got[1].Severity, "final failure report")
	assert.Contains(t, got[1].Text, "after 2 attempt(s)")
	assert.False(t, got[1].Timestamp.IsZero())
}

func TestBuilderReceivesAttemptNumber(t *testing.T) {
	script := testutil.WriteScript(t, testutil.Script{
		Stdout:                "ok",
		FailuresBeforeSuccess: 1,
		FailStderr:            "network connection failed",
		FailExitCode:          1,
	})
	e, _ := newTestEngine(t, Config{MaxAttempts: 2, Readiness: okReadiness()})

	var attempts []int
	res := e.ExecuteWithRetry(context.Background(), func(attempt int) cliexec.Invocation {
		attempts = append(attempts, attempt)
		return cliexec.Invocation{Program: script, Timeout: 10 * time.Second}
	})

	require.True(t, res.Success)
	assert.Equal(t, []int{1, 2}, attempts)
}
