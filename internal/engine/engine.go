// Package engine runs one logical backend operation to completion: it gates
// on the circuit breaker and the readiness snapshot, then drives sequential
// process attempts with category-tiered exponential backoff until one
// succeeds, the error turns out non-retryable, the attempt or time budget
// runs out, or the caller cancels.
//
// Attempts within one session are strictly sequential. Concurrent sessions
// are fine; they share only the breaker and the readiness checker, which
// guard themselves.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glintlabs/glint/internal/breaker"
	"github.com/glintlabs/glint/internal/cliexec"
	apperrors "github.com/glintlabs/glint/internal/errors"
	"github.com/glintlabs/glint/internal/notify"
	"github.com/glintlabs/glint/internal/readiness"
)

const (
	// DefaultMaxAttempts bounds one retry session.
	DefaultMaxAttempts = 3

	// DefaultBudget is the cumulative time one session may spend before
	// retries are abandoned with a timeout-classified error.
	DefaultBudget = 5 * time.Minute
)

// InvocationBuilder produces the command for one attempt. It is called once
// per attempt so a backend can vary arguments between tries (fresh temp
// files, a --continue flag, and so on). attempt is 1-based.
type InvocationBuilder func(attempt int) cliexec.Invocation

// ReadinessSource is the slice of the readiness checker the engine needs.
type ReadinessSource interface {
	Current(ctx context.Context) readiness.Snapshot
}

// Config wires an Engine. Runner and Breaker are required; a nil Readiness
// skips the readiness gate and a nil Sink discards progress.
type Config struct {
	Runner      *cliexec.Runner
	Breaker     *breaker.Breaker
	Readiness   ReadinessSource
	Sink        notify.Sink
	Log         *slog.Logger
	MaxAttempts int
	Budget      time.Duration
}

// Result is one finished retry session.
type Result struct {
	*cliexec.ExecutionResult

	// Attempts is how many processes were actually spawned.
	Attempts int
}

// Engine executes operations against the backend CLI with retry, backoff,
// and failure accounting. Safe for concurrent use.
type Engine struct {
	runner      *cliexec.Runner
	breaker     *breaker.Breaker
	ready       ReadinessSource
	sink        notify.Sink
	log         *slog.Logger
	maxAttempts int
	budget      time.Duration

	// Swappable for tests.
	jitter func() float64
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) bool
}

// New creates an Engine from cfg, applying defaults for zero fields.
func New(cfg Config) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	if cfg.Sink == nil {
		cfg.Sink = notify.NopSink{}
	}
	if cfg.Runner == nil {
		cfg.Runner = cliexec.NewRunner(cfg.Log)
	}
	if cfg.Breaker == nil {
		cfg.Breaker = breaker.New(0, 0)
	}
	return &Engine{
		runner:      cfg.Runner,
		breaker:     cfg.Breaker,
		ready:       cfg.Readiness,
		sink:        cfg.Sink,
		log:         cfg.Log,
		maxAttempts: cfg.MaxAttempts,
		budget:      cfg.Budget,
		jitter:      defaultJitter,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

// ExecuteWithRetry runs one logical operation. The returned Result always
// carries a non-nil ExecutionResult; on failure its Err is classified.
//
// No process is spawned when the breaker is open or the readiness snapshot
// says the backend is unusable: both fail fast with the corresponding
// classified error.
func (e *Engine) ExecuteWithRetry(ctx context.Context, build InvocationBuilder) *Result {
	if ok, remaining := e.breaker.Allow(); !ok {
		e.log.Warn("execution blocked by circuit breaker", "cooldown_remaining", remaining)
		return failed(apperrors.BreakerOpen(remaining), 0)
	}

	if e.ready != nil {
		if snap := e.ready.Current(ctx); !snap.Ready() {
			err := snap.Err
			if err == nil {
				err = apperrors.NewExecutionError("backend is not ready")
			}
			e.log.Warn("execution blocked by readiness state", "err", err)
			return failed(err, 0)
		}
	}

	start := e.now()
	var last *cliexec.ExecutionResult

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return failed(apperrors.Aborted(), attempt-1)
		}

		last = e.runner.Run(ctx, build(attempt))
		if last.Success {
			e.breaker.RecordSuccess()
			return &Result{ExecutionResult: last, Attempts: attempt}
		}

		ce := last.Err
		if ce == nil {
			ce = apperrors.NewUnknownError("execution failed without a classified error")
			last.Err = ce
		}
		e.log.Warn("attempt failed",
			"attempt", attempt,
			"category", ce.Category.String(),
			"code", ce.Code,
			"exit_code", last.ExitCode,
		)

		if !ce.Retryable || attempt == e.maxAttempts {
			e.breaker.RecordFailure(ce)
			e.publishFinal(ce, attempt)
			return &Result{ExecutionResult: last, Attempts: attempt}
		}

		delay := backoffDelay(ce.Category, attempt, e.jitter)
		if e.now().Sub(start)+delay > e.budget {
			e.breaker.RecordFailure(ce)
			budgetErr := apperrors.RetryBudgetExhausted(e.budget).WithCause(ce)
			last.Err = budgetErr
			e.publishFinal(budgetErr, attempt)
			return &Result{ExecutionResult: last, Attempts: attempt}
		}

		e.sink.Publish(notify.NewMessage(
			fmt.Sprintf("%s: %s; retrying in %s (attempt %d/%d)",
				ce.Category, ce.Message, delay.Round(time.Millisecond), attempt+1, e.maxAttempts),
			notify.SeverityWarning,
		))

		if !e.sleep(ctx, delay) {
			last.Err = apperrors.Aborted()
			return &Result{ExecutionResult: last, Attempts: attempt}
		}
	}

	// Unreachable: the loop always returns.
	return &Result{ExecutionResult: last, Attempts: e.maxAttempts}
}

// publishFinal reports the terminal failure to the progress sink.
func (e *Engine) publishFinal(ce *apperrors.ClassifiedError, attempts int) {
	text := fmt.Sprintf("%s after %d attempt(s): %s", ce.Category, attempts, ce.Message)
	if len(ce.Remediation) > 0 {
		text += " - " + ce.Remediation[0]
	}
	e.sink.Publish(notify.NewMessage(text, notify.SeverityError))
}

// failed wraps a fail-fast error in a Result with no process output.
func failed(ce *apperrors.ClassifiedError, attempts int) *Result {
	return &Result{
		ExecutionResult: &cliexec.ExecutionResult{Success: false, ExitCode: -1, Err: ce},
		Attempts:        attempts,
	}
}

// sleepCtx blocks for d or until ctx is done, reporting whether the full
// delay elapsed. The timer is stopped eagerly so an aborted session does not
// leak it for the remainder of the delay.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
