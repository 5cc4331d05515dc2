// Package breaker guards the backend CLI against retry storms. It tracks
// consecutive systemic failures (broken installation, rejected credentials,
// network loss, crashed processes) and temporarily blocks new invocations
// once a threshold is crossed. Transient, request-local failures never count
// toward the breaker.
//
// The breaker is process-wide shared state; all methods are safe for
// concurrent use.
package breaker

import (
	"sync"
	"time"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

// State is the breaker's position in its closed -> open -> half-open cycle.
type State int

const (
	// Closed allows all calls.
	Closed State = iota
	// Open rejects calls until the cooldown elapses.
	Open
	// HalfOpen allows a single probe call after the cooldown.
	HalfOpen
)

// String returns the lowercase state label.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	// DefaultThreshold is the consecutive qualifying failures that open
	// the breaker.
	DefaultThreshold = 5

	// DefaultCooldown is how long the breaker stays open before allowing
	// a probe.
	DefaultCooldown = 60 * time.Second
)

// Breaker is a mutex-guarded circuit breaker.
type Breaker struct {
	mu          sync.Mutex
	failures    int
	lastFailure time.Time
	state       State
	threshold   int
	cooldown    time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// New creates a closed Breaker. Non-positive threshold or cooldown fall
// back to the defaults.
func New(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether a new invocation may proceed. While open it returns
// false with the estimated cooldown remaining; once the cooldown elapses
// exactly one caller is admitted as the probe and the breaker moves to
// half-open. Further callers are rejected until the probe's result lands
// through RecordSuccess or RecordFailure.
func (b *Breaker) Allow() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return true, 0
	case HalfOpen:
		// A probe is in flight; its verdict decides for everyone.
		return false, 0
	}

	elapsed := b.now().Sub(b.lastFailure)
	if elapsed < b.cooldown {
		return false, b.cooldown - elapsed
	}

	b.state = HalfOpen
	return true, 0
}

// RecordFailure accounts one failed attempt. Only qualifying categories
// move the breaker; everything else is considered local to the request.
// The transition to open happens the instant the counter reaches the
// threshold. A non-systemic failure reported by the half-open probe closes
// the breaker: the backend answered, so the outage the breaker tripped on
// is over.
func (b *Breaker) RecordFailure(ce *apperrors.ClassifiedError) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !Qualifies(ce) {
		if b.state == HalfOpen {
			b.failures = 0
			b.state = Closed
		}
		return
	}

	b.failures++
	b.lastFailure = b.now()
	if b.failures >= b.threshold {
		b.state = Open
	}
}

// RecordSuccess resets the counter to zero and forces the state back to
// closed, regardless of the prior state.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.state = Closed
}

// Snapshot is a point-in-time copy of the breaker state for diagnostics.
type Snapshot struct {
	State       State
	Failures    int
	Threshold   int
	Cooldown    time.Duration
	LastFailure time.Time
}

// Stats returns a copy of the current breaker state.
func (b *Breaker) Stats() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		State:       b.state,
		Failures:    b.failures,
		Threshold:   b.threshold,
		Cooldown:    b.cooldown,
		LastFailure: b.lastFailure,
	}
}

// Qualifies reports whether a failure counts toward the breaker:
// installation, authentication, and network failures are systemic, and an
// execution failure only when critical (a crashed backend).
func Qualifies(ce *apperrors.ClassifiedError) bool {
	if ce == nil {
		return false
	}
	switch ce.Category {
	case apperrors.Installation, apperrors.Authentication, apperrors.Network:
		return true
	case apperrors.Execution:
		return ce.Severity == apperrors.Critical
	default:
		return false
	}
}
