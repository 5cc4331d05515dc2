package engine

import (
	"math/rand"
	"time"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

const (
	// baseDelayDefault applies to categories without their own tier.
	baseDelayDefault = 1 * time.Second
	// baseDelayNetwork is short: connection blips usually clear fast.
	baseDelayNetwork = 2 * time.Second
	// baseDelayTimeout assumes a busy backend that needs breathing room.
	baseDelayTimeout = 3 * time.Second
	// baseDelayQuota is the longest tier: rate windows reset slowly.
	baseDelayQuota = 5 * time.Second

	// maxDelay caps a single backoff sleep.
	maxDelay = 30 * time.Second

	// maxJitter is the upper bound of the random backoff multiplier spread.
	maxJitter = 0.25
)

// baseDelay returns the category's first-attempt delay tier.
func baseDelay(c apperrors.Category) time.Duration {
	switch c {
	case apperrors.Network:
		return baseDelayNetwork
	case apperrors.Timeout:
		return baseDelayTimeout
	case apperrors.Quota:
		return baseDelayQuota
	default:
		return baseDelayDefault
	}
}

// backoffDelay computes the sleep before the next attempt:
// base(category) x 2^(attempt-1) x (1 + jitter), capped at maxDelay.
// attempt is the 1-based attempt that just failed. jitter returns a value
// in [0, maxJitter); it is a parameter so tests can pin it.
func backoffDelay(c apperrors.Category, attempt int, jitter func() float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := baseDelay(c)
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			break
		}
	}

	delay = time.Duration(float64(delay) * (1 + jitter()))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

// defaultJitter spreads concurrent retriers apart.
func defaultJitter() float64 {
	return rand.Float64() * maxJitter
}
