package notionapi

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryState is the state machine driving the request loop. Each attempt
// moves Attempting -> {Success, Backoff, PermanentFailure, Exhausted};
// Backoff sleeps and re-enters Attempting.
type retryState int

const (
	stateAttempting retryState = iota
	stateBackoff
	stateSuccess
	statePermanentFailure
	stateExhausted
)

// RetryPolicy bounds the request loop. The zero value takes defaults.
type RetryPolicy struct {
	// MaxAttempts counts the first try: 3 means at most two retries.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 8 * time.Second
)

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = defaultInitialBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = defaultMaxBackoff
	}
	return p
}

// decide is the pure transition function from an attempt outcome to the
// next state. apiErr is nil on success. Only idempotent operations may
// retry after a response was observed; non-idempotent ones (create)
// retry solely on transport failures, where no response reached us and
// the request cannot have taken effect twice.
func decide(apiErr *Error, attempt, maxAttempts int, idempotent bool) retryState {
	if apiErr == nil {
		return stateSuccess
	}
	if !apiErr.Kind.Transient() {
		return statePermanentFailure
	}
	responseSeen := apiErr.Status != 0
	if !idempotent && responseSeen {
		return statePermanentFailure
	}
	if attempt >= maxAttempts {
		return stateExhausted
	}
	return stateBackoff
}

// newBackOff builds the delay schedule: base delay doubling per attempt,
// capped at MaxBackoff. Randomization is disabled so a server-supplied
// Retry-After hint acts as a strict lower bound.
func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialBackoff
	bo.MaxInterval = p.MaxBackoff
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// nextDelay combines the exponential schedule with any Retry-After hint,
// whichever is longer, still capped by MaxBackoff... except that a hint
// larger than the cap is honored: the server knows best.
func nextDelay(bo *backoff.ExponentialBackOff, apiErr *Error) time.Duration {
	d := bo.NextBackOff()
	if d == backoff.Stop {
		d = bo.MaxInterval
	}
	if apiErr != nil && apiErr.RetryAfter > d {
		d = apiErr.RetryAfter
	}
	return d
}

// sleep waits for d or until the caller's deadline, whichever is first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
