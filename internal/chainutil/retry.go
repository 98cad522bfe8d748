package chainutil

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"
)

// Transient is implemented by errors that should be retried; anything
// else fails fast, per the spec's "only transient signer errors are
// retried" retry policy.
type Transient interface {
	Transient() bool
}

// IsTransient reports whether err should be retried. Errors not
// implementing Transient are treated as non-transient (fail fast),
// matching the conservative default of the teacher's own
// defensive-nil-guard texture: unknown failures are not assumed safe
// to retry.
func IsTransient(err error) bool {
	var t Transient
	if errors.As(err, &t) {
		return t.Transient()
	}
	return false
}

// Retry runs fn up to attempts times with exponential backoff and
// jitter, stopping early on a non-transient error. label identifies
// the call for logging. The closure is re-invoked fresh on each
// attempt rather than reusing captured state, so it must be safe to
// call more than once.
func Retry(ctx context.Context, label string, attempts int, base time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}
		delay := base * time.Duration(1<<uint(i))
		delay += time.Duration(rand.Int63n(int64(delay) / 2 + 1))
		log.Printf("[Retry] %s attempt %d/%d failed: %v, retrying in %s", label, i+1, attempts, lastErr, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
