// Package retry wraps transient network calls in a bounded exponential backoff.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy is a capped exponential backoff schedule.
type Policy struct {
	MaxAttempts int           `yaml:"max-attempts"`
	Initial     time.Duration `yaml:"initial"`
	Multiplier  float64       `yaml:"multiplier"`
	Max         time.Duration `yaml:"max"`
}

// DefaultPolicy makes at most 3 attempts, waiting 4s and then up to 10s
// between them.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	Initial:     4 * time.Second,
	Multiplier:  2,
	Max:         10 * time.Second,
}

// Retryable decides whether a failed attempt should be retried.
type Retryable func(error) bool

// Always retries every error.
func Always(error) bool {
	return true
}

// Do invokes fn until it succeeds, returns an error that is not retryable,
// the context is cancelled or the policy's attempts are exhausted. The last
// error is returned.
func Do(ctx context.Context, policy Policy, name string, retryable Retryable, log *slog.Logger, fn func(context.Context) error) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if retryable == nil {
		retryable = Always
	}

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(policy.Initial),
		backoff.WithMultiplier(policy.Multiplier),
		backoff.WithMaxInterval(policy.Max),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(0))

	attempt := 0
	operation := func() error {
		attempt++
		if err := fn(ctx); err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}

			return err
		}

		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.Warn("retrying", "call", name, "attempt", attempt, "of", attempts, "wait", wait, "err", err)
	}

	return backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx), notify)
}
