package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	retrygo "github.com/avast/retry-go"
)

// Policy is a bounded, fixed-delay retry policy.
type Policy struct {
	// Attempts is the total number of tries, including the first one.
	Attempts int
	// Delay is the fixed wait between two attempts.
	Delay time.Duration
	// OnRetry is called after a failed transient attempt that will be retried,
	// with its zero-based number.
	OnRetry func(attempt int, err error)
}

// ExhaustedError is returned when every attempt failed with a transient error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do runs operation until it succeeds, returns a non-transient error, or the
// policy runs out of attempts.
func (p Policy) Do(ctx context.Context, operation func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	opts := []retrygo.Option{
		retrygo.Attempts(uint(attempts)),
		retrygo.Delay(p.Delay),
		retrygo.DelayType(retrygo.FixedDelay),
		retrygo.LastErrorOnly(true),
		retrygo.Context(ctx),
		retrygo.RetryIf(IsTransient),
	}
	if p.OnRetry != nil {
		opts = append(opts, retrygo.OnRetry(func(n uint, err error) {
			// retry-go also reports the final attempt, which is not retried.
			if int(n) >= attempts-1 {
				return
			}
			p.OnRetry(int(n), err)
		}))
	}

	err := retrygo.Do(operation, opts...)
	if err == nil {
		return nil
	}
	if IsTransient(err) {
		return &ExhaustedError{Attempts: attempts, Err: err}
	}
	return err
}

// TransientError marks an error as safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient marks err as retryable. A nil error stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err, or any error it wraps, was marked with Transient.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
