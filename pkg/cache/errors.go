package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBackend matches every BackendError.
var ErrBackend = errors.New("cache backend unavailable")

// BackendError is a failed call to a remote backend.
type BackendError struct {
	Backend string // "redis" or "mongo"
	Op      string
	Err     error

	// Transient failures (connection drops, timeouts) are retried.
	Transient bool
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap exposes both ErrBackend and the driver error.
func (e *BackendError) Unwrap() []error { return []error{ErrBackend, e.Err} }

// retryPolicy retries transient backend failures with doubling delays.
type retryPolicy struct {
	attempts int
	delay    time.Duration
}

var backendRetry = retryPolicy{attempts: 3, delay: 200 * time.Millisecond}

// do runs fn until it succeeds, fails with anything but a transient
// BackendError, or runs out of attempts.
func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	delay := p.delay
	for attempt := 1; ; attempt++ {
		err := fn()
		var be *BackendError
		if err == nil || !errors.As(err, &be) || !be.Transient || attempt >= p.attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
