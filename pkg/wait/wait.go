// Package wait polls conditions until they hold or a timeout
// expires.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital.vasic.webuitest/pkg/logging"
)

// Defaults used when a timeout or interval is not positive.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 500 * time.Millisecond
)

// ErrTimeout is returned when a condition does not hold
// within the timeout.
var ErrTimeout = errors.New("wait timed out")

// Condition reports whether the awaited state has been
// reached. An error counts as not reached.
type Condition func() (bool, error)

// Waiter polls conditions.
type Waiter struct {
	timeout  time.Duration
	interval time.Duration
	logger   logging.Logger
}

// Option configures a Waiter.
type Option func(*Waiter)

// WithTimeout sets the overall timeout.
func WithTimeout(d time.Duration) Option {
	return func(w *Waiter) { w.timeout = d }
}

// WithInterval sets the delay between polls.
func WithInterval(d time.Duration) Option {
	return func(w *Waiter) { w.interval = d }
}

// WithLogger sets the logger for condition errors and
// timeouts.
func WithLogger(l logging.Logger) Option {
	return func(w *Waiter) { w.logger = l }
}

// New creates a Waiter.
func New(opts ...Option) *Waiter {
	w := &Waiter{}
	for _, opt := range opts {
		opt(w)
	}
	if w.timeout <= 0 {
		w.timeout = DefaultTimeout
	}
	if w.interval <= 0 {
		w.interval = DefaultInterval
	}
	w.logger = logging.OrNull(w.logger)
	return w
}

// Until polls cond with the given timeout and interval. Zero
// values select the defaults.
func Until(ctx context.Context, cond Condition, timeout, interval time.Duration) error {
	return New(WithTimeout(timeout), WithInterval(interval)).Until(ctx, cond)
}

// Until polls cond until it returns true. The condition is
// checked immediately and then once per interval. It returns
// an error wrapping ErrTimeout when the timeout expires, or
// ctx.Err() when ctx is done first.
func (w *Waiter) Until(ctx context.Context, cond Condition) error {
	deadline := time.NewTimer(w.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastErr error
	for {
		ok, err := cond()
		if err != nil {
			lastErr = err
			w.logger.Debug("wait condition error", logging.ErrorField(err))
		} else if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			w.logger.Error("wait condition timed out",
				logging.DurationField("timeout", w.timeout))
			if lastErr != nil {
				return fmt.Errorf("%w after %v: last error: %v", ErrTimeout, w.timeout, lastErr)
			}
			return fmt.Errorf("%w after %v", ErrTimeout, w.timeout)
		case <-ticker.C:
		}
	}
}
