package utils

import (
	"context"
	"errors"
	"time"
)

// ErrPollTimeout is returned by [Poller.Run] when the condition did not
// complete within the configured timeout.
var ErrPollTimeout = errors.New("poll timeout")

// PollFunc is evaluated once per poll tick. It returns done=true to stop
// polling successfully, or a non-nil error to abort polling with that error.
// elapsed is measured from the start of Run.
type PollFunc func(ctx context.Context, elapsed time.Duration) (done bool, err error)

// Poller is the bounded wait loop shared by every suspension point of the
// harness (user lock wait, OTP mailbox wait). It evaluates a condition on a
// fixed interval until the condition completes, fails, the timeout elapses
// or ctx is cancelled.
type Poller struct {
	Clock    Clock
	Interval time.Duration
	Timeout  time.Duration

	// DelayFirst makes Run wait one interval before the first evaluation.
	DelayFirst bool
}

// Run polls fn. wake may be nil; a receive on wake triggers an evaluation
// without waiting for the next tick.
//
// Returns nil when fn reports done, the error returned by fn, ctx.Err() on
// cancellation, or [ErrPollTimeout] once Timeout has elapsed. A zero Timeout
// means a single evaluation.
func (p Poller) Run(ctx context.Context, wake <-chan struct{}, fn PollFunc) error {
	clock := p.Clock
	if clock == nil {
		clock = RealClock{}
	}
	interval := p.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	start := clock.Now()
	delay := time.Duration(0)
	if p.DelayFirst {
		delay = interval
	}

	for {
		if delay > 0 {
			// never sleep past the deadline
			if remaining := p.Timeout - clock.Now().Sub(start); remaining < delay {
				delay = max(remaining, 0)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-wake:
			case <-clock.After(delay):
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		elapsed := clock.Now().Sub(start)
		done, err := fn(ctx, elapsed)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if clock.Now().Sub(start) >= p.Timeout {
			return ErrPollTimeout
		}
		delay = interval
	}
}

// Sleep blocks for d or until ctx is done, whichever happens first.
func Sleep(ctx context.Context, clock Clock, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if clock == nil {
		clock = RealClock{}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}
