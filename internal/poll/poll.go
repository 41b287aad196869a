// Package poll provides the bounded, cancellable wait loop shared by the job
// monitor and the TSO ping loop.
package poll

import (
	"context"
	"time"
)

// Sleep blocks for d on clock, returning early with ctx.Err() when ctx is
// cancelled. A non-positive d only checks ctx.
func Sleep(ctx context.Context, clock Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}

// Options bounds an Until loop.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Clock       Clock
}

// CheckFunc runs one attempt. attempt starts at 1. Returning done=true or a
// non-nil error stops the loop.
type CheckFunc func(ctx context.Context, attempt int) (done bool, err error)

// Until calls check up to opts.MaxAttempts times with opts.Interval between
// calls, so N attempts cost N-1 sleeps. It reports how many attempts ran and
// whether check signalled done. A MaxAttempts below 1 runs a single attempt.
func Until(ctx context.Context, opts Options, check CheckFunc) (attempts int, done bool, err error) {
	clock := opts.Clock
	if clock == nil {
		clock = Real()
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempts = 1; attempts <= maxAttempts; attempts++ {
		if err = ctx.Err(); err != nil {
			return attempts - 1, false, err
		}

		done, err = check(ctx, attempts)
		if err != nil || done {
			return attempts, done, err
		}

		if attempts == maxAttempts {
			break
		}

		if err = Sleep(ctx, clock, opts.Interval); err != nil {
			return attempts, false, err
		}
	}

	return maxAttempts, false, nil
}
