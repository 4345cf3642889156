// Package scheduler drives the once-per-second clock tick.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Ticker calls a function once per second, aligned to wall-clock second
// boundaries. The delay is recomputed after every tick, so a late wake-up
// (sleep, throttling) never accumulates drift.
type Ticker struct {
	Now func() time.Time

	fn   func(now time.Time)
	poke chan struct{}
	log  *zap.SugaredLogger
}

// New creates a ticker calling fn.
func New(fn func(now time.Time), log *zap.SugaredLogger) *Ticker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Ticker{
		Now:  time.Now,
		fn:   fn,
		poke: make(chan struct{}, 1),
		log:  log,
	}
}

// Poke requests an immediate out-of-band tick, e.g. when the window comes
// back to the foreground. Pokes coalesce and never block.
func (t *Ticker) Poke() {
	select {
	case t.poke <- struct{}{}:
	default:
	}
}

// Run ticks until ctx is cancelled. The first tick happens immediately.
func (t *Ticker) Run(ctx context.Context) error {
	t.log.Debugw("Ticker started")
	defer t.log.Debugw("Ticker stopped")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done(): // Operation was canceled.
			return ctx.Err()

		case <-timer.C:

		case <-t.poke:
			timer.Stop()
		}

		now := t.Now()
		t.fn(now)

		// Align the next tick on the following second boundary.
		timer.Reset(Delay(t.Now()))
	}
}

// Delay returns the time left until the next wall-clock second boundary.
func Delay(now time.Time) time.Duration {
	return time.Second - time.Duration(now.Nanosecond())
}
