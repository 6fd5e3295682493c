// Package lock provides the process-wide exclusive lock that serializes
// requests against the shared content document. Acquisition waits a bounded
// time; what happens when the wait expires is the caller's explicit choice
// (fail the request or proceed unguarded), never an implicit default.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the lock could not be acquired within the wait
// bound.
var ErrTimeout = errors.New("lock acquisition timed out")

// Lock is a mutual-exclusion lock with bounded-wait acquisition.
type Lock struct {
	ch chan struct{}
}

func New() *Lock {
	return &Lock{ch: make(chan struct{}, 1)}
}

// Acquire blocks until the lock is held, the wait elapses, or ctx is
// canceled. On success the caller must Release, typically via defer, so the
// lock is freed on every exit path.
func (l *Lock) Acquire(ctx context.Context, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to take the lock without waiting.
func (l *Lock) TryAcquire() bool {
	select {
	case l.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees the lock. Calling Release without holding the lock panics;
// that is a programming error, not a runtime condition.
func (l *Lock) Release() {
	select {
	case <-l.ch:
	default:
		panic("lock: release without acquire")
	}
}
