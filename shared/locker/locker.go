// Package locker serializes work per key inside one process.
package locker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sarana/shared/failure"

	"golang.org/x/sync/semaphore"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

// Locker hands out exclusive, per-key locks. Callers must invoke the returned release func exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

type keyedLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
	wait    time.Duration
}

// New returns a Locker that gives up after wait. A zero wait blocks until ctx is done.
func New(wait time.Duration) Locker {
	return &keyedLocker{
		entries: map[string]*entry{},
		wait:    wait,
	}
}

func (l *keyedLocker) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}

	e.refs++

	return e
}

func (l *keyedLocker) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func (l *keyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	e := l.acquire(key)

	waitCtx := ctx
	if l.wait > 0 {
		var cancel context.CancelFunc

		waitCtx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	if err := e.sem.Acquire(waitCtx, 1); err != nil {
		l.release(key, e)

		if ctx.Err() != nil {
			return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
		}

		return nil, fmt.Errorf("lock %s: %w", key, ErrLockTimeout)
	}

	var once sync.Once

	return func() {
		once.Do(func() {
			e.sem.Release(1)
			l.release(key, e)
		})
	}, nil
}

// Size reports how many keys are currently held or awaited.
func Size(l Locker) int {
	kl, ok := l.(*keyedLocker)
	if !ok {
		return 0
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()

	return len(kl.entries)
}

// AsFailure maps a wait timeout to an unavailable failure and wraps anything else.
func AsFailure(err error) error {
	if errors.Is(err, ErrLockTimeout) {
		return failure.Unavailable("resource is busy, try again") //nolint:wrapcheck
	}

	return fmt.Errorf("failed to lock resource: %w", err)
}
