package timezone

import (
	"sync"
	"time"
)

// Clock supplies the current instant to code that compares against booking windows.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return Now()
}

// FixedClock is a settable Clock for deterministic callers.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
