package clock

import (
	"sort"
	"sync"
	"time"
)

// VirtualClock is a manually advanced clock. Telemetry imports and instant
// replays drive it from recorded timestamps instead of the wall clock, so a
// ten minute session can be recorded or replayed in microseconds.
//
// Safe for concurrent use.
type VirtualClock struct {
	mu      sync.RWMutex
	current time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewVirtualClock creates a VirtualClock starting at the given time.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{current: start}
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Since returns the virtual duration elapsed since t.
func (c *VirtualClock) Since(t time.Time) time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Sub(t)
}

// After returns a channel that receives the virtual time once the clock has
// been advanced to now+d. A non-positive d fires immediately.
func (c *VirtualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.current
		return ch
	}

	c.waiters = append(c.waiters, waiter{deadline: c.current.Add(d), ch: ch})
	sort.SliceStable(c.waiters, func(i, j int) bool {
		return c.waiters[i].deadline.Before(c.waiters[j].deadline)
	})
	return ch
}

// Pending returns the number of After channels that have not fired yet.
// Tests use it to wait until a driver goroutine is parked on the clock.
func (c *VirtualClock) Pending() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.waiters)
}

// Advance moves the clock forward by d and fires every waiter whose deadline
// has been reached, earliest first. Panics if d is negative.
func (c *VirtualClock) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: cannot advance by negative duration")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
	c.fireDue()
}

// Set jumps the clock to t. Panics if t is before the current time.
func (c *VirtualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Before(c.current) {
		panic("clock: cannot set time to the past")
	}

	c.current = t
	c.fireDue()
}

// fireDue must be called with c.mu held.
func (c *VirtualClock) fireDue() {
	n := 0
	for n < len(c.waiters) && !c.waiters[n].deadline.After(c.current) {
		c.waiters[n].ch <- c.current
		n++
	}
	c.waiters = append(c.waiters[:0], c.waiters[n:]...)
}
