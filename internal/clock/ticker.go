package clock

import (
	"sync"
	"time"
)

// Ticker fires a callback once per interval of accumulated session time.
//
// It has no goroutine of its own: a driver (the frame loop, a telemetry
// reader, a test) feeds it elapsed time through Advance, and the Ticker
// decides how many ticks are due. The n-th tick is due at n*interval of
// elapsed time, measured from Start, so uneven frame pacing never shifts
// later deadlines. The first tick (n == 0) is due immediately and fires on
// the first Advance after Start.
//
// Every Start begins a new run, numbered from 1. A tick claimed by Advance
// on one goroutine can still be on its way to fn when another goroutine
// calls Stop and Start; fn receives the run the tick belongs to so the
// owner can drop ticks from a run it has already cancelled.
type Ticker struct {
	mu       sync.Mutex
	interval time.Duration
	fn       TickFunc

	active  bool
	run     int
	elapsed time.Duration
	fired   int
}

// TickFunc receives the run a tick belongs to and its zero-based number
// within that run.
type TickFunc func(run, n int)

// NewTicker creates a stopped Ticker. Panics if interval is not positive.
func NewTicker(interval time.Duration, fn TickFunc) *Ticker {
	if interval <= 0 {
		panic("clock: ticker interval must be positive")
	}
	return &Ticker{interval: interval, fn: fn}
}

// Start resets elapsed time and the tick count, begins a new run and
// activates the ticker. Starting an active ticker is a no-op and returns
// false.
func (t *Ticker) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active {
		return false
	}
	t.active = true
	t.run++
	t.elapsed = 0
	t.fired = 0
	return true
}

// Stop deactivates the ticker. Ticks still owed from an Advance in progress
// are not claimed once Stop returns. A tick another goroutine claimed just
// before Stop may still reach fn, carrying the run it was claimed in.
func (t *Ticker) Stop() {
	t.mu.Lock()
	t.active = false
	t.mu.Unlock()
}

// Active reports whether the ticker is running.
func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Elapsed returns the session time accumulated since Start.
func (t *Ticker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Run returns the number of the current (or last) run; 0 before the first
// Start.
func (t *Ticker) Run() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.run
}

// Interval returns the tick period.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Fired returns the number of ticks delivered since Start.
func (t *Ticker) Fired() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// Advance adds dt of elapsed time and fires every tick that has come due,
// in order. It returns the number of ticks fired. Negative dt is ignored.
// The callback runs without the ticker lock held, so it may call Stop.
func (t *Ticker) Advance(dt time.Duration) int {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return 0
	}
	if dt > 0 {
		t.elapsed += dt
	}
	t.mu.Unlock()

	count := 0
	for {
		t.mu.Lock()
		if !t.active || time.Duration(t.fired)*t.interval > t.elapsed {
			t.mu.Unlock()
			return count
		}
		run, n := t.run, t.fired
		t.fired++
		t.mu.Unlock()

		if t.fn != nil {
			t.fn(run, n)
		}
		count++
	}
}
