package clock

import (
	"time"

	internalclock "github.com/SmitUplenchwar2687/Retrace/internal/clock"
)

// Clock abstracts time so playback works with both real and virtual time.
type Clock = internalclock.Clock

// RealClock delegates to the standard time package.
type RealClock = internalclock.RealClock

// VirtualClock is a controllable clock for instant replays and tests.
type VirtualClock = internalclock.VirtualClock

// Ticker fires a callback once per interval of advanced session time.
type Ticker = internalclock.Ticker

// NewRealClock creates a real wall-clock implementation.
func NewRealClock() *RealClock {
	return internalclock.NewRealClock()
}

// NewVirtualClock creates a virtual clock starting at the given time.
func NewVirtualClock(start time.Time) *VirtualClock {
	return internalclock.NewVirtualClock(start)
}

// TickFunc receives the run a tick belongs to and its number within it.
type TickFunc = internalclock.TickFunc

// NewTicker creates a stopped ticker calling fn for every tick.
func NewTicker(interval time.Duration, fn TickFunc) *Ticker {
	return internalclock.NewTicker(interval, fn)
}
