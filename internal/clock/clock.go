package clock

import "time"

// Clock abstracts time so the frame loop can run against real or virtual time.
// Recording and playback never read time.Now() directly; they are advanced
// by a driver that asks a Clock how much time has passed.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Since returns the duration elapsed since t.
	Since(t time.Time) time.Duration
	// After returns a channel that receives the current time after duration d.
	After(d time.Duration) <-chan time.Time
}

// RealClock delegates to the standard time package.
type RealClock struct{}

func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
