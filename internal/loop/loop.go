// Package loop is the frame driver for recorders and players. Both are
// passive state objects; the loop feeds them elapsed session time.
package loop

import (
	"context"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
)

// DefaultFrame is the nominal frame period (60 fps).
const DefaultFrame = time.Second / 60

// Updater receives elapsed session time once per frame.
type Updater interface {
	Update(dt time.Duration)
}

// UpdateFunc adapts a function to Updater.
type UpdateFunc func(dt time.Duration)

func (f UpdateFunc) Update(dt time.Duration) { f(dt) }

// Stats describes a finished Run.
type Stats struct {
	Frames  int           `json:"frames"`
	Session time.Duration `json:"session"` // session time fed to updaters
	Wall    time.Duration `json:"wall"`    // clock time spent
}

// Loop calls its updaters in registration order, once per frame.
type Loop struct {
	clock    clock.Clock
	frame    time.Duration
	speed    float64 // 1.0 = real-time, 10.0 = 10x, 0 = instant
	updaters []Updater
}

// New creates a loop. A nil clock uses the real clock, a non-positive frame
// uses DefaultFrame and a negative speed is treated as 0.
func New(c clock.Clock, frame time.Duration, speed float64, updaters ...Updater) *Loop {
	if c == nil {
		c = clock.NewRealClock()
	}
	if frame <= 0 {
		frame = DefaultFrame
	}
	if speed < 0 {
		speed = 0
	}
	return &Loop{
		clock:    c,
		frame:    frame,
		speed:    speed,
		updaters: append([]Updater(nil), updaters...),
	}
}

// Add registers another updater. Not safe to call during Run.
func (l *Loop) Add(u Updater) {
	if u == nil {
		return
	}
	l.updaters = append(l.updaters, u)
}

// Frame returns the nominal frame period.
func (l *Loop) Frame() time.Duration {
	return l.frame
}

// Step runs one frame of dt.
func (l *Loop) Step(dt time.Duration) {
	for _, u := range l.updaters {
		u.Update(dt)
	}
}

// Run steps frames until done reports true or ctx is cancelled. done is
// checked before every frame.
//
// At speed 0 frames run back to back, each worth one nominal frame of
// session time. Otherwise the loop waits one frame/speed of clock time
// between frames and feeds updaters the measured clock time scaled by
// speed, so a slow frame is made up rather than lost.
func (l *Loop) Run(ctx context.Context, done func() bool) (stats Stats, err error) {
	start := l.clock.Now()
	defer func() { stats.Wall = l.clock.Since(start) }()

	wait := l.frame
	if l.speed > 0 {
		wait = time.Duration(float64(l.frame) / l.speed)
	}

	last := start
	for !done() {
		if l.speed == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			l.Step(l.frame)
			stats.Frames++
			stats.Session += l.frame
			continue
		}

		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-l.clock.After(wait):
		}

		now := l.clock.Now()
		dt := time.Duration(float64(now.Sub(last)) * l.speed)
		last = now
		l.Step(dt)
		stats.Frames++
		stats.Session += dt
	}
	return stats, nil
}
