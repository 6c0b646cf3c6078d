// Package timeline holds the recorded trajectory of one session: position
// samples taken at a fixed interval and the key presses that happened in
// between. It also owns the persisted JSON representation.
package timeline

import (
	"fmt"
	"time"
)

// DefaultInterval is the recording period used by the wayfinding sessions.
const DefaultInterval = 500 * time.Millisecond

// Vec3 is one sampled world position.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Key identifies a discrete input recorded during a session.
type Key string

const (
	KeySpace Key = "Space"
	KeyM     Key = "M"
)

// KeyEvent is a key press with the session time and player position at
// which it happened. Time is in seconds since recording start.
type KeyEvent struct {
	Time     float32 `json:"time"`
	Position Vec3    `json:"position"`
	Key      Key     `json:"key"`
}

// At returns the event time as a duration from recording start.
func (e KeyEvent) At() time.Duration {
	return time.Duration(float64(e.Time) * float64(time.Second))
}

// Timeline is the persisted aggregate of one recording. Sample i of
// Positions was taken at i*interval from recording start.
type Timeline struct {
	Positions []Vec3     `json:"playerPositions"`
	KeyEvents []KeyEvent `json:"keyEvents"`
}

// Len returns the number of position samples.
func (t Timeline) Len() int {
	return len(t.Positions)
}

// Clone returns a deep copy. Slices in the copy are never nil.
func (t Timeline) Clone() Timeline {
	out := Timeline{
		Positions: make([]Vec3, len(t.Positions)),
		KeyEvents: make([]KeyEvent, len(t.KeyEvents)),
	}
	copy(out.Positions, t.Positions)
	copy(out.KeyEvents, t.KeyEvents)
	return out
}

// Duration returns the session time spanned by the samples.
func (t Timeline) Duration(interval time.Duration) time.Duration {
	if len(t.Positions) <= 1 {
		return 0
	}
	return time.Duration(len(t.Positions)-1) * interval
}

// EventsOutsideRange returns the indices of key events whose time falls
// outside [0, Duration(interval)]. Such events are kept on load; callers
// decide whether to warn about them.
func (t Timeline) EventsOutsideRange(interval time.Duration) []int {
	limit := t.Duration(interval).Seconds()
	var out []int
	for i, e := range t.KeyEvents {
		if e.Time < 0 || float64(e.Time) > limit+1e-6 {
			out = append(out, i)
		}
	}
	return out
}

// CountKeys returns how often each key was pressed.
func (t Timeline) CountKeys() map[Key]int {
	counts := make(map[Key]int)
	for _, e := range t.KeyEvents {
		counts[e.Key]++
	}
	return counts
}
