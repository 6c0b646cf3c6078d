package replay

import (
	"fmt"
	"math"
	"time"
)

// Snapshot is what a transport bar shows for one playback position.
type Snapshot struct {
	Index       int     `json:"index"`
	Count       int     `json:"count"`
	Fraction    float64 `json:"fraction"`
	Current     float64 `json:"current"` // seconds
	Total       float64 `json:"total"`   // seconds
	Label       string  `json:"label"`
	State       string  `json:"state"`
	Interactive bool    `json:"interactive"`
}

// NewSnapshot builds the transport view of sample index out of count.
// With fewer than two samples the bar sits at 0 and is not interactive.
func NewSnapshot(index, count int, interval time.Duration, state State) Snapshot {
	s := Snapshot{
		Index:       index,
		Count:       count,
		State:       state.String(),
		Interactive: count > 1,
		Label:       "0.0s / 0.0s",
	}
	if count <= 1 {
		return s
	}
	s.Fraction = ProgressFraction(index, count)
	s.Total = TimeAt(count-1, interval).Seconds()
	s.Current = math.Min(TimeAt(index, interval).Seconds(), s.Total)
	s.Label = fmt.Sprintf("%.1fs / %.1fs", s.Current, s.Total)
	return s
}

// Transport is the play/pause/seek surface over a Player.
type Transport struct {
	player *Player
}

// NewTransport wraps p.
func NewTransport(p *Player) *Transport {
	return &Transport{player: p}
}

// Player returns the underlying player.
func (t *Transport) Player() *Player {
	return t.player
}

// Toggle pauses a playing player and plays otherwise. It returns the state
// after the toggle.
func (t *Transport) Toggle() State {
	if t.player.State() == Playing {
		t.player.Pause()
	} else {
		t.player.Play()
	}
	return t.player.State()
}

// Seek moves playback to fraction f of the recording. It is ignored, and
// returns false, when the bar is not interactive.
func (t *Transport) Seek(f float64) bool {
	if !t.Interactive() {
		return false
	}
	t.player.SeekFraction(f)
	return true
}

// Interactive reports whether there is anything to scrub through.
func (t *Transport) Interactive() bool {
	return t.player.Count() > 1
}

// Snapshot returns the current transport view.
func (t *Transport) Snapshot() Snapshot {
	return NewSnapshot(t.player.Index(), t.player.Count(), t.player.Interval(), t.player.State())
}
