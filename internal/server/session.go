package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
	"github.com/SmitUplenchwar2687/Retrace/internal/loop"
	"github.com/SmitUplenchwar2687/Retrace/internal/replay"
	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// Broadcaster fans messages out to connected clients.
type Broadcaster interface {
	Broadcast(Message)
}

// TimelineView is the /api/timeline payload.
type TimelineView struct {
	Name         string              `json:"name"`
	Interval     float64             `json:"interval"` // seconds
	Positions    []timeline.Vec3     `json:"positions"`
	KeyEvents    []timeline.KeyEvent `json:"keyEvents"`
	Stats        timeline.Stats      `json:"stats"`
	OutsideRange []int               `json:"outsideRange,omitempty"`
}

// Session is one review session: the loaded timeline, its player and the
// transport the dashboard drives.
type Session struct {
	store     *replay.Store
	player    *replay.Player
	transport *replay.Transport
	storage   storage.Storage
	interval  time.Duration
	logger    *log.Logger

	mu   sync.RWMutex
	out  Broadcaster
	name string
}

// NewSession creates an empty session reading timelines from st.
func NewSession(st storage.Storage, interval time.Duration, logger *log.Logger) *Session {
	if interval <= 0 {
		interval = timeline.DefaultInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		store:    replay.NewStore(),
		storage:  st,
		interval: interval,
		logger:   logger,
	}
	s.player = replay.NewPlayer(s.store,
		replay.WithInterval(interval),
		replay.WithProgress(s.onProgress),
		replay.WithLogger(logger),
	)
	s.transport = replay.NewTransport(s.player)
	return s
}

// SetBroadcaster sets where state changes are published.
func (s *Session) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	s.out = b
	s.mu.Unlock()
}

func (s *Session) broadcast(msg Message) {
	s.mu.RLock()
	out := s.out
	s.mu.RUnlock()
	if out != nil {
		out.Broadcast(msg)
	}
}

func (s *Session) onProgress(index, count int) {
	snap := replay.NewSnapshot(index, count, s.interval, s.player.State())
	s.broadcast(Message{Type: "state", State: &snap})
}

// Load replaces the session timeline with name from storage. A timeline
// that cannot be loaded leaves an empty session; the error is logged as a
// warning and returned.
func (s *Session) Load(ctx context.Context, name string) error {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()

	_, err := s.store.LoadFrom(ctx, s.storage, name)
	s.player.Reset()
	if err != nil {
		s.logger.Printf("[replay] WARNING: %v", err)
	} else {
		s.logger.Printf("[replay] loaded %s: %d samples", name, s.store.Count())
	}
	s.broadcast(Message{Type: "timeline", Name: name})
	snap := s.Snapshot()
	s.broadcast(Message{Type: "state", State: &snap})
	return err
}

// SetTimeline replaces the session timeline with tl without touching
// storage.
func (s *Session) SetTimeline(name string, tl timeline.Timeline) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()

	s.store.Set(name, tl)
	s.player.Reset()
	s.broadcast(Message{Type: "timeline", Name: name})
}

// Name returns the name of the timeline the session was last asked to
// load, even if loading it failed.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Player returns the session player.
func (s *Session) Player() *replay.Player {
	return s.player
}

// Snapshot returns the current transport state.
func (s *Session) Snapshot() replay.Snapshot {
	return s.transport.Snapshot()
}

// Handle applies a transport command and broadcasts the resulting state.
func (s *Session) Handle(cmd Command) (replay.Snapshot, error) {
	switch cmd.Op {
	case "play":
		s.player.Play()
	case "pause":
		s.player.Pause()
	case "toggle":
		s.transport.Toggle()
	case "stop":
		s.player.Stop()
	case "seek":
		if cmd.Fraction < 0 || cmd.Fraction > 1 {
			return s.Snapshot(), fmt.Errorf("seek fraction %g not in [0, 1]", cmd.Fraction)
		}
		s.transport.Seek(cmd.Fraction)
	default:
		return s.Snapshot(), fmt.Errorf("unknown op %q", cmd.Op)
	}

	snap := s.Snapshot()
	s.broadcast(Message{Type: "state", State: &snap})
	return snap, nil
}

// View returns the loaded timeline with its summary.
func (s *Session) View() TimelineView {
	tl := s.store.Timeline()
	return TimelineView{
		Name:         s.Name(),
		Interval:     s.interval.Seconds(),
		Positions:    tl.Positions,
		KeyEvents:    tl.KeyEvents,
		Stats:        timeline.Summarize(tl, s.interval),
		OutsideRange: tl.EventsOutsideRange(s.interval),
	}
}

// Run drives the player in real time on clk until ctx is cancelled.
func (s *Session) Run(ctx context.Context, clk clock.Clock, frame time.Duration) error {
	l := loop.New(clk, frame, 1, s.player)
	_, err := l.Run(ctx, func() bool { return false })
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Follow reloads the session whenever the loaded timeline changes on
// disk. It returns when w is closed or ctx is cancelled.
func (s *Session) Follow(ctx context.Context, w *Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			if name != s.Name() {
				continue
			}
			s.logger.Printf("[server] %s changed on disk, reloading", name)
			s.Load(ctx, name)
		}
	}
}
