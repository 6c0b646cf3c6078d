package recorder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// PositionSource reports where the agent currently is.
type PositionSource interface {
	Position() timeline.Vec3
}

// PositionFunc adapts a function to PositionSource.
type PositionFunc func() timeline.Vec3

func (f PositionFunc) Position() timeline.Vec3 { return f() }

// Recorder samples the agent's position once per interval of session time
// and logs key presses in between. It is driven by Update; it never reads
// the wall clock itself.
//
// Thread-safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	agent     PositionSource
	ticker    *clock.Ticker
	interval  time.Duration
	recording bool
	run       int // ticker run owned by the current recording
	current   timeline.Timeline

	store  storage.Storage
	name   string
	logger *log.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithInterval sets the sampling period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithStorage makes StopAndSave write to s under name. An empty name picks
// the next free save_<n> slot at save time.
func WithStorage(s storage.Storage, name string) Option {
	return func(r *Recorder) {
		r.store = s
		r.name = name
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an idle Recorder reading positions from agent.
func New(agent PositionSource, opts ...Option) *Recorder {
	r := &Recorder{
		agent:    agent,
		interval: timeline.DefaultInterval,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ticker = clock.NewTicker(r.interval, r.onTick)
	return r
}

// Interval returns the sampling period.
func (r *Recorder) Interval() time.Duration {
	return r.interval
}

// Start clears any previous timeline and begins sampling. The first sample
// is taken on the next Update. Returns false without side effects if a
// recording is already running.
func (r *Recorder) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return false
	}
	r.current = timeline.Timeline{}
	r.recording = true
	r.ticker.Start()
	r.run = r.ticker.Run()
	r.logger.Printf("[record] started (interval %s)", r.interval)
	return true
}

// Update feeds dt of elapsed session time to the sample clock. It is the
// frame hook called by the driver loop.
func (r *Recorder) Update(dt time.Duration) {
	r.ticker.Advance(dt)
}

// OnTick appends the agent's current position. Ignored while idle.
func (r *Recorder) OnTick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return
	}
	r.current.Positions = append(r.current.Positions, r.agent.Position())
}

// onTick samples for ticks of the running recording only; a tick claimed
// before a Stop and Start must not land in the new timeline.
func (r *Recorder) onTick(run, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording || run != r.run {
		return
	}
	r.current.Positions = append(r.current.Positions, r.agent.Position())
}

// RecordKeyEvent logs key at the current session time and agent position.
// Ignored while idle.
func (r *Recorder) RecordKeyEvent(key timeline.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return
	}
	evt := timeline.KeyEvent{
		Time:     float32(r.ticker.Elapsed().Seconds()),
		Position: r.agent.Position(),
		Key:      key,
	}
	r.current.KeyEvents = append(r.current.KeyEvents, evt)
	r.logger.Printf("[record] key %s pressed at %s (t=%.2f)", key, evt.Position, evt.Time)
}

// Stop ends the recording and returns a copy of the accumulated timeline.
// Stopping an idle recorder has no side effects and returns the last
// recorded timeline again.
func (r *Recorder) Stop() timeline.Timeline {
	tl, _ := r.stop()
	return tl
}

func (r *Recorder) stop() (timeline.Timeline, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasRecording := r.recording
	if wasRecording {
		r.recording = false
		r.ticker.Stop()
		r.logger.Printf("[record] stopped: %d samples, %d key events",
			len(r.current.Positions), len(r.current.KeyEvents))
	}
	return r.current.Clone(), wasRecording
}

// StopAndSave stops the recording and makes a single attempt to persist it.
// It returns the timeline and the name it was saved under. A failed write
// is logged and returned, but the timeline is still returned intact. When
// the recorder was already idle nothing is written.
func (r *Recorder) StopAndSave(ctx context.Context) (timeline.Timeline, string, error) {
	tl, wasRecording := r.stop()
	if !wasRecording || r.store == nil {
		return tl, "", nil
	}

	name := r.name
	if name == "" {
		next, err := storage.NextName(ctx, r.store)
		if err != nil {
			r.logger.Printf("[record] WARNING: choosing save slot: %v", err)
			return tl, "", fmt.Errorf("choosing save slot: %w", err)
		}
		name = next
	}

	data, err := timeline.Encode(tl)
	if err != nil {
		return tl, "", err
	}
	if err := r.store.Save(ctx, name, data); err != nil {
		r.logger.Printf("[record] WARNING: saving %s: %v", name, err)
		return tl, name, fmt.Errorf("saving trajectory: %w", err)
	}
	r.logger.Printf("[record] saved trajectory as %s", name)
	return tl, name, nil
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Len returns the number of samples recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.current.Positions)
}

// Snapshot returns a copy of the timeline recorded so far without stopping.
func (r *Recorder) Snapshot() timeline.Timeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Clone()
}
