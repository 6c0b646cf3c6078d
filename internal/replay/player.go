package replay

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// State is the playback state of a Player.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Samples is the read side of a Store that the Player needs.
type Samples interface {
	Count() int
	PositionAt(i int) (timeline.Vec3, error)
	Positions() []timeline.Vec3
}

// PositionSink receives the replayed agent position.
type PositionSink interface {
	SetPosition(timeline.Vec3)
}

// PathRenderer replaces the currently drawn polyline.
type PathRenderer interface {
	SetPath([]timeline.Vec3)
}

// PathFunc adapts a function to PathRenderer.
type PathFunc func([]timeline.Vec3)

func (f PathFunc) SetPath(path []timeline.Vec3) { f(path) }

// ProgressListener is told the current sample index and the sample count.
type ProgressListener func(index, count int)

// Player walks the agent through a recorded timeline, one sample per
// interval of session time. Like the Recorder it is driven by Update and
// never reads a clock itself.
//
// The position sink, the walked path renderer and progress listeners run on
// the goroutine that caused the change, after the player's lock is
// released, so they may query or command the player.
type Player struct {
	mu       sync.Mutex
	samples  Samples
	ticker   *clock.Ticker
	interval time.Duration

	state    State
	index    int
	walked   []timeline.Vec3
	run      int  // ticker run that may advance the index
	finished bool // playback ran past the last sample

	sink       PositionSink
	fullPath   PathRenderer
	walkedPath PathRenderer
	listeners  []ProgressListener
	logger     *log.Logger
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithInterval sets the time each sample is held. Non-positive values are
// ignored.
func WithInterval(d time.Duration) PlayerOption {
	return func(p *Player) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithSink sets where replayed positions are written.
func WithSink(s PositionSink) PlayerOption {
	return func(p *Player) { p.sink = s }
}

// WithFullPath sets the renderer for the whole recorded trajectory.
func WithFullPath(r PathRenderer) PlayerOption {
	return func(p *Player) { p.fullPath = r }
}

// WithWalkedPath sets the renderer for the part walked so far.
func WithWalkedPath(r PathRenderer) PlayerOption {
	return func(p *Player) { p.walkedPath = r }
}

// WithProgress registers a progress listener.
func WithProgress(l ProgressListener) PlayerOption {
	return func(p *Player) {
		if l != nil {
			p.listeners = append(p.listeners, l)
		}
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *log.Logger) PlayerOption {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPlayer creates an idle Player over samples.
func NewPlayer(samples Samples, opts ...PlayerOption) *Player {
	p := &Player{
		samples:  samples,
		interval: timeline.DefaultInterval,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ticker = clock.NewTicker(p.interval, p.onTick)
	return p
}

// OnProgress registers another progress listener.
func (p *Player) OnProgress(l ProgressListener) {
	if l == nil {
		return
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, l)
	p.mu.Unlock()
}

// change is what a state transition leaves for the collaborators. It is
// built under the lock and applied after it is released.
type change struct {
	move   bool
	pos    timeline.Vec3
	walked []timeline.Vec3 // redraw the walked path when non-nil

	report       bool
	index, count int
}

func (p *Player) apply(c change) {
	if c.move && p.sink != nil {
		p.sink.SetPosition(c.pos)
	}
	if c.walked != nil && p.walkedPath != nil {
		p.walkedPath.SetPath(c.walked)
	}
	if !c.report {
		return
	}

	p.mu.Lock()
	listeners := p.listeners
	p.mu.Unlock()

	for _, l := range listeners {
		l(c.index, c.count)
	}
}

// walkedCopy must be called with p.mu held.
func (p *Player) walkedCopy() []timeline.Vec3 {
	path := make([]timeline.Vec3, len(p.walked))
	copy(path, p.walked)
	return path
}

// Reset stops playback, rewinds to the first sample, clears the walked path
// and draws the full trajectory. Call it after the underlying store changes.
func (p *Player) Reset() {
	p.mu.Lock()
	p.ticker.Stop()
	p.state = Idle
	p.index = 0
	p.finished = false
	p.walked = nil
	full := p.samples.Positions()
	p.mu.Unlock()

	if p.walkedPath != nil {
		p.walkedPath.SetPath(nil)
	}
	if p.fullPath != nil && len(full) > 0 {
		p.fullPath.SetPath(full)
	}
}

// Play starts or resumes playback and reports whether the player is now
// playing. With no samples it does nothing.
//
// Starting from Idle reports progress for the start sample at once, moves
// the agent there and holds it for one interval before advancing. Idle
// playback starts at the current index, so a seek before Play is honoured,
// including a seek to the last sample. Only after playback has run past
// the end does Play start over from 0. Resuming from Paused continues from
// the current index without a new report.
func (p *Player) Play() bool {
	p.mu.Lock()
	c, ok := p.playLocked()
	p.mu.Unlock()

	p.apply(c)
	return ok
}

func (p *Player) playLocked() (change, bool) {
	count := p.samples.Count()
	if count == 0 {
		return change{}, false
	}

	switch p.state {
	case Playing:
		return change{}, true
	case Paused:
		p.startTicker()
		p.logger.Printf("[replay] resumed at sample %d/%d", p.index, count)
		return change{}, true
	}

	if p.finished || p.index > count-1 {
		p.index = 0
	}
	pos, err := p.samples.PositionAt(p.index)
	if err != nil {
		p.logger.Printf("[replay] WARNING: %v", err)
		return change{}, false
	}
	p.finished = false
	p.walked = []timeline.Vec3{pos}
	p.startTicker()
	p.logger.Printf("[replay] playing %d samples from %d", count, p.index)
	return change{
		move:   true,
		pos:    pos,
		walked: p.walkedCopy(),
		report: true,
		index:  p.index,
		count:  count,
	}, true
}

// startTicker must be called with p.mu held. Ticks from earlier runs are
// ignored from here on.
func (p *Player) startTicker() {
	p.state = Playing
	p.ticker.Start()
	p.run = p.ticker.Run()
}

// Pause halts advancement and keeps the current index.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Playing {
		return
	}
	p.ticker.Stop()
	p.state = Paused
	p.logger.Printf("[replay] paused at sample %d", p.index)
}

// Stop ends playback and rewinds to sample 0. Advances still owed to an
// Update in progress, on this or any other goroutine, are dropped.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ticker.Stop()
	if p.state != Idle {
		p.logger.Printf("[replay] stopped at sample %d", p.index)
	}
	p.state = Idle
	p.index = 0
	p.finished = false
}

// Seek jumps to sample index, clamped into range, moves the agent and
// reports progress. The playback state is unchanged and the walked path is
// kept; playback continues from the new index.
func (p *Player) Seek(index int) {
	p.mu.Lock()
	c := p.seekLocked(index)
	p.mu.Unlock()

	p.apply(c)
}

func (p *Player) seekLocked(index int) change {
	count := p.samples.Count()
	if count == 0 {
		return change{}
	}
	index = clampIndex(index, count)
	pos, err := p.samples.PositionAt(index)
	if err != nil {
		p.logger.Printf("[replay] WARNING: %v", err)
		return change{}
	}
	p.index = index
	p.finished = false
	return change{move: true, pos: pos, report: true, index: index, count: count}
}

// SeekFraction seeks to the sample nearest fraction f of the recording.
func (p *Player) SeekFraction(f float64) {
	p.Seek(IndexFromFraction(f, p.samples.Count()))
}

// Update feeds dt of elapsed session time to the playback clock.
func (p *Player) Update(dt time.Duration) {
	p.ticker.Advance(dt)
}

func (p *Player) onTick(run, n int) {
	// Tick 0 is due the moment playback (re)starts: hold the current sample.
	if n == 0 {
		return
	}

	p.mu.Lock()
	if run != p.run {
		// Claimed before a Stop or Pause that has since been followed by Play.
		p.mu.Unlock()
		return
	}
	c := p.advanceLocked()
	p.mu.Unlock()

	p.apply(c)
}

func (p *Player) advanceLocked() change {
	if p.state != Playing {
		return change{}
	}
	count := p.samples.Count()
	next := p.index + 1
	if next > count-1 {
		p.ticker.Stop()
		p.state = Idle
		p.finished = true
		p.logger.Printf("[replay] finished after %d samples", count)
		return change{}
	}
	pos, err := p.samples.PositionAt(next)
	if err != nil {
		p.ticker.Stop()
		p.state = Idle
		p.logger.Printf("[replay] WARNING: %v", err)
		return change{}
	}

	p.index = next
	p.walked = append(p.walked, pos)
	return change{
		move:   true,
		pos:    pos,
		walked: p.walkedCopy(),
		report: true,
		index:  next,
		count:  count,
	}
}

// State returns the playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Index returns the current sample index.
func (p *Player) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Count returns the number of samples available for playback.
func (p *Player) Count() int {
	return p.samples.Count()
}

// Interval returns the time each sample is held.
func (p *Player) Interval() time.Duration {
	return p.interval
}

// WalkedPath returns a copy of the path walked since playback started.
func (p *Player) WalkedPath() []timeline.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]timeline.Vec3, len(p.walked))
	copy(out, p.walked)
	return out
}

// TimeAt returns the session time of sample index.
func TimeAt(index int, interval time.Duration) time.Duration {
	return time.Duration(index) * interval
}

// ProgressFraction maps index to [0, 1]. It is 0 when there are fewer than
// two samples.
func ProgressFraction(index, count int) float64 {
	if count <= 1 {
		return 0
	}
	return float64(index) / float64(count-1)
}

// IndexFromFraction is the inverse of ProgressFraction: the nearest sample
// to fraction f, clamped into [0, count-1]. Halves round to even.
func IndexFromFraction(f float64, count int) int {
	if count <= 0 || math.IsNaN(f) {
		return 0
	}
	x := math.RoundToEven(f * float64(count-1))
	switch {
	case x <= 0:
		return 0
	case x >= float64(count-1):
		return count - 1
	}
	return int(x)
}

func clampIndex(i, count int) int {
	if i < 0 {
		return 0
	}
	if i > count-1 {
		return count - 1
	}
	return i
}
