// Package generate builds synthetic recorded sessions for demos and tests.
package generate

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/pkg/timeline"
)

const (
	// PatternWalk wanders with gradual random turns.
	PatternWalk = "walk"
	// PatternLoop walks one lap around a circle back to the start.
	PatternLoop = "loop"
	// PatternCorridor walks back and forth along parallel aisles.
	PatternCorridor = "corridor"
)

// WalkSpeed is a brisk walking pace in world units per second.
const WalkSpeed = 1.4

// Options controls how a synthetic session is generated.
type Options struct {
	Count    int           // position samples
	Keys     int           // key presses
	Interval time.Duration // sampling interval
	Pattern  string
	Seed     int64 // zero picks a time based seed
}

// DefaultOptions returns defaults aligned with the retrace CLI.
func DefaultOptions() Options {
	return Options{
		Count:    60,
		Keys:     3,
		Interval: timeline.DefaultInterval,
		Pattern:  PatternWalk,
	}
}

// Trajectory creates a timeline of an agent walking on the ground plane,
// sampled every opts.Interval and starting at the origin, with opts.Keys
// presses at random times within the recording in time order.
func Trajectory(opts *Options) (timeline.Timeline, error) {
	if opts == nil {
		return timeline.Timeline{}, fmt.Errorf("options are required")
	}
	if opts.Count < 0 {
		return timeline.Timeline{}, fmt.Errorf("count must not be negative, got %d", opts.Count)
	}
	if opts.Keys < 0 {
		return timeline.Timeline{}, fmt.Errorf("keys must not be negative, got %d", opts.Keys)
	}
	if opts.Interval <= 0 {
		return timeline.Timeline{}, fmt.Errorf("interval must be positive, got %s", opts.Interval)
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = PatternWalk
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	step := WalkSpeed * opts.Interval.Seconds()

	var positions []timeline.Vec3
	switch pattern {
	case PatternWalk:
		positions = walk(rng, opts.Count, step)
	case PatternLoop:
		positions = loop(opts.Count, step)
	case PatternCorridor:
		positions = corridor(opts.Count, step)
	default:
		return timeline.Timeline{}, fmt.Errorf("unknown pattern %q, must be one of: walk, loop, corridor", pattern)
	}

	tl := timeline.Timeline{
		Positions: positions,
		KeyEvents: []timeline.KeyEvent{},
	}
	if opts.Count == 0 {
		return tl, nil
	}

	duration := tl.Duration(opts.Interval).Seconds()
	times := make([]float64, opts.Keys)
	for i := range times {
		times[i] = rng.Float64() * duration
	}
	sort.Float64s(times)
	for _, t := range times {
		key := timeline.KeySpace
		if rng.Intn(4) == 0 {
			key = timeline.KeyM
		}
		tl.KeyEvents = append(tl.KeyEvents, timeline.KeyEvent{
			Time:     float32(t),
			Position: PositionAt(positions, t/opts.Interval.Seconds()),
			Key:      key,
		})
	}
	return tl, nil
}

func walk(rng *rand.Rand, count int, step float64) []timeline.Vec3 {
	positions := make([]timeline.Vec3, 0, count)
	var x, z float64
	heading := rng.Float64() * 2 * math.Pi
	for i := 0; i < count; i++ {
		positions = append(positions, ground(x, z))
		heading += rng.NormFloat64() * 0.3
		x += step * math.Cos(heading)
		z += step * math.Sin(heading)
	}
	return positions
}

func loop(count int, step float64) []timeline.Vec3 {
	positions := make([]timeline.Vec3, 0, count)
	if count == 0 {
		return positions
	}
	radius := step * float64(count) / (2 * math.Pi)
	for i := 0; i < count; i++ {
		a := 2 * math.Pi * float64(i) / float64(count)
		positions = append(positions, ground(radius*math.Cos(a)-radius, radius*math.Sin(a)))
	}
	return positions
}

func corridor(count int, step float64) []timeline.Vec3 {
	const aisle = 10 // samples per aisle
	positions := make([]timeline.Vec3, 0, count)
	for i := 0; i < count; i++ {
		row, col := i/aisle, i%aisle
		if row%2 == 1 {
			col = aisle - 1 - col
		}
		positions = append(positions, ground(float64(col)*step, float64(row)*2*step))
	}
	return positions
}

// PositionAt linearly interpolates positions at fractional sample index f.
// Indices past the end return the last sample. positions must not be empty.
func PositionAt(positions []timeline.Vec3, f float64) timeline.Vec3 {
	i := int(f)
	if i >= len(positions)-1 {
		return positions[len(positions)-1]
	}
	a, b := positions[i], positions[i+1]
	t := float32(f - float64(i))
	return timeline.Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

func ground(x, z float64) timeline.Vec3 {
	return timeline.Vec3{X: float32(x), Z: float32(z)}
}
