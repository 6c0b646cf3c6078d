package loop

import (
	"context"
	"errors"
	"io"
	"log"
	"runtime"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/agent"
	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
	"github.com/SmitUplenchwar2687/Retrace/internal/recorder"
	"github.com/SmitUplenchwar2687/Retrace/internal/replay"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var quiet = log.New(io.Discard, "", 0)

func TestLoop_StepOrder(t *testing.T) {
	var order []string
	l := New(nil, 0, 0,
		UpdateFunc(func(time.Duration) { order = append(order, "a") }),
	)
	l.Add(UpdateFunc(func(time.Duration) { order = append(order, "b") }))
	l.Add(nil)

	l.Step(time.Millisecond)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
	if l.Frame() != DefaultFrame {
		t.Errorf("Frame() = %v, want %v", l.Frame(), DefaultFrame)
	}
}

func TestLoop_InstantPlaysToCompletion(t *testing.T) {
	s := replay.NewStore()
	s.Set("walk", timeline.Timeline{Positions: []timeline.Vec3{{X: 0}, {X: 1}, {X: 2}, {X: 3}}})
	var indices []int
	p := replay.NewPlayer(s, replay.WithLogger(quiet), replay.WithProgress(func(i, _ int) {
		indices = append(indices, i)
	}))

	l := New(clock.NewVirtualClock(epoch), 10*time.Millisecond, 0, p)
	p.Play()
	stats, err := l.Run(context.Background(), func() bool { return p.State() == replay.Idle })
	if err != nil {
		t.Fatal(err)
	}

	if len(indices) != 4 {
		t.Errorf("progress indices = %v, want 0..3", indices)
	}
	// 4 samples end one interval after the last one: 2s of session time.
	if stats.Frames != 200 {
		t.Errorf("Frames = %d, want 200", stats.Frames)
	}
	if stats.Session != 2*time.Second {
		t.Errorf("Session = %v, want 2s", stats.Session)
	}
	if stats.Wall != 0 {
		t.Errorf("Wall = %v, want 0 on an untouched virtual clock", stats.Wall)
	}
}

func TestLoop_RecordsOnVirtualClock(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	a := agent.New(timeline.Vec3{})
	rec := recorder.New(a, recorder.WithLogger(quiet))
	rec.Start()

	frames := 0
	moves := UpdateFunc(func(time.Duration) {
		frames++
		a.SetPosition(timeline.Vec3{X: float32(frames)})
	})
	l := New(vc, 100*time.Millisecond, 2, moves, rec)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			if vc.Pending() > 0 {
				vc.Advance(50 * time.Millisecond)
			} else {
				runtime.Gosched()
			}
		}
	}()

	// At 2x, each 50ms of clock time is a 100ms frame.
	stats, err := l.Run(context.Background(), func() bool { return frames == 20 })
	if err != nil {
		t.Fatal(err)
	}
	tl := rec.Stop()

	if stats.Session != 2*time.Second {
		t.Errorf("Session = %v, want 2s", stats.Session)
	}
	if stats.Wall != time.Second {
		t.Errorf("Wall = %v, want 1s", stats.Wall)
	}
	if len(tl.Positions) != 5 {
		t.Fatalf("recorded %d samples, want 5", len(tl.Positions))
	}
	// The recorder runs after the mover: tick 0 sees frame 1, tick n frame 5n.
	want := []float32{1, 5, 10, 15, 20}
	for i, p := range tl.Positions {
		if p.X != want[i] {
			t.Errorf("sample %d X = %v, want %v", i, p.X, want[i])
		}
	}
}

func TestLoop_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(clock.NewVirtualClock(epoch), 0, 1)
	_, err := l.Run(ctx, func() bool { return false })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	l = New(clock.NewVirtualClock(epoch), 0, 0)
	stats, err := l.Run(ctx, func() bool { return false })
	if !errors.Is(err, context.Canceled) || stats.Frames != 0 {
		t.Errorf("instant Run() = %d frames, %v", stats.Frames, err)
	}
}
