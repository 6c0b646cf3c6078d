package clock

import (
	"testing"
	"time"
)

const interval = 500 * time.Millisecond

func collect(t *testing.T) (*Ticker, *[]int) {
	t.Helper()
	var ticks []int
	tk := NewTicker(interval, func(_, n int) { ticks = append(ticks, n) })
	return tk, &ticks
}

func TestTicker_FirstTickOnFirstAdvance(t *testing.T) {
	tk, ticks := collect(t)
	tk.Start()

	if len(*ticks) != 0 {
		t.Fatalf("Start() fired %d ticks, want 0", len(*ticks))
	}
	if n := tk.Advance(0); n != 1 {
		t.Errorf("Advance(0) fired %d ticks, want 1", n)
	}
	if n := tk.Advance(0); n != 0 {
		t.Errorf("second Advance(0) fired %d ticks, want 0", n)
	}
}

func TestTicker_IndependentOfFrameRate(t *testing.T) {
	for _, frame := range []time.Duration{
		time.Millisecond,
		16 * time.Millisecond,
		33 * time.Millisecond,
		100 * time.Millisecond,
		interval,
	} {
		tk, ticks := collect(t)
		tk.Start()
		for elapsed := time.Duration(0); elapsed < 5*time.Second; elapsed += frame {
			tk.Advance(frame)
		}
		// Elapsed ends at 5s (or just past it), ticks at 0, 0.5, ..., 5.0.
		if got := len(*ticks); got != 11 {
			t.Errorf("frame %v: fired %d ticks, want 11", frame, got)
		}
	}
}

func TestTicker_NoCumulativeDrift(t *testing.T) {
	tk, ticks := collect(t)
	tk.Start()

	// Frames of 300ms: deadlines are at fixed multiples of the interval,
	// so 20 frames (6s) yield ticks at 0..6s = 13, not one per "restart".
	for i := 0; i < 20; i++ {
		tk.Advance(300 * time.Millisecond)
	}
	if got := len(*ticks); got != 13 {
		t.Errorf("fired %d ticks, want 13", got)
	}
	if got := tk.Elapsed(); got != 6*time.Second {
		t.Errorf("Elapsed() = %v, want 6s", got)
	}
}

func TestTicker_LargeAdvanceFiresOverdueInOrder(t *testing.T) {
	tk, ticks := collect(t)
	tk.Start()

	if n := tk.Advance(2 * time.Second); n != 5 {
		t.Fatalf("Advance(2s) fired %d ticks, want 5", n)
	}
	for i, n := range *ticks {
		if n != i {
			t.Errorf("tick %d reported number %d", i, n)
		}
	}
}

func TestTicker_StopPreventsFurtherTicks(t *testing.T) {
	tk, ticks := collect(t)
	tk.Start()
	tk.Advance(time.Second)
	tk.Stop()

	if n := tk.Advance(10 * time.Second); n != 0 {
		t.Errorf("Advance after Stop fired %d ticks", n)
	}
	if len(*ticks) != 3 {
		t.Errorf("fired %d ticks total, want 3", len(*ticks))
	}
	if tk.Active() {
		t.Error("Active() = true after Stop")
	}
}

func TestTicker_StopFromCallbackCancelsOwedTicks(t *testing.T) {
	var tk *Ticker
	var ticks []int
	tk = NewTicker(interval, func(_, n int) {
		ticks = append(ticks, n)
		if n == 1 {
			tk.Stop()
		}
	})
	tk.Start()

	tk.Advance(5 * time.Second)
	if len(ticks) != 2 {
		t.Errorf("fired %d ticks, want 2 (stop at tick 1)", len(ticks))
	}
}

func TestTicker_StartIsNotReentrant(t *testing.T) {
	tk, ticks := collect(t)
	if !tk.Start() {
		t.Fatal("first Start() = false")
	}
	tk.Advance(interval)
	if tk.Start() {
		t.Error("Start() on active ticker = true, want false")
	}
	// Elapsed and tick count are not reset by the rejected Start.
	tk.Advance(interval)
	if len(*ticks) != 3 {
		t.Errorf("fired %d ticks, want 3", len(*ticks))
	}
}

func TestTicker_RestartResetsElapsed(t *testing.T) {
	tk, ticks := collect(t)
	tk.Start()
	tk.Advance(time.Second)
	tk.Stop()

	tk.Start()
	if tk.Elapsed() != 0 || tk.Fired() != 0 {
		t.Errorf("after restart Elapsed=%v Fired=%d, want 0/0", tk.Elapsed(), tk.Fired())
	}
	tk.Advance(0)
	if got := (*ticks)[len(*ticks)-1]; got != 0 {
		t.Errorf("first tick after restart = %d, want 0", got)
	}
}

func TestNewTicker_NonPositiveIntervalPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for zero interval")
		}
	}()
	NewTicker(0, nil)
}

func TestTicker_RunNumbersEachStart(t *testing.T) {
	var runs []int
	tk := NewTicker(interval, func(run, _ int) { runs = append(runs, run) })
	if tk.Run() != 0 {
		t.Errorf("Run() before Start = %d, want 0", tk.Run())
	}

	tk.Start()
	tk.Advance(interval)
	tk.Stop()
	tk.Start()
	tk.Advance(0)
	tk.Start() // already active, same run

	if tk.Run() != 2 {
		t.Errorf("Run() = %d, want 2", tk.Run())
	}
	if len(runs) != 3 || runs[0] != 1 || runs[1] != 1 || runs[2] != 2 {
		t.Errorf("ticks came from runs %v, want [1 1 2]", runs)
	}
}
