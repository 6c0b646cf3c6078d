package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualClock_Now(t *testing.T) {
	vc := NewVirtualClock(epoch)
	if got := vc.Now(); !got.Equal(epoch) {
		t.Errorf("Now() = %v, want %v", got, epoch)
	}
}

func TestVirtualClock_Advance(t *testing.T) {
	vc := NewVirtualClock(epoch)
	vc.Advance(500 * time.Millisecond)
	vc.Advance(500 * time.Millisecond)

	want := epoch.Add(time.Second)
	if got := vc.Now(); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", got, want)
	}
	if got := vc.Since(epoch); got != time.Second {
		t.Errorf("Since() = %v, want 1s", got)
	}
}

func TestVirtualClock_AdvanceNegativePanics(t *testing.T) {
	vc := NewVirtualClock(epoch)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on negative advance")
		}
	}()
	vc.Advance(-1 * time.Second)
}

func TestVirtualClock_SetPastPanics(t *testing.T) {
	vc := NewVirtualClock(epoch)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on setting time to the past")
		}
	}()
	vc.Set(epoch.Add(-1 * time.Hour))
}

func TestVirtualClock_After_FiresOnAdvance(t *testing.T) {
	vc := NewVirtualClock(epoch)
	ch := vc.After(500 * time.Millisecond)

	select {
	case <-ch:
		t.Fatal("After() fired before advance")
	default:
	}
	if vc.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", vc.Pending())
	}

	vc.Advance(500 * time.Millisecond)

	select {
	case got := <-ch:
		want := epoch.Add(500 * time.Millisecond)
		if !got.Equal(want) {
			t.Errorf("After() sent %v, want %v", got, want)
		}
	default:
		t.Fatal("After() did not fire after advance")
	}
	if vc.Pending() != 0 {
		t.Errorf("Pending() = %d after firing, want 0", vc.Pending())
	}
}

func TestVirtualClock_After_FiresOnSet(t *testing.T) {
	vc := NewVirtualClock(epoch)
	ch := vc.After(time.Hour)

	vc.Set(epoch.Add(2 * time.Hour))

	select {
	case <-ch:
	default:
		t.Fatal("After() did not fire after Set()")
	}
}

func TestVirtualClock_After_ZeroDuration(t *testing.T) {
	vc := NewVirtualClock(epoch)

	select {
	case <-vc.After(0):
	default:
		t.Fatal("After(0) should fire immediately")
	}
}

func TestVirtualClock_After_FiresInDeadlineOrder(t *testing.T) {
	vc := NewVirtualClock(epoch)
	late := vc.After(10 * time.Second)
	early := vc.After(time.Second)
	mid := vc.After(5 * time.Second)

	vc.Advance(5 * time.Second)

	select {
	case <-early:
	default:
		t.Error("early waiter should have fired")
	}
	select {
	case <-mid:
	default:
		t.Error("mid waiter should have fired")
	}
	select {
	case <-late:
		t.Error("late waiter should NOT have fired")
	default:
	}

	vc.Advance(5 * time.Second)
	select {
	case <-late:
	default:
		t.Error("late waiter should have fired after second advance")
	}
}

func TestVirtualClock_ConcurrentAccess(t *testing.T) {
	vc := NewVirtualClock(epoch)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = vc.Now()
			_ = vc.Since(epoch)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			vc.Advance(time.Millisecond)
		}
	}()

	wg.Wait()

	want := epoch.Add(100 * time.Millisecond)
	if got := vc.Now(); !got.Equal(want) {
		t.Errorf("after concurrent ops, Now() = %v, want %v", got, want)
	}
}

func TestRealClock_Implements_Clock(t *testing.T) {
	var _ Clock = NewRealClock()
}

func TestVirtualClock_Implements_Clock(t *testing.T) {
	var _ Clock = NewVirtualClock(time.Now())
}
