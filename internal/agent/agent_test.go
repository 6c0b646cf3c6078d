package agent

import (
	"sync"
	"testing"

	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

func TestAgent_SetPosition(t *testing.T) {
	a := New(timeline.Vec3{X: 1})
	if got := a.Position(); got != (timeline.Vec3{X: 1}) {
		t.Errorf("Position() = %v, want (1, 0, 0)", got)
	}

	a.SetPosition(timeline.Vec3{X: 2, Y: 3, Z: 4})
	if got := a.Position(); got != (timeline.Vec3{X: 2, Y: 3, Z: 4}) {
		t.Errorf("Position() = %v, want (2, 3, 4)", got)
	}
	if a.Moves() != 1 {
		t.Errorf("Moves() = %d, want 1", a.Moves())
	}
}

func TestAgent_ConcurrentAccess(t *testing.T) {
	var a Agent
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			a.SetPosition(timeline.Vec3{X: float32(i)})
		}(i)
		go func() {
			defer wg.Done()
			_ = a.Position()
		}()
	}
	wg.Wait()
	if a.Moves() != 50 {
		t.Errorf("Moves() = %d, want 50", a.Moves())
	}
}
