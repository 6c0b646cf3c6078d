package recorder

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/pkg/timeline"
)

func TestRecorderSamples(t *testing.T) {
	pos := timeline.Vec3{}
	rec := New(PositionFunc(func() timeline.Vec3 { return pos }),
		WithInterval(time.Second),
		WithLogger(log.New(io.Discard, "", 0)),
	)
	if !rec.Start() {
		t.Fatal("Start() = false, want true")
	}
	rec.Update(0)
	pos.X = 3
	rec.Update(time.Second)
	rec.RecordKeyEvent(timeline.KeySpace)

	tl := rec.Stop()
	if len(tl.Positions) != 2 || tl.Positions[1].X != 3 {
		t.Fatalf("Positions = %v, want two samples ending at x=3", tl.Positions)
	}
	if len(tl.KeyEvents) != 1 || tl.KeyEvents[0].Time != 1 {
		t.Fatalf("KeyEvents = %v, want one at t=1", tl.KeyEvents)
	}
}
