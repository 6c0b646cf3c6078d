package recorder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/SmitUplenchwar2687/Retrace/internal/agent"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

func TestImport_SamplesOnSessionTime(t *testing.T) {
	stream := strings.Join([]string{
		`{"t":2.0,"pos":{"x":0,"y":0,"z":0}}`,
		`{"t":2.25,"pos":{"x":1,"y":0,"z":0}}`,
		``,
		`{"t":2.5,"pos":{"x":2,"y":0,"z":0}}`,
		`{"t":2.75,"key":"Space"}`,
		`{"t":3.5,"pos":{"x":3,"y":0,"z":0}}`,
	}, "\n")

	a := agent.New(timeline.Vec3{})
	rec := New(a, WithLogger(quiet))

	stats, err := Import(context.Background(), strings.NewReader(stream), rec, a)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.Lines != 5 {
		t.Errorf("Lines = %d, want 5", stats.Lines)
	}
	if stats.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", stats.Duration)
	}
	if !rec.Recording() {
		t.Error("Import() stopped the recorder; the caller owns Stop")
	}

	tl := rec.Stop()
	// The 0.5s tick lands exactly on the third line and sees its position.
	wantPositions := []timeline.Vec3{{X: 0}, {X: 2}, {X: 2}, {X: 3}}
	if diff := cmp.Diff(wantPositions, tl.Positions); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	wantEvents := []timeline.KeyEvent{{Time: 0.75, Position: timeline.Vec3{X: 2}, Key: timeline.KeySpace}}
	if diff := cmp.Diff(wantEvents, tl.KeyEvents); diff != "" {
		t.Errorf("key events mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_TimeGoesBackwards(t *testing.T) {
	stream := "{\"t\":1,\"pos\":{\"x\":0,\"y\":0,\"z\":0}}\n{\"t\":0.5,\"pos\":{\"x\":1,\"y\":0,\"z\":0}}\n"
	a := agent.New(timeline.Vec3{})
	rec := New(a, WithLogger(quiet))

	stats, err := Import(context.Background(), strings.NewReader(stream), rec, a)
	if err == nil || !strings.Contains(err.Error(), "backwards") {
		t.Fatalf("Import() error = %v, want time went backwards", err)
	}
	if stats.Lines != 1 {
		t.Errorf("Lines = %d, want 1", stats.Lines)
	}
}

func TestImport_BadLine(t *testing.T) {
	stream := "{\"t\":0}\n{not json}\n"
	a := agent.New(timeline.Vec3{})
	rec := New(a, WithLogger(quiet))

	_, err := Import(context.Background(), strings.NewReader(stream), rec, a)
	if err == nil || !strings.Contains(err.Error(), "telemetry line 2") {
		t.Fatalf("Import() error = %v, want error naming line 2", err)
	}
}

func TestImport_AlreadyRecording(t *testing.T) {
	a := agent.New(timeline.Vec3{})
	rec := New(a, WithLogger(quiet))
	rec.Start()

	_, err := Import(context.Background(), strings.NewReader(`{"t":0}`), rec, a)
	if err == nil {
		t.Fatal("Import() into a running recorder succeeded")
	}
}

func TestImport_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := agent.New(timeline.Vec3{})
	rec := New(a, WithLogger(quiet))
	_, err := Import(ctx, strings.NewReader(`{"t":0}`), rec, a)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Import() error = %v, want context.Canceled", err)
	}
}
