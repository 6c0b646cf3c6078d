package timeline

import (
	"errors"
	"testing"
	"time"
)

func TestEncodeDecode(t *testing.T) {
	tl := Timeline{
		Positions: []Vec3{{X: 1}, {X: 1, Z: 2.5}},
		KeyEvents: []KeyEvent{{Time: 0.25, Position: Vec3{X: 1}, Key: KeyM}},
	}
	data, err := Encode(tl)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got.Positions) != 2 || got.Positions[1].Z != 2.5 || got.KeyEvents[0].Key != KeyM {
		t.Fatalf("Decode() = %+v", got)
	}

	if s := Summarize(got, DefaultInterval); s.Duration != 500*time.Millisecond || s.Distance != 2.5 {
		t.Fatalf("Summarize() = %+v", s)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte("{")); !errors.Is(err, ErrMalformedData) {
		t.Fatalf("Decode() error = %v, want ErrMalformedData", err)
	}
}
