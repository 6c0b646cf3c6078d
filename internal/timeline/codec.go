package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode serializes t as indented JSON. Output is deterministic: field order
// follows the struct declarations and float32 values are written in their
// shortest exact form, so Decode(Encode(t)) reproduces every coordinate.
// Nil slices are written as empty arrays.
func Encode(t Timeline) ([]byte, error) {
	out := t.Clone()
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding timeline: %w", err)
	}
	return append(data, '\n'), nil
}

// EncodeTo writes the encoded timeline to w.
func EncodeTo(w io.Writer, t Timeline) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// The wire types use pointers so that absent fields can be told apart from
// zero values.
type wireVec struct {
	X *float32 `json:"x"`
	Y *float32 `json:"y"`
	Z *float32 `json:"z"`
}

type wireKeyEvent struct {
	Time     *float32 `json:"time"`
	Position *wireVec `json:"position"`
	Key      *string  `json:"key"`
}

type wireTimeline struct {
	PlayerPositions *[]wireVec     `json:"playerPositions"`
	KeyEvents       []wireKeyEvent `json:"keyEvents"`
}

// Decode parses a persisted timeline. It fails with ErrMalformedData when
// the input is not JSON, has no playerPositions array, or contains a
// position or key event with a missing field. A missing or null keyEvents
// array predates key capture and decodes to an empty slice.
func Decode(data []byte) (Timeline, error) {
	var raw wireTimeline
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Timeline{}, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	if raw.PlayerPositions == nil {
		return Timeline{}, fmt.Errorf("%w: missing playerPositions", ErrMalformedData)
	}

	t := Timeline{
		Positions: make([]Vec3, 0, len(*raw.PlayerPositions)),
		KeyEvents: make([]KeyEvent, 0, len(raw.KeyEvents)),
	}
	for i, w := range *raw.PlayerPositions {
		v, ok := w.vec()
		if !ok {
			return Timeline{}, fmt.Errorf("%w: playerPositions[%d] is incomplete", ErrMalformedData, i)
		}
		t.Positions = append(t.Positions, v)
	}
	for i, w := range raw.KeyEvents {
		if w.Time == nil || w.Position == nil || w.Key == nil || *w.Key == "" {
			return Timeline{}, fmt.Errorf("%w: keyEvents[%d] is incomplete", ErrMalformedData, i)
		}
		pos, ok := w.Position.vec()
		if !ok {
			return Timeline{}, fmt.Errorf("%w: keyEvents[%d].position is incomplete", ErrMalformedData, i)
		}
		t.KeyEvents = append(t.KeyEvents, KeyEvent{Time: *w.Time, Position: pos, Key: Key(*w.Key)})
	}
	return t, nil
}

// DecodeFrom reads all of r and decodes it.
func DecodeFrom(r io.Reader) (Timeline, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Timeline{}, fmt.Errorf("reading timeline: %w", err)
	}
	return Decode(data)
}

func (w wireVec) vec() (Vec3, bool) {
	if w.X == nil || w.Y == nil || w.Z == nil {
		return Vec3{}, false
	}
	return Vec3{X: *w.X, Y: *w.Y, Z: *w.Z}, true
}
