// Package timeline exposes the recorded trajectory types and their JSON
// encoding.
package timeline

import (
	"io"
	"time"

	internaltimeline "github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// DefaultInterval is the recording period used by the wayfinding sessions.
const DefaultInterval = internaltimeline.DefaultInterval

// Vec3 is one sampled world position.
type Vec3 = internaltimeline.Vec3

// Key identifies a discrete input recorded during a session.
type Key = internaltimeline.Key

const (
	KeySpace = internaltimeline.KeySpace
	KeyM     = internaltimeline.KeyM
)

// KeyEvent is a key press with the session time and position it happened at.
type KeyEvent = internaltimeline.KeyEvent

// Timeline is the recorded trajectory of one session.
type Timeline = internaltimeline.Timeline

// Stats summarizes a recorded session.
type Stats = internaltimeline.Stats

var (
	ErrMalformedData      = internaltimeline.ErrMalformedData
	ErrIndexOutOfRange    = internaltimeline.ErrIndexOutOfRange
	ErrStorageUnavailable = internaltimeline.ErrStorageUnavailable
)

// Encode serializes t as indented JSON.
func Encode(t Timeline) ([]byte, error) {
	return internaltimeline.Encode(t)
}

// EncodeTo writes the encoded timeline to w.
func EncodeTo(w io.Writer, t Timeline) error {
	return internaltimeline.EncodeTo(w, t)
}

// Decode parses a persisted timeline.
func Decode(data []byte) (Timeline, error) {
	return internaltimeline.Decode(data)
}

// DecodeFrom reads all of r and decodes it.
func DecodeFrom(r io.Reader) (Timeline, error) {
	return internaltimeline.DecodeFrom(r)
}

// Summarize computes Stats for t sampled at interval.
func Summarize(t Timeline, interval time.Duration) Stats {
	return internaltimeline.Summarize(t, interval)
}
