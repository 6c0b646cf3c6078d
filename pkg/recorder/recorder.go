package recorder

import (
	"context"
	"io"

	internalrecorder "github.com/SmitUplenchwar2687/Retrace/internal/recorder"
)

// Recorder samples an agent's position at a fixed interval of session time
// and logs key presses in between.
type Recorder = internalrecorder.Recorder

// Option configures a Recorder.
type Option = internalrecorder.Option

// PositionSource is the read side of the agent.
type PositionSource = internalrecorder.PositionSource

// PositionFunc adapts a function to PositionSource.
type PositionFunc = internalrecorder.PositionFunc

// PositionSetter is the write side of the agent, used by Import.
type PositionSetter = internalrecorder.PositionSetter

// TelemetryLine is one line of a newline-delimited session stream.
type TelemetryLine = internalrecorder.TelemetryLine

// ImportStats describes a finished import.
type ImportStats = internalrecorder.ImportStats

// New creates an idle Recorder reading positions from agent.
func New(agent PositionSource, opts ...Option) *Recorder {
	return internalrecorder.New(agent, opts...)
}

var (
	WithInterval = internalrecorder.WithInterval
	WithStorage  = internalrecorder.WithStorage
	WithLogger   = internalrecorder.WithLogger
)

// Import drives rec through a telemetry stream using its timestamps as
// session time.
func Import(ctx context.Context, r io.Reader, rec *Recorder, agent PositionSetter) (ImportStats, error) {
	return internalrecorder.Import(ctx, r, rec, agent)
}
