package recorder

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// TelemetryLine is one line of a newline-delimited session stream produced
// by the game: a position update, a key press, or both. T is in seconds and
// must not decrease from line to line.
type TelemetryLine struct {
	T   float64        `json:"t"`
	Pos *timeline.Vec3 `json:"pos,omitempty"`
	Key timeline.Key   `json:"key,omitempty"`
}

// PositionSetter is the write side of the agent.
type PositionSetter interface {
	SetPosition(timeline.Vec3)
}

// ImportStats describes a finished import.
type ImportStats struct {
	Lines    int
	Duration time.Duration
}

// Import drives rec through a telemetry stream, using the line timestamps
// as session time. Recording starts at the first line and is left running;
// the caller stops (and saves) it. Ticks due strictly before a line's
// timestamp sample the previous position, a tick landing exactly on it
// samples the new one.
func Import(ctx context.Context, r io.Reader, rec *Recorder, agent PositionSetter) (ImportStats, error) {
	var stats ImportStats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var prev time.Duration
	started := false
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var line TelemetryLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return stats, fmt.Errorf("telemetry line %d: %w", stats.Lines+1, err)
		}
		if math.IsNaN(line.T) || math.IsInf(line.T, 0) {
			return stats, fmt.Errorf("telemetry line %d: invalid time", stats.Lines+1)
		}
		at := time.Duration(line.T * float64(time.Second))

		if !started {
			if line.Pos != nil {
				agent.SetPosition(*line.Pos)
			}
			if !rec.Start() {
				return stats, fmt.Errorf("recorder is already recording")
			}
			rec.Update(0)
			started = true
			prev = at
		} else {
			dt := at - prev
			if dt < 0 {
				return stats, fmt.Errorf("telemetry line %d: time went backwards (%.3fs after %.3fs)",
					stats.Lines+1, line.T, prev.Seconds())
			}
			if dt > 0 {
				rec.Update(dt - 1)
			}
			if line.Pos != nil {
				agent.SetPosition(*line.Pos)
			}
			if dt > 0 {
				rec.Update(1)
			}
			stats.Duration += dt
			prev = at
		}

		if line.Key != "" {
			rec.RecordKeyEvent(line.Key)
		}
		stats.Lines++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading telemetry: %w", err)
	}
	return stats, nil
}
