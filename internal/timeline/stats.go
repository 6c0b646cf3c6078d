package timeline

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Stats summarizes a recorded session for review output.
type Stats struct {
	Samples   int           `json:"samples"`
	KeyEvents int           `json:"key_events"`
	Duration  time.Duration `json:"duration"`
	Distance  float64       `json:"distance"` // path length through all samples
	Min       Vec3          `json:"min"`
	Max       Vec3          `json:"max"`
	Keys      map[Key]int   `json:"keys"`
}

// Summarize computes Stats for t sampled at interval.
func Summarize(t Timeline, interval time.Duration) Stats {
	s := Stats{
		Samples:   len(t.Positions),
		KeyEvents: len(t.KeyEvents),
		Duration:  t.Duration(interval),
		Keys:      t.CountKeys(),
	}
	if len(t.Positions) == 0 {
		return s
	}

	box := r3.Box{Min: toR3(t.Positions[0]), Max: toR3(t.Positions[0])}
	for i := 1; i < len(t.Positions); i++ {
		p := toR3(t.Positions[i])
		s.Distance += r3.Norm(r3.Sub(p, toR3(t.Positions[i-1])))
		box = extend(box, p)
	}
	s.Min = fromR3(box.Min)
	s.Max = fromR3(box.Max)
	return s
}

func extend(b r3.Box, p r3.Vec) r3.Box {
	b.Min = r3.Vec{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
	b.Max = r3.Vec{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
	return b
}

func toR3(v Vec3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func fromR3(v r3.Vec) Vec3 {
	return Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
