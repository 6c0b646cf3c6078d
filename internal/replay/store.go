package replay

import (
	"context"
	"fmt"
	"sync"

	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// Store holds the timeline under review. Its contents only change on Load,
// LoadFrom and Set; readers never see a partially loaded timeline.
type Store struct {
	mu   sync.RWMutex
	tl   timeline.Timeline
	name string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load decodes data and replaces the stored timeline. On failure the store
// is left empty and the decode error is returned.
func (s *Store) Load(data []byte) (timeline.Timeline, error) {
	tl, err := timeline.Decode(data)
	if err != nil {
		s.Set("", timeline.Timeline{})
		return timeline.Timeline{}, fmt.Errorf("loading timeline: %w", err)
	}
	s.Set("", tl)
	return tl.Clone(), nil
}

// LoadFrom reads name from st and loads it. Read failures leave the store
// empty and are reported as timeline.ErrStorageUnavailable.
func (s *Store) LoadFrom(ctx context.Context, st storage.Storage, name string) (timeline.Timeline, error) {
	data, err := st.Load(ctx, name)
	if err != nil {
		s.Set("", timeline.Timeline{})
		return timeline.Timeline{}, err
	}
	tl, err := s.Load(data)
	if err != nil {
		return tl, fmt.Errorf("%s: %w", name, err)
	}
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
	return tl, nil
}

// Set replaces the stored timeline with a copy of tl.
func (s *Store) Set(name string, tl timeline.Timeline) {
	tl = tl.Clone()
	s.mu.Lock()
	s.tl = tl
	s.name = name
	s.mu.Unlock()
}

// Name returns the storage name the timeline was loaded from, if any.
func (s *Store) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Timeline returns a copy of the stored timeline.
func (s *Store) Timeline() timeline.Timeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tl.Clone()
}

// Count returns the number of position samples.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tl.Positions)
}

// PositionAt returns sample i. Out-of-range indices are a caller bug and
// yield timeline.ErrIndexOutOfRange rather than a clamped sample.
func (s *Store) PositionAt(i int) (timeline.Vec3, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.tl.Positions) {
		return timeline.Vec3{}, fmt.Errorf("%w: %d not in [0, %d)", timeline.ErrIndexOutOfRange, i, len(s.tl.Positions))
	}
	return s.tl.Positions[i], nil
}

// Positions returns a copy of every sample, in order.
func (s *Store) Positions() []timeline.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]timeline.Vec3, len(s.tl.Positions))
	copy(out, s.tl.Positions)
	return out
}

// KeyEvents returns a copy of the recorded key events.
func (s *Store) KeyEvents() []timeline.KeyEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]timeline.KeyEvent, len(s.tl.KeyEvents))
	copy(out, s.tl.KeyEvents)
	return out
}

// Events returns the key events passing f, in recorded order.
func (s *Store) Events(f Filter) []timeline.KeyEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []timeline.KeyEvent
	for _, e := range s.tl.KeyEvents {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
