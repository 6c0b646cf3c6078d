package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
)

// MemoryStorage keeps timelines in a map. It backs tests and the serve
// command's scratch mode. Thread-safe for concurrent use.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]memItem
	clock clock.Clock
}

type memItem struct {
	value   []byte
	savedAt time.Time
}

// NewMemoryStorage creates an empty store. A nil clock uses real time.
func NewMemoryStorage(c clock.Clock) *MemoryStorage {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &MemoryStorage{
		items: make(map[string]memItem),
		clock: c,
	}
}

func (s *MemoryStorage) Save(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := memItem{value: make([]byte, len(data)), savedAt: s.clock.Now()}
	copy(item.value, data)
	s.items[name] = item
	return nil
}

func (s *MemoryStorage) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[name]
	if !ok {
		return nil, unavailable(name, nil)
	}
	// Return a copy to prevent mutation.
	val := make([]byte, len(item.value))
	copy(val, item.value)
	return val, nil
}

func (s *MemoryStorage) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SavedAt returns when name was last saved.
func (s *MemoryStorage) SavedAt(name string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[name]
	return item.savedAt, ok
}

// Delete removes a timeline.
func (s *MemoryStorage) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, name)
}

// Len returns the number of stored timelines.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStorage) Close() error { return nil }
