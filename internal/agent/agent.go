// Package agent holds the position of the navigating player. The recorder
// reads it; the replay player writes it.
package agent

import (
	"sync"

	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// Agent is a thread-safe position holder. The zero value sits at the origin.
type Agent struct {
	mu    sync.RWMutex
	pos   timeline.Vec3
	moves int
}

// New creates an Agent at pos.
func New(pos timeline.Vec3) *Agent {
	return &Agent{pos: pos}
}

// Position returns the current position.
func (a *Agent) Position() timeline.Vec3 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pos
}

// SetPosition moves the agent.
func (a *Agent) SetPosition(p timeline.Vec3) {
	a.mu.Lock()
	a.pos = p
	a.moves++
	a.mu.Unlock()
}

// Moves returns how many times SetPosition has been called.
func (a *Agent) Moves() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.moves
}
