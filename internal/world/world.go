// Package world keeps the set of live agents and answers the lookups the
// rest of the simulation needs: perception targets, damage victims and
// hitscan bodies.
package world

import (
	"fmt"
	"sync"

	"github.com/udisondev/roboquest/internal/agent"
	"github.com/udisondev/roboquest/internal/combat"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/perception"
)

// World is the agent registry. Iteration follows insertion order so ticks
// are reproducible.
type World struct {
	mu     sync.RWMutex
	agents map[model.AgentID]*agent.Agent
	order  []model.AgentID
	ids    *IDGenerator
}

// New creates an empty world.
func New() *World {
	return &World{
		agents: make(map[model.AgentID]*agent.Agent),
		ids:    NewIDGenerator(),
	}
}

// IDs returns the id generator.
func (w *World) IDs() *IDGenerator {
	return w.ids
}

// Add registers an agent.
func (w *World) Add(a *agent.Agent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if a.ID() == model.NoAgent {
		return fmt.Errorf("adding agent %q: zero id", a.Name())
	}
	if _, exists := w.agents[a.ID()]; exists {
		return fmt.Errorf("adding agent %d: already registered", a.ID())
	}

	w.agents[a.ID()] = a
	w.order = append(w.order, a.ID())
	return nil
}

// Remove unregisters an agent. Unknown ids are ignored.
func (w *World) Remove(id model.AgentID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.agents[id]; !ok {
		return
	}
	delete(w.agents, id)
	for i, v := range w.order {
		if v == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Get returns agent by id.
func (w *World) Get(id model.AgentID) (*agent.Agent, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	a, ok := w.agents[id]
	return a, ok
}

// Count returns number of registered agents.
func (w *World) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.agents)
}

// ForEach calls fn for every agent in insertion order until fn returns false.
func (w *World) ForEach(fn func(*agent.Agent) bool) {
	for _, a := range w.snapshot() {
		if !fn(a) {
			return
		}
	}
}

// CountAlive returns number of live agents of a faction.
func (w *World) CountAlive(faction model.Faction) int {
	n := 0
	w.ForEach(func(a *agent.Agent) bool {
		if a.Faction() == faction && a.IsAlive() {
			n++
		}
		return true
	})
	return n
}

// Resolve implements perception.Registry.
func (w *World) Resolve(id model.AgentID) (perception.Target, bool) {
	a, ok := w.Get(id)
	if !ok {
		return perception.Target{}, false
	}
	return a.AsTarget(), true
}

// ForEachTarget implements perception.Registry.
func (w *World) ForEachTarget(fn func(perception.Target) bool) {
	w.ForEach(func(a *agent.Agent) bool {
		return fn(a.AsTarget())
	})
}

// Victim looks up a damage victim.
func (w *World) Victim(id model.AgentID) (combat.Victim, bool) {
	a, ok := w.Get(id)
	if !ok {
		return nil, false
	}
	return a, true
}

// ScanBodies walks the hit volumes of live agents.
func (w *World) ScanBodies(fn func(combat.Body) bool) {
	w.ForEach(func(a *agent.Agent) bool {
		if !a.IsAlive() {
			return true
		}
		return fn(a.AsBody())
	})
}

// snapshot copies the agent list so callbacks may mutate the world.
func (w *World) snapshot() []*agent.Agent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*agent.Agent, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.agents[id])
	}
	return out
}

var _ perception.Registry = (*World)(nil)
