// Package event carries change notifications from the simulation core to
// observers (UI, logs, telemetry). Events are queued during a tick and
// delivered once per tick by Queue.Flush.
package event

import "github.com/udisondev/roboquest/internal/model"

// Event is a single notification. Source is the agent it concerns.
type Event interface {
	Source() model.AgentID
}

// Sink accepts events. Publish must not block.
type Sink interface {
	Publish(e Event)
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Publish(Event) {}

// HealthChanged is published after any health mutation.
type HealthChanged struct {
	Agent   model.AgentID
	Current float64
	Scratch float64
	Max     float64
}

func (e HealthChanged) Source() model.AgentID { return e.Agent }

// ExpChanged is published once per AddExp call.
type ExpChanged struct {
	Agent  model.AgentID
	Exp    float64
	MaxExp float64
	Level  int32
}

func (e ExpChanged) Source() model.AgentID { return e.Agent }

// LevelUp is published once per level gained.
type LevelUp struct {
	Agent model.AgentID
	Level int32
}

func (e LevelUp) Source() model.AgentID { return e.Agent }

// StatsChanged is published after defense or speed changes.
type StatsChanged struct {
	Agent   model.AgentID
	Defense float64
	Speed   float64
}

func (e StatsChanged) Source() model.AgentID { return e.Agent }

// AgentDied is published once when an agent's health reaches zero.
type AgentDied struct {
	Agent      model.AgentID
	Instigator model.AgentID
}

func (e AgentDied) Source() model.AgentID { return e.Agent }

// AgentRemoved is published when a dead agent leaves the world.
type AgentRemoved struct {
	Agent model.AgentID
}

func (e AgentRemoved) Source() model.AgentID { return e.Agent }

// AttackTelegraphed is published when an attack wind-up starts.
type AttackTelegraphed struct {
	Agent    model.AgentID
	Target   model.AgentID
	Duration float64
}

func (e AttackTelegraphed) Source() model.AgentID { return e.Agent }

// AttackFired is published when projectiles are released.
type AttackFired struct {
	Agent  model.AgentID
	Target model.AgentID
	Shots  int
	Damage float64
}

func (e AttackFired) Source() model.AgentID { return e.Agent }

// AttackInterrupted is published when a stagger cancels an attack.
type AttackInterrupted struct {
	Agent model.AgentID
	From  model.AttackState
}

func (e AttackInterrupted) Source() model.AgentID { return e.Agent }

// ZoneActivated is published when a combat zone spawns its encounter.
type ZoneActivated struct {
	Zone        string
	EncounterID string
	Trigger     model.AgentID
	Spawned     int
}

func (e ZoneActivated) Source() model.AgentID { return e.Trigger }

// HealingPickedUp is published when a healing cell is absorbed.
type HealingPickedUp struct {
	Agent  model.AgentID
	Amount float64
}

func (e HealingPickedUp) Source() model.AgentID { return e.Agent }
