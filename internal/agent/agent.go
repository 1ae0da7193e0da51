// Package agent defines the single Agent type shared by enemies and players.
// An enemy composes a Status, a Perception, a locomotion Policy and an attack
// Sequencer; the archetype only selects the policy and tuning. A player
// carries a Status and is moved by its controller from outside.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/udisondev/roboquest/internal/combat"
	"github.com/udisondev/roboquest/internal/data"
	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/locomotion"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/perception"
	"github.com/udisondev/roboquest/internal/schedule"
	"github.com/udisondev/roboquest/internal/status"
)

// DefaultRadius is the hit radius of an agent body.
const DefaultRadius = 40.0

// DeathFunc is called exactly once when an agent's health reaches zero.
type DeathFunc func(a *Agent, instigator model.AgentID)

// Agent is one participant of the simulation.
type Agent struct {
	id        model.AgentID
	name      string
	faction   model.Faction
	archetype model.Archetype
	template  *model.AgentTemplate
	moveSpeed float64
	radius    float64

	mu        sync.RWMutex
	transform model.Transform
	hidden    bool

	status     *status.Status
	perception *perception.Perception
	policy     locomotion.Policy
	sequencer  *combat.Sequencer

	deathOnce sync.Once
	dead      bool
	killer    model.AgentID
	deathFunc DeathFunc
}

// EnemyDeps are the collaborators wired into a new enemy.
type EnemyDeps struct {
	Registry     perception.Registry
	LOS          perception.LineOfSight
	Stats        data.StatProvider
	StatusConfig status.Config
	Scheduler    *schedule.Scheduler
	Cues         combat.CuePlayer
	Spawner      combat.Spawner
	Tracer       combat.Tracer
	Navigator    locomotion.Navigator
	Surroundings locomotion.Surroundings
	Sink         event.Sink
	Rand         *rand.Rand
}

// NewEnemy builds a hostile agent from a template.
// Missing archetype stats are logged and the default status is kept.
func NewEnemy(ctx context.Context, id model.AgentID, tmpl *model.AgentTemplate, at model.Transform, deps EnemyDeps) (*Agent, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("creating enemy %d: nil template", id)
	}

	a := &Agent{
		id:        id,
		name:      tmpl.Name,
		faction:   model.FactionHostile,
		archetype: tmpl.Archetype,
		template:  tmpl,
		moveSpeed: tmpl.Locomotion.MoveSpeed,
		radius:    DefaultRadius,
		transform: at,
	}

	a.status = status.New(id, deps.StatusConfig, deps.Sink)
	// error already logged by status; the enemy keeps default stats
	_ = a.status.InitializeFromArchetype(ctx, deps.Stats, tmpl.Name, tmpl.Level)

	a.perception = perception.New(id, a.faction, &a.transform,
		tmpl.Locomotion.DetectRange, tmpl.Locomotion.EyeHeight,
		deps.Registry, deps.LOS)

	policy, err := locomotion.New(tmpl.Archetype, tmpl.Locomotion, locomotion.Deps{
		Owner:        id,
		Rand:         deps.Rand,
		Surroundings: deps.Surroundings,
		Navigator:    deps.Navigator,
	})
	if err != nil {
		return nil, fmt.Errorf("creating enemy %d (%s): %w", id, tmpl.Name, err)
	}
	a.policy = policy

	a.sequencer = combat.NewSequencer(a, a.perception, tmpl.Attack, combat.SequencerOptions{
		BaseDamage: a.status.BaseDamage(),
		Range:      tmpl.FireRange(),
		Scheduler:  deps.Scheduler,
		Cues:       deps.Cues,
		Spawner:    deps.Spawner,
		Tracer:     deps.Tracer,
		Sink:       deps.Sink,
	})

	return a, nil
}

// NewPlayer builds a player-controlled agent.
func NewPlayer(id model.AgentID, name string, at model.Transform, moveSpeed float64, cfg status.Config, sink event.Sink) *Agent {
	return &Agent{
		id:        id,
		name:      name,
		faction:   model.FactionPlayer,
		moveSpeed: moveSpeed,
		radius:    DefaultRadius,
		transform: at,
		status:    status.New(id, cfg, sink),
	}
}

// AttachPerception gives a player the same target tracking enemies use.
func (a *Agent) AttachPerception(registry perception.Registry, los perception.LineOfSight, detectRange, eyeHeight float64) *perception.Perception {
	a.perception = perception.New(a.id, a.faction, &a.transform, detectRange, eyeHeight, registry, los)
	return a.perception
}

// ID returns agent id.
func (a *Agent) ID() model.AgentID { return a.id }

// Name returns display name (template name for enemies).
func (a *Agent) Name() string { return a.name }

// Faction returns agent faction.
func (a *Agent) Faction() model.Faction { return a.faction }

// Archetype returns locomotion archetype (meaningless for players).
func (a *Agent) Archetype() model.Archetype { return a.archetype }

// Template returns enemy template, nil for players.
func (a *Agent) Template() *model.AgentTemplate { return a.template }

// Status returns survivability state.
func (a *Agent) Status() *status.Status { return a.status }

// Perception returns target tracking, nil for players without AttachPerception.
func (a *Agent) Perception() *perception.Perception { return a.perception }

// Policy returns locomotion policy, nil for players.
func (a *Agent) Policy() locomotion.Policy { return a.policy }

// Sequencer returns attack sequencer, nil for players.
func (a *Agent) Sequencer() *combat.Sequencer { return a.sequencer }

// Radius returns hit radius.
func (a *Agent) Radius() float64 { return a.radius }

// Transform returns a copy of position and facing.
func (a *Agent) Transform() model.Transform {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.transform
}

// Position returns current position.
func (a *Agent) Position() model.Vec3 {
	return a.Transform().Position
}

// SetTransform moves the agent.
func (a *Agent) SetTransform(t model.Transform) {
	a.mu.Lock()
	a.transform = t
	a.mu.Unlock()
}

// UpdateBody runs fn with exclusive access to the transform.
func (a *Agent) UpdateBody(fn func(body *model.Transform)) {
	a.mu.Lock()
	fn(&a.transform)
	a.mu.Unlock()
}

// IsHidden reports whether perception ignores the agent.
func (a *Agent) IsHidden() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.hidden
}

// SetHidden toggles stealth.
func (a *Agent) SetHidden(hidden bool) {
	a.mu.Lock()
	a.hidden = hidden
	a.mu.Unlock()
}

// MoveSpeed returns base speed scaled by the status speed multiplier.
func (a *Agent) MoveSpeed() float64 {
	return a.moveSpeed * a.status.SpeedMultiplier()
}

// DamageMultiplier returns the level damage multiplier.
func (a *Agent) DamageMultiplier() float64 {
	return a.status.DamageMultiplier()
}

// AddExp grants experience.
func (a *Agent) AddExp(amount float64) {
	a.status.AddExp(amount)
}

// Heal restores health if the agent is alive.
func (a *Agent) Heal(amount float64) {
	if !a.IsAlive() {
		return
	}
	a.status.Heal(amount)
}

// IsAlive returns true until health reaches zero.
func (a *Agent) IsAlive() bool {
	a.mu.RLock()
	dead := a.dead
	a.mu.RUnlock()
	return !dead && !a.status.IsDead()
}

// Killer returns the instigator of the killing blow.
func (a *Agent) Killer() model.AgentID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.killer
}

// SetDeathFunc sets the callback for the death transition.
func (a *Agent) SetDeathFunc(fn DeathFunc) {
	a.deathFunc = fn
}

// ApplyDamage applies a hit: health first, then stagger, then the death
// transition if health reached zero. Returns effective damage.
func (a *Agent) ApplyDamage(instigator model.AgentID, amount float64) float64 {
	if amount <= 0 || !a.IsAlive() {
		return 0
	}

	effective := a.status.TakeDamage(amount)
	if a.sequencer != nil {
		a.sequencer.OnStaggered(amount)
	}

	if a.status.IsDead() {
		a.die(instigator)
	}
	return effective
}

// die performs the terminal transition once.
func (a *Agent) die(instigator model.AgentID) {
	a.deathOnce.Do(func() {
		a.mu.Lock()
		a.dead = true
		a.killer = instigator
		a.mu.Unlock()

		if a.sequencer != nil {
			a.sequencer.Cancel()
		}

		slog.Debug("agent died",
			"agent", a.id,
			"name", a.name,
			"killer", instigator)

		if a.deathFunc != nil {
			a.deathFunc(a, instigator)
		}
	})
}

// AsTarget returns the perception view of the agent.
func (a *Agent) AsTarget() perception.Target {
	a.mu.RLock()
	pos := a.transform.Position
	hidden := a.hidden
	a.mu.RUnlock()
	return perception.Target{
		ID:       a.id,
		Faction:  a.faction,
		Position: pos,
		Alive:    a.IsAlive(),
		Hidden:   hidden,
	}
}

// AsBody returns the hit volume of the agent.
func (a *Agent) AsBody() combat.Body {
	return combat.Body{ID: a.id, Center: a.Position(), Radius: a.radius}
}
