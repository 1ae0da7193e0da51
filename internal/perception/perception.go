// Package perception selects and tracks an agent's target. The target is held
// as an AgentID and resolved through a Registry on every query, so a removed
// target simply stops resolving.
package perception

import (
	"github.com/udisondev/roboquest/internal/model"
)

// Target is a resolved view of a potential target.
type Target struct {
	ID       model.AgentID
	Faction  model.Faction
	Position model.Vec3
	Alive    bool
	Hidden   bool
}

// Registry resolves agent handles.
// Injected by the world to avoid an import cycle.
type Registry interface {
	Resolve(id model.AgentID) (Target, bool)
	ForEachTarget(fn func(Target) bool)
}

// LineOfSight is the geometry oracle.
type LineOfSight interface {
	IsVisible(from, to model.Vec3, ignore ...model.AgentID) bool
}

// Perception tracks one agent's current target.
// Not safe for concurrent use; owned by the agent's tick.
type Perception struct {
	owner       model.AgentID
	faction     model.Faction
	body        *model.Transform
	detectRange float64
	eyeHeight   float64

	registry Registry
	los      LineOfSight

	target  model.AgentID
	visible bool
}

// New creates perception for an agent whose transform is body.
// A nil los treats every target as visible.
func New(owner model.AgentID, faction model.Faction, body *model.Transform, detectRange, eyeHeight float64, registry Registry, los LineOfSight) *Perception {
	return &Perception{
		owner:       owner,
		faction:     faction,
		body:        body,
		detectRange: detectRange,
		eyeHeight:   eyeHeight,
		registry:    registry,
		los:         los,
	}
}

// DetectRange returns the detection radius.
func (p *Perception) DetectRange() float64 {
	return p.detectRange
}

// Eye returns the viewpoint used for sight checks.
func (p *Perception) Eye() model.Vec3 {
	return p.body.Position.Add(model.Vec3{Z: p.eyeHeight})
}

// FindTarget selects the nearest alive, unhidden, hostile agent within detect
// range and returns its id, or clears the target and returns NoAgent.
func (p *Perception) FindTarget() model.AgentID {
	p.target = model.NoAgent
	p.visible = false
	if p.registry == nil {
		return model.NoAgent
	}

	self := p.body.Position
	bestDistSq := p.detectRange * p.detectRange

	p.registry.ForEachTarget(func(t Target) bool {
		if !p.eligible(t) {
			return true
		}
		distSq := self.DistanceSquared(t.Position)
		if distSq <= bestDistSq {
			bestDistSq = distSq
			p.target = t.ID
		}
		return true
	})

	return p.target
}

// HasValidTarget reports whether the current target still resolves, is
// alive, unhidden, hostile and within detect range.
func (p *Perception) HasValidTarget() bool {
	t, ok := p.resolve()
	if !ok || !p.eligible(t) {
		return false
	}
	r := p.detectRange
	return p.body.Position.DistanceSquared(t.Position) <= r*r
}

// CanSeeTarget asks the oracle whether the eye has an unobstructed line to
// the current target. Self and target are ignored by the trace.
func (p *Perception) CanSeeTarget() bool {
	t, ok := p.resolve()
	if !ok {
		p.visible = false
		return false
	}
	if p.los == nil {
		p.visible = true
		return true
	}
	p.visible = p.los.IsVisible(p.Eye(), t.Position, p.owner, t.ID)
	return p.visible
}

// LastVisible returns the result of the most recent CanSeeTarget call.
func (p *Perception) LastVisible() bool {
	return p.visible
}

// Target resolves the current target.
func (p *Perception) Target() (Target, bool) {
	return p.resolve()
}

// TargetID returns the current target handle.
func (p *Perception) TargetID() model.AgentID {
	return p.target
}

// ClearTarget drops the current target.
func (p *Perception) ClearTarget() {
	p.target = model.NoAgent
	p.visible = false
}

func (p *Perception) resolve() (Target, bool) {
	if p.target == model.NoAgent || p.registry == nil {
		return Target{}, false
	}
	return p.registry.Resolve(p.target)
}

func (p *Perception) eligible(t Target) bool {
	return t.ID != p.owner &&
		t.Alive &&
		!t.Hidden &&
		p.faction.IsHostileTo(t.Faction)
}
