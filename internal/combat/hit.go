package combat

import (
	"log/slog"

	"github.com/udisondev/roboquest/internal/model"
)

// Victim is anything a projectile can damage.
type Victim interface {
	ID() model.AgentID
	Faction() model.Faction
	IsAlive() bool
	// ApplyDamage reduces health and triggers stagger; returns effective damage.
	ApplyDamage(instigator model.AgentID, amount float64) float64
}

// VictimLookupFunc resolves a victim by id.
// Injected by the world to avoid an import cycle.
type VictimLookupFunc func(id model.AgentID) (Victim, bool)

// Hit is a projectile impact reported by a spawner.
type Hit struct {
	Projectile Projectile
	Victim     model.AgentID
	Point      model.Vec3
}

// HitResult is the outcome of one resolved hit, for observation in tests.
type HitResult struct {
	Attacker   model.AgentID
	Victim     model.AgentID
	Damage     float64
	Effective  float64
	Critical   bool
	Suppressed bool
}

// HitResolver applies projectile hits: friendly fire is suppressed, dead or
// missing victims are ignored, everything else goes to Victim.ApplyDamage.
type HitResolver struct {
	lookup      VictimLookupFunc
	hitObserver func(HitResult)
}

// NewHitResolver creates a resolver.
func NewHitResolver(lookup VictimLookupFunc) *HitResolver {
	return &HitResolver{lookup: lookup}
}

// SetHitObserver sets callback for observing hit results (for tests).
func (r *HitResolver) SetHitObserver(fn func(HitResult)) {
	r.hitObserver = fn
}

// ResolveHit applies a hit synchronously. Returns true if damage was applied.
func (r *HitResolver) ResolveHit(h Hit) bool {
	if r.lookup == nil {
		return false
	}
	victim, ok := r.lookup(h.Victim)
	if !ok || !victim.IsAlive() {
		return false
	}

	result := HitResult{
		Attacker: h.Projectile.Owner,
		Victim:   h.Victim,
		Damage:   h.Projectile.FinalDamage(),
		Critical: h.Projectile.Critical,
	}

	if !h.Projectile.OwnerFaction.IsHostileTo(victim.Faction()) {
		result.Suppressed = true
		if IsDebugEnabled() {
			slog.Debug("friendly fire suppressed",
				"attacker", h.Projectile.Owner,
				"victim", h.Victim)
		}
		r.observe(result)
		return false
	}

	result.Effective = victim.ApplyDamage(h.Projectile.Owner, result.Damage)
	r.observe(result)
	return true
}

func (r *HitResolver) observe(result HitResult) {
	if r.hitObserver != nil {
		r.hitObserver(result)
	}
}
