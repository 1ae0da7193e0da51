package combat

import (
	"github.com/udisondev/roboquest/internal/model"
)

// Projectile is a spawn request for one shot.
type Projectile struct {
	Owner        model.AgentID
	OwnerFaction model.Faction
	Target       model.AgentID
	Origin       model.Vec3
	Direction    model.Vec3
	Damage       float64
	Range        float64
	// CritMultiplier scales Damage when Critical is set.
	CritMultiplier float64
	// Critical is set by the spawner on weak-spot hits.
	Critical bool
}

// FinalDamage returns the damage a hit of this projectile deals.
func (p Projectile) FinalDamage() float64 {
	if p.Critical && p.CritMultiplier > 0 {
		return p.Damage * p.CritMultiplier
	}
	return p.Damage
}

// Spawner launches projectiles. Hits are reported back through a HitResolver.
type Spawner interface {
	SpawnProjectile(p Projectile)
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(p Projectile)

// SpawnProjectile implements Spawner.
func (f SpawnerFunc) SpawnProjectile(p Projectile) {
	f(p)
}
