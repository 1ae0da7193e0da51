package combat

import (
	"math"

	"github.com/udisondev/roboquest/internal/model"
)

// weakSpotHeight is the fraction of the radius above the center where hits
// become critical.
const weakSpotHeight = 0.5

// Body is a spherical hit volume of an agent. The cap above
// weakSpotHeight is its weak spot.
type Body struct {
	ID     model.AgentID
	Center model.Vec3
	Radius float64
}

// BodyScanFunc iterates hittable bodies until fn returns false.
// Injected by the world to avoid an import cycle.
type BodyScanFunc func(fn func(Body) bool)

// HitscanSpawner resolves projectiles instantly along a straight ray: the
// nearest body in front of the first wall within range is hit. Hits on the
// weak spot are marked critical.
type HitscanSpawner struct {
	scan     BodyScanFunc
	tracer   Tracer
	resolver *HitResolver
	fired    int
	landed   int
}

// NewHitscanSpawner creates a spawner. A nil tracer ignores walls.
func NewHitscanSpawner(scan BodyScanFunc, tracer Tracer, resolver *HitResolver) *HitscanSpawner {
	return &HitscanSpawner{scan: scan, tracer: tracer, resolver: resolver}
}

// Stats returns the number of projectiles fired and those that hit a body.
func (h *HitscanSpawner) Stats() (fired, landed int) {
	return h.fired, h.landed
}

// SpawnProjectile implements Spawner.
func (h *HitscanSpawner) SpawnProjectile(p Projectile) {
	h.fired++

	dir, ok := p.Direction.Normalize()
	if !ok || p.Range <= 0 || h.scan == nil {
		return
	}

	limit := p.Range
	if h.tracer != nil {
		end := p.Origin.Add(dir.Scale(p.Range))
		if wall, blocked := h.tracer.Trace(p.Origin, end, p.Owner); blocked {
			limit = wall.Distance
		}
	}

	best := math.Inf(1)
	var victim model.AgentID
	var weakSpot float64
	h.scan(func(b Body) bool {
		if b.ID == p.Owner {
			return true
		}
		t, ok := raySphere(p.Origin, dir, b.Center, b.Radius)
		if ok && t <= limit && t < best {
			best = t
			victim = b.ID
			weakSpot = b.Center.Z + b.Radius*weakSpotHeight
		}
		return true
	})

	if victim == model.NoAgent {
		return
	}
	h.landed++
	point := p.Origin.Add(dir.Scale(best))
	p.Critical = point.Z >= weakSpot
	if h.resolver != nil {
		h.resolver.ResolveHit(Hit{
			Projectile: p,
			Victim:     victim,
			Point:      point,
		})
	}
}

// raySphere returns the distance along the unit ray to the sphere surface.
func raySphere(origin, dir, center model.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.LengthSquared() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
