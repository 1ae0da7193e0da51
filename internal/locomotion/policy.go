// Package locomotion implements the per-archetype movement policies. A policy
// turns the agent toward its target and translates it according to the
// archetype's rules; it never decides whom to target or when to fire.
package locomotion

import (
	"fmt"
	"math/rand/v2"

	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
)

// Frame is the per-tick input of a policy.
type Frame struct {
	// Body is moved and rotated in place.
	Body   *model.Transform
	Target model.Vec3
	// Speed is the effective move speed in units per second.
	Speed  float64
	CanSee bool
}

// Policy moves one agent toward or around its target.
type Policy interface {
	Update(f Frame, dt float64)
}

// Scheduled is implemented by policies that re-pick a direction on an
// interval. Start registers the repeating callback under owner.
type Scheduled interface {
	Start(s *schedule.Scheduler, owner model.AgentID)
}

// Navigator delegates path following around complex terrain. MoveToward
// returns the direction to walk this tick, or false when no path is known.
type Navigator interface {
	MoveToward(owner model.AgentID, from, goal model.Vec3, acceptRadius float64) (model.Vec3, bool)
}

// Surroundings is the geometry the flyer avoids.
type Surroundings interface {
	HeightAboveGround(pos model.Vec3) float64
	Probe(from, to model.Vec3) (model.Vec3, bool)
}

// Deps are optional collaborators. A nil Rand is replaced by a fresh PCG source.
type Deps struct {
	Owner        model.AgentID
	Rand         *rand.Rand
	Surroundings Surroundings
	Navigator    Navigator
}

// New creates the policy for archetype.
func New(archetype model.Archetype, params model.LocomotionParams, deps Deps) (Policy, error) {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	switch archetype {
	case model.ArchetypeStationary:
		return NewStationary(params), nil
	case model.ArchetypeTank:
		return NewTank(params), nil
	case model.ArchetypeStrafer:
		return NewStrafer(params, deps.Owner, deps.Rand, deps.Navigator), nil
	case model.ArchetypeFlyer:
		return NewFlyer(params, deps.Rand, deps.Surroundings), nil
	default:
		return nil, fmt.Errorf("no locomotion policy for archetype %v", archetype)
	}
}

// turnYaw rotates the body's yaw toward target, pitch is zeroed.
func turnYaw(body *model.Transform, target model.Vec3, dt, speed float64) {
	to := target.Sub(body.Position).Planar()
	current := body.Rotation.YawOnly()
	if to.IsNearlyZero() {
		body.Rotation = current
		return
	}
	body.Rotation = model.InterpTo(current, model.RotationOf(to), dt, speed)
}

// turnFull rotates pitch and yaw toward target.
func turnFull(body *model.Transform, target model.Vec3, dt, speed float64) {
	want := model.LookAt(body.Position, target, body.Rotation)
	body.Rotation = model.InterpTo(body.Rotation, want, dt, speed)
}
