package locomotion

import (
	"math/rand/v2"

	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
)

const defaultEngageRangeFactor = 1.5

// Strafer keeps its target inside a preferred range band and slides sideways.
// When the target is occluded or far it approaches through the navigator.
type Strafer struct {
	owner          model.AgentID
	minRangeSq     float64
	maxRange       float64
	maxRangeSq     float64
	engageRangeSq  float64
	rotationSpeed  float64
	inputScale     float64
	changeInterval float64

	rng       *rand.Rand
	navigator Navigator

	strafeDir float64
}

// NewStrafer creates the strafing policy.
func NewStrafer(params model.LocomotionParams, owner model.AgentID, rng *rand.Rand, nav Navigator) *Strafer {
	factor := params.EngageRangeFactor
	if factor <= 0 {
		factor = defaultEngageRangeFactor
	}
	engage := params.PreferredMaxRange * factor
	inputScale := params.StrafeSpeed
	if inputScale <= 0 {
		inputScale = 1
	}
	return &Strafer{
		owner:          owner,
		minRangeSq:     params.PreferredMinRange * params.PreferredMinRange,
		maxRange:       params.PreferredMaxRange,
		maxRangeSq:     params.PreferredMaxRange * params.PreferredMaxRange,
		engageRangeSq:  engage * engage,
		rotationSpeed:  params.RotationSpeed,
		inputScale:     min(inputScale, 1),
		changeInterval: params.StrafeChangeInterval,
		rng:            rng,
		navigator:      nav,
	}
}

// Start picks the first strafe direction and re-picks it every strafe change interval.
func (p *Strafer) Start(s *schedule.Scheduler, owner model.AgentID) {
	p.pickStrafe()
	if p.changeInterval <= 0 {
		return
	}
	interval := schedule.Seconds(p.changeInterval)
	s.Every(owner, interval, interval, p.pickStrafe)
}

// StrafeDirection returns -1 (left), 0 or +1 (right).
func (p *Strafer) StrafeDirection() float64 {
	return p.strafeDir
}

func (p *Strafer) pickStrafe() {
	p.strafeDir = float64(p.rng.IntN(3) - 1)
}

// Update implements Policy.
func (p *Strafer) Update(f Frame, dt float64) {
	body := f.Body
	turnYaw(body, f.Target, dt, p.rotationSpeed)

	to := f.Target.Sub(body.Position).Planar()
	distSq := to.LengthSquared()
	step := f.Speed * dt

	if !f.CanSee || distSq > p.engageRangeSq {
		p.approach(f, to, distSq, step)
		return
	}

	dir := to.SafeNormal(body.Rotation.Forward())
	right := dir.Cross(model.Up)

	var move model.Vec3
	switch {
	case distSq > p.maxRangeSq:
		move = dir
	case distSq < p.minRangeSq:
		move = dir.Scale(-1)
	}
	move = move.Add(right.Scale(p.strafeDir))

	n, ok := move.Normalize()
	if !ok {
		return
	}
	body.Position = body.Position.Add(n.Scale(step * p.inputScale))
}

func (p *Strafer) approach(f Frame, to model.Vec3, distSq, step float64) {
	body := f.Body
	if p.navigator != nil {
		if dir, ok := p.navigator.MoveToward(p.owner, body.Position, f.Target, p.maxRange); ok {
			if n, ok := dir.Normalize(); ok {
				body.Position = body.Position.Add(n.Scale(step))
			}
			return
		}
	}
	if distSq <= p.maxRangeSq {
		return
	}
	if n, ok := to.Normalize(); ok {
		body.Position = body.Position.Add(n.Scale(step))
	}
}
