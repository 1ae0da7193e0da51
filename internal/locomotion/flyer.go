package locomotion

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
)

// hoverJitter is the vertical spread of an orbit direction.
const hoverJitter = 0.3

// Flyer hovers around its target at a preferred range, keeping clear of the
// ground and nearby obstacles.
type Flyer struct {
	minRange        float64
	maxRange        float64
	rotationSpeed   float64
	changeInterval  float64
	hoverScale      float64
	checkRange      float64
	avoidance       float64
	minFlightHeight float64

	rng          *rand.Rand
	surroundings Surroundings

	hoverDir   model.Vec3
	lastSelf   model.Vec3
	lastTarget model.Vec3
	seen       bool
}

// NewFlyer creates the hovering policy. A nil surroundings disables avoidance.
func NewFlyer(params model.LocomotionParams, rng *rand.Rand, surroundings Surroundings) *Flyer {
	scale := params.HoverMoveScale
	if scale <= 0 {
		scale = 1
	}
	return &Flyer{
		minRange:        params.PreferredMinRange,
		maxRange:        params.PreferredMaxRange,
		rotationSpeed:   params.RotationSpeed,
		changeInterval:  params.HoverChangeInterval,
		hoverScale:      scale,
		checkRange:      params.ObstacleCheckRange,
		avoidance:       params.AvoidanceStrength,
		minFlightHeight: params.MinFlightHeight,
		rng:             rng,
		surroundings:    surroundings,
	}
}

// Start picks the first hover direction and re-picks it every hover change interval.
func (p *Flyer) Start(s *schedule.Scheduler, owner model.AgentID) {
	p.pickHover()
	if p.changeInterval <= 0 {
		return
	}
	interval := schedule.Seconds(p.changeInterval)
	s.Every(owner, interval, interval, p.pickHover)
}

// HoverDirection returns the current hover direction.
func (p *Flyer) HoverDirection() model.Vec3 {
	return p.hoverDir
}

func (p *Flyer) pickHover() {
	if !p.seen {
		angle := p.rng.Float64() * 2 * math.Pi
		p.hoverDir = model.Vec3{X: math.Cos(angle), Y: math.Sin(angle)}
		return
	}

	to := p.lastTarget.Sub(p.lastSelf)
	distSq := to.LengthSquared()
	dir := to.SafeNormal(model.Vec3{X: 1})

	switch {
	case distSq > p.maxRange*p.maxRange:
		p.hoverDir = dir
	case distSq < p.minRange*p.minRange:
		p.hoverDir = dir.Scale(-1)
	default:
		side := 1.0
		if p.rng.IntN(2) == 0 {
			side = -1
		}
		tangent := dir.Cross(model.Up).SafeNormal(model.Vec3{Y: 1}).Scale(side)
		tangent.Z += (p.rng.Float64()*2 - 1) * hoverJitter
		p.hoverDir = tangent.SafeNormal(model.Vec3{Y: side})
	}
}

// Update implements Policy.
func (p *Flyer) Update(f Frame, dt float64) {
	body := f.Body
	p.lastSelf = body.Position
	p.lastTarget = f.Target
	if !p.seen {
		p.seen = true
		p.pickHover()
	}

	turnFull(body, f.Target, dt, p.rotationSpeed)

	move := p.hoverDir.Scale(p.hoverScale).Add(p.avoid(body).Scale(p.avoidance))
	n, ok := move.Normalize()
	if !ok {
		return
	}
	body.Position = body.Position.Add(n.Scale(f.Speed * dt))
}

// avoid returns the push away from the ground and from an obstacle ahead.
func (p *Flyer) avoid(body *model.Transform) model.Vec3 {
	if p.surroundings == nil {
		return model.Vec3{}
	}
	var push model.Vec3

	if p.minFlightHeight > 0 {
		h := p.surroundings.HeightAboveGround(body.Position)
		if h < p.minFlightHeight {
			proximity := math.Min((p.minFlightHeight-h)/p.minFlightHeight, 1)
			push = push.Add(model.Up.Scale(proximity))
		}
	}

	if p.checkRange > 0 {
		ahead := p.hoverDir.SafeNormal(body.Rotation.Forward())
		probeEnd := body.Position.Add(ahead.Scale(p.checkRange))
		if normal, hit := p.surroundings.Probe(body.Position, probeEnd); hit {
			push = push.Add(normal)
		}
	}
	return push
}
