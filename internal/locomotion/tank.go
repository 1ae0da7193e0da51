package locomotion

import "github.com/udisondev/roboquest/internal/model"

// defaultAlignmentDot is cos(45°) rounded, the forward-drive cone.
const defaultAlignmentDot = 0.7

// Tank turns slowly and only drives along its own facing: forward while out
// of attack range and roughly aligned, backward when closer than the stop
// distance.
type Tank struct {
	attackRangeSq  float64
	stopDistanceSq float64
	rotationSpeed  float64
	alignmentDot   float64
}

// NewTank creates the tank policy.
func NewTank(params model.LocomotionParams) *Tank {
	align := params.AlignmentDot
	if align <= 0 {
		align = defaultAlignmentDot
	}
	return &Tank{
		attackRangeSq:  params.AttackRange * params.AttackRange,
		stopDistanceSq: params.StopDistance * params.StopDistance,
		rotationSpeed:  params.RotationSpeed,
		alignmentDot:   align,
	}
}

// Update implements Policy.
func (p *Tank) Update(f Frame, dt float64) {
	body := f.Body
	turnYaw(body, f.Target, dt, p.rotationSpeed)

	forward := body.Rotation.Forward()
	to := f.Target.Sub(body.Position).Planar()
	distSq := to.LengthSquared()
	dir := to.SafeNormal(forward)
	step := f.Speed * dt

	switch {
	case distSq > p.attackRangeSq && forward.Dot(dir) > p.alignmentDot:
		body.Position = body.Position.Add(forward.Scale(step))
	case distSq < p.stopDistanceSq:
		body.Position = body.Position.Sub(forward.Scale(step))
	}
}
