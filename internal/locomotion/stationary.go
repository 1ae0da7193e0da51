package locomotion

import "github.com/udisondev/roboquest/internal/model"

// Stationary turns in place toward a visible target.
type Stationary struct {
	rotationSpeed float64
}

// NewStationary creates the turret policy.
func NewStationary(params model.LocomotionParams) *Stationary {
	return &Stationary{rotationSpeed: params.RotationSpeed}
}

// Update implements Policy.
func (p *Stationary) Update(f Frame, dt float64) {
	if !f.CanSee {
		return
	}
	turnFull(f.Body, f.Target, dt, p.rotationSpeed)
}
