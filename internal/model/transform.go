package model

// Transform is the position and facing of an agent.
type Transform struct {
	Position Vec3    `yaml:"position"`
	Rotation Rotator `yaml:"rotation"`
}

// NewTransform создаёт Transform.
func NewTransform(pos Vec3, rot Rotator) Transform {
	return Transform{Position: pos, Rotation: rot}
}

// Forward returns the facing direction.
func (t Transform) Forward() Vec3 {
	return t.Rotation.Forward()
}

// TransformPoint converts a local offset (X forward, Y right, Z up) into world space
// using only the yaw of the transform.
func (t Transform) TransformPoint(local Vec3) Vec3 {
	yaw := t.Rotation.YawOnly()
	fwd := yaw.Forward()
	right := yaw.Right()
	return t.Position.
		Add(fwd.Scale(local.X)).
		Add(right.Scale(local.Y)).
		Add(Up.Scale(local.Z))
}
