package model

import "math"

// Rotator is an orientation in degrees: Pitch about the lateral axis, Yaw about Z.
type Rotator struct {
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
}

// Forward returns the unit direction the rotator faces.
func (r Rotator) Forward() Vec3 {
	p := r.Pitch * math.Pi / 180
	y := r.Yaw * math.Pi / 180
	cp := math.Cos(p)
	return Vec3{X: cp * math.Cos(y), Y: cp * math.Sin(y), Z: math.Sin(p)}
}

// Right returns the planar right-hand direction of the yaw.
func (r Rotator) Right() Vec3 {
	return Rotator{Yaw: r.Yaw + 90}.Forward()
}

// YawOnly zeroes pitch.
func (r Rotator) YawOnly() Rotator {
	return Rotator{Yaw: r.Yaw}
}

// Normalized wraps both angles to (-180, 180].
func (r Rotator) Normalized() Rotator {
	return Rotator{Pitch: NormalizeAngle(r.Pitch), Yaw: NormalizeAngle(r.Yaw)}
}

// RotationOf returns the rotator that faces along dir.
// A zero direction yields the zero rotator.
func RotationOf(dir Vec3) Rotator {
	if dir.IsNearlyZero() {
		return Rotator{}
	}
	yaw := math.Atan2(dir.Y, dir.X) * 180 / math.Pi
	pitch := math.Atan2(dir.Z, math.Hypot(dir.X, dir.Y)) * 180 / math.Pi
	return Rotator{Pitch: pitch, Yaw: yaw}
}

// LookAt returns the rotator from "from" toward "to".
// If the points coincide, fallback is returned unchanged.
func LookAt(from, to Vec3, fallback Rotator) Rotator {
	dir := to.Sub(from)
	if dir.IsNearlyZero() {
		return fallback
	}
	return RotationOf(dir)
}

// NormalizeAngle wraps degrees to (-180, 180].
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// InterpTo moves current toward target by the fraction clamp(dt*speed, 0, 1)
// of the shortest angular delta on each axis.
// Non-positive speed snaps to target.
func InterpTo(current, target Rotator, dt, speed float64) Rotator {
	if speed <= 0 {
		return target.Normalized()
	}
	alpha := math.Min(math.Max(dt*speed, 0), 1)
	return Rotator{
		Pitch: NormalizeAngle(current.Pitch + NormalizeAngle(target.Pitch-current.Pitch)*alpha),
		Yaw:   NormalizeAngle(current.Yaw + NormalizeAngle(target.Yaw-current.Yaw)*alpha),
	}
}
