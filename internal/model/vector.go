package model

import "math"

// nearlyZero is the length below which a vector counts as zero.
const nearlyZero = 1e-8

// Up is the world vertical (Z axis).
var Up = Vec3{Z: 1}

// Vec3 представляет точку или направление в мире.
// Value type, передаётся по значению.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// NewVec3 создаёт Vec3 с указанными координатами.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add возвращает сумму векторов.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub возвращает разность векторов.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale умножает вектор на скаляр.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot возвращает скалярное произведение.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross возвращает векторное произведение.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LengthSquared возвращает квадрат длины (без sqrt).
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length возвращает длину вектора.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// IsNearlyZero reports whether the vector has no usable direction.
func (v Vec3) IsNearlyZero() bool {
	return v.LengthSquared() < nearlyZero
}

// Normalize returns the unit vector and false when v has no direction.
func (v Vec3) Normalize() (Vec3, bool) {
	lsq := v.LengthSquared()
	if lsq < nearlyZero {
		return Vec3{}, false
	}
	return v.Scale(1 / math.Sqrt(lsq)), true
}

// SafeNormal returns the unit vector, or fallback when v is (nearly) zero.
func (v Vec3) SafeNormal(fallback Vec3) Vec3 {
	if n, ok := v.Normalize(); ok {
		return n
	}
	return fallback
}

// Planar drops the vertical component.
func (v Vec3) Planar() Vec3 {
	return Vec3{X: v.X, Y: v.Y}
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt для производительности).
func (v Vec3) DistanceSquared(o Vec3) float64 {
	return v.Sub(o).LengthSquared()
}

// Distance возвращает расстояние до другой точки.
func (v Vec3) Distance(o Vec3) float64 {
	return math.Sqrt(v.DistanceSquared(o))
}
