package geo

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/udisondev/roboquest/internal/model"
)

// minExtent keeps degenerate boxes and segment bounds indexable.
const minExtent = 0.01

// Obstacle is an axis-aligned box that blocks sight and projectiles.
// Owner is set for obstacles attached to an agent (shields, hulls) so the
// agent's own traces can ignore them.
type Obstacle struct {
	ID    string        `yaml:"id"`
	Min   model.Vec3    `yaml:"min"`
	Max   model.Vec3    `yaml:"max"`
	Owner model.AgentID `yaml:"owner"`
}

// Bounds implements rtreego.Spatial.
func (o *Obstacle) Bounds() rtreego.Rect {
	return boxRect(o.Min, o.Max)
}

// Contains reports whether p is inside the box.
func (o *Obstacle) Contains(p model.Vec3) bool {
	return p.X >= o.Min.X && p.X <= o.Max.X &&
		p.Y >= o.Min.Y && p.Y <= o.Max.Y &&
		p.Z >= o.Min.Z && p.Z <= o.Max.Z
}

// normalized returns the box with Min ≤ Max on every axis.
func (o Obstacle) normalized() Obstacle {
	lo := model.Vec3{X: math.Min(o.Min.X, o.Max.X), Y: math.Min(o.Min.Y, o.Max.Y), Z: math.Min(o.Min.Z, o.Max.Z)}
	hi := model.Vec3{X: math.Max(o.Min.X, o.Max.X), Y: math.Max(o.Min.Y, o.Max.Y), Z: math.Max(o.Min.Z, o.Max.Z)}
	o.Min, o.Max = lo, hi
	return o
}

// intersect clips the segment from+t*dir, t∈[0,1], against the box (slab
// method). Returns entry t and the surface normal at entry. A segment starting
// inside the box hits at t=0 with the normal opposing dir.
func (o *Obstacle) intersect(from, dir model.Vec3) (float64, model.Vec3, bool) {
	tMin, tMax := 0.0, 1.0
	var normal model.Vec3

	axes := [3]struct {
		origin, d, lo, hi float64
		n                 model.Vec3
	}{
		{from.X, dir.X, o.Min.X, o.Max.X, model.Vec3{X: 1}},
		{from.Y, dir.Y, o.Min.Y, o.Max.Y, model.Vec3{Y: 1}},
		{from.Z, dir.Z, o.Min.Z, o.Max.Z, model.Vec3{Z: 1}},
	}

	for _, a := range axes {
		if math.Abs(a.d) < 1e-12 {
			if a.origin < a.lo || a.origin > a.hi {
				return 0, model.Vec3{}, false
			}
			continue
		}
		inv := 1 / a.d
		t1 := (a.lo - a.origin) * inv
		t2 := (a.hi - a.origin) * inv
		n := a.n.Scale(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n = a.n
		}
		if t1 > tMin {
			tMin = t1
			normal = n
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, model.Vec3{}, false
		}
	}

	if normal.IsNearlyZero() {
		normal = dir.Scale(-1).SafeNormal(model.Up)
	}
	return tMin, normal, true
}

func boxRect(lo, hi model.Vec3) rtreego.Rect {
	p := rtreego.Point{lo.X, lo.Y, lo.Z}
	lengths := []float64{
		math.Max(hi.X-lo.X, minExtent),
		math.Max(hi.Y-lo.Y, minExtent),
		math.Max(hi.Z-lo.Z, minExtent),
	}
	r, _ := rtreego.NewRect(p, lengths)
	return r
}

// segmentRect returns the bounding box of a segment.
func segmentRect(a, b model.Vec3) rtreego.Rect {
	lo := model.Vec3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
	hi := model.Vec3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
	return boxRect(lo.Sub(model.Vec3{X: minExtent / 2, Y: minExtent / 2, Z: minExtent / 2}), hi.Add(model.Vec3{X: minExtent / 2, Y: minExtent / 2, Z: minExtent / 2}))
}
