package geo

import "github.com/udisondev/roboquest/internal/model"

const (
	// navClearance lifts navigation traces off the ground plane.
	navClearance = 20.0
	// navProbe is the look-ahead of a detour heading.
	navProbe = 200.0
)

// detourAngles are tried in order when the direct line is blocked.
var detourAngles = []float64{30, -30, 60, -60, 90, -90, 135, -135}

// MoveToward is a greedy steering oracle. It returns the direct heading when
// the goal is in clear line, the first unobstructed detour heading otherwise,
// and false once the goal is visible within acceptRadius or when boxed in.
func (e *Engine) MoveToward(owner model.AgentID, from, goal model.Vec3, acceptRadius float64) (model.Vec3, bool) {
	to := goal.Sub(from).Planar()
	dir, ok := to.Normalize()
	if !ok {
		return model.Vec3{}, false
	}

	lift := model.Vec3{Z: navClearance}
	start := from.Add(lift)
	if e.IsVisible(start, goal.Add(lift), owner) {
		if to.LengthSquared() <= acceptRadius*acceptRadius {
			return model.Vec3{}, false
		}
		return dir, true
	}

	base := model.RotationOf(dir).Yaw
	for _, a := range detourAngles {
		heading := model.Rotator{Yaw: base + a}.Forward()
		if e.IsVisible(start, start.Add(heading.Scale(navProbe)), owner) {
			return heading, true
		}
	}
	return model.Vec3{}, false
}
