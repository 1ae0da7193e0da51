// Package geo is the reference world-geometry oracle: axis-aligned box
// obstacles over a flat ground plane, indexed by an R-tree. It answers
// line-of-sight, ray traces with surface normals and height above ground.
package geo

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"sync"

	"github.com/dhconnelly/rtreego"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/roboquest/internal/model"
)

// Engine holds static geometry. Safe for concurrent reads; obstacles may be
// added at any time.
type Engine struct {
	mu      sync.RWMutex
	tree    *rtreego.Rtree
	groundZ float64
	count   int
}

// NewEngine creates an empty engine with the ground plane at groundZ.
func NewEngine(groundZ float64) *Engine {
	return &Engine{
		tree:    rtreego.NewTree(3, 25, 50),
		groundZ: groundZ,
	}
}

// GroundZ returns the height of the ground plane.
func (e *Engine) GroundZ() float64 {
	return e.groundZ
}

// AddObstacle indexes a box. Min and Max may be given in any order.
func (e *Engine) AddObstacle(o Obstacle) {
	n := o.normalized()

	e.mu.Lock()
	e.tree.Insert(&n)
	e.count++
	e.mu.Unlock()
}

// Count returns number of obstacles.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.count
}

type obstacleFile struct {
	GroundZ   *float64   `yaml:"ground_z"`
	Obstacles []Obstacle `yaml:"obstacles"`
}

// LoadObstacles reads obstacles from a YAML file into the engine.
// A missing file leaves the engine empty.
func (e *Engine) LoadObstacles(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("obstacles file not found, open arena", "path", path)
			return nil
		}
		return fmt.Errorf("reading obstacles %s: %w", path, err)
	}

	var f obstacleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parsing obstacles %s: %w", path, err)
	}

	if f.GroundZ != nil {
		e.groundZ = *f.GroundZ
	}
	for _, o := range f.Obstacles {
		e.AddObstacle(o)
	}

	slog.Info("obstacles loaded", "count", len(f.Obstacles), "ground_z", e.groundZ, "path", path)
	return nil
}

// Hit describes the first surface a trace touched.
type Hit struct {
	Point      model.Vec3
	Normal     model.Vec3
	Distance   float64
	ObstacleID string
	Ground     bool
}

// Trace casts a segment and returns the nearest hit, skipping obstacles owned
// by any agent in ignore.
func (e *Engine) Trace(from, to model.Vec3, ignore ...model.AgentID) (Hit, bool) {
	dir := to.Sub(from)
	length := dir.Length()

	best := math.Inf(1)
	var hit Hit

	// Ground plane
	if dir.Z < 0 && from.Z >= e.groundZ && to.Z < e.groundZ {
		t := (e.groundZ - from.Z) / dir.Z
		best = t
		hit = Hit{Point: from.Add(dir.Scale(t)), Normal: model.Up, Ground: true}
	}

	e.mu.RLock()
	candidates := e.tree.SearchIntersect(segmentRect(from, to))
	e.mu.RUnlock()

	for _, c := range candidates {
		o := c.(*Obstacle)
		if o.Owner != model.NoAgent && slices.Contains(ignore, o.Owner) {
			continue
		}
		t, normal, ok := o.intersect(from, dir)
		if !ok || t >= best {
			continue
		}
		best = t
		hit = Hit{Point: from.Add(dir.Scale(t)), Normal: normal, ObstacleID: o.ID}
	}

	if math.IsInf(best, 1) {
		return Hit{}, false
	}
	hit.Distance = best * length
	return hit, true
}

// IsVisible reports whether nothing blocks the segment from → to.
// Obstacles owned by agents in ignore are transparent.
func (e *Engine) IsVisible(from, to model.Vec3, ignore ...model.AgentID) bool {
	_, blocked := e.Trace(from, to, ignore...)
	return !blocked
}

// Probe traces from → to and returns the surface normal of the nearest hit.
func (e *Engine) Probe(from, to model.Vec3) (model.Vec3, bool) {
	hit, ok := e.Trace(from, to)
	if !ok {
		return model.Vec3{}, false
	}
	return hit.Normal, true
}

// HeightAboveGround returns the vertical distance from pos down to the
// highest supporting surface: an obstacle top under pos or the ground plane.
func (e *Engine) HeightAboveGround(pos model.Vec3) float64 {
	support := e.groundZ

	column := boxRect(
		model.Vec3{X: pos.X - minExtent/2, Y: pos.Y - minExtent/2, Z: e.groundZ},
		model.Vec3{X: pos.X + minExtent/2, Y: pos.Y + minExtent/2, Z: math.Max(pos.Z, e.groundZ)},
	)

	e.mu.RLock()
	candidates := e.tree.SearchIntersect(column)
	e.mu.RUnlock()

	for _, c := range candidates {
		o := c.(*Obstacle)
		if pos.X < o.Min.X || pos.X > o.Max.X || pos.Y < o.Min.Y || pos.Y > o.Max.Y {
			continue
		}
		if o.Max.Z <= pos.Z && o.Max.Z > support {
			support = o.Max.Z
		}
	}
	return pos.Z - support
}
