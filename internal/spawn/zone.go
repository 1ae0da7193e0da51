package spawn

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/udisondev/roboquest/internal/model"
)

// Point is one enemy placement.
type Point struct {
	Name     string     `yaml:"name"`
	Template string     `yaml:"template"`
	Position model.Vec3 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"`
	// Level overrides the template level when positive.
	Level int32 `yaml:"level"`
}

// ZoneConfig describes a combat zone in YAML.
type ZoneConfig struct {
	Name string `yaml:"name"`
	// Polygon is the trigger outline in world XY, closed implicitly.
	Polygon [][2]float64 `yaml:"polygon"`
	MinZ    float64      `yaml:"min_z"`
	MaxZ    float64      `yaml:"max_z"`
	Points  []Point      `yaml:"points"`
}

// Zone is a combat zone: the first player to enter its polygon activates it
// once and every linked point spawns.
type Zone struct {
	name   string
	area   orb.Polygon
	bound  orb.Bound
	minZ   float64
	maxZ   float64
	points []Point

	activated   bool
	encounterID uuid.UUID
}

// NewZone builds a zone from config.
func NewZone(cfg ZoneConfig) (*Zone, error) {
	if len(cfg.Polygon) < 3 {
		return nil, fmt.Errorf("zone %q: polygon needs at least 3 vertices, got %d", cfg.Name, len(cfg.Polygon))
	}

	ring := make(orb.Ring, 0, len(cfg.Polygon)+1)
	for _, v := range cfg.Polygon {
		ring = append(ring, orb.Point{v[0], v[1]})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}

	minZ, maxZ := cfg.MinZ, cfg.MaxZ
	if maxZ <= minZ {
		// no vertical limit
		minZ, maxZ = -1e18, 1e18
	}

	area := orb.Polygon{ring}
	return &Zone{
		name:   cfg.Name,
		area:   area,
		bound:  area.Bound(),
		minZ:   minZ,
		maxZ:   maxZ,
		points: cfg.Points,
	}, nil
}

// Name returns zone name.
func (z *Zone) Name() string { return z.name }

// Points returns linked spawn points.
func (z *Zone) Points() []Point { return z.points }

// Activated reports whether the zone already fired.
func (z *Zone) Activated() bool { return z.activated }

// EncounterID returns the id assigned on activation, or uuid.Nil.
func (z *Zone) EncounterID() uuid.UUID { return z.encounterID }

// Center returns the polygon centroid.
func (z *Zone) Center() model.Vec3 {
	c, _ := planar.CentroidArea(z.area)
	return model.Vec3{X: c[0], Y: c[1], Z: z.minZ}
}

// Contains reports whether pos is inside the polygon and the height band.
func (z *Zone) Contains(pos model.Vec3) bool {
	if pos.Z < z.minZ || pos.Z > z.maxZ {
		return false
	}
	p := orb.Point{pos.X, pos.Y}
	if !z.bound.Contains(p) {
		return false
	}
	return planar.PolygonContains(z.area, p)
}

// activate marks the zone fired and assigns an encounter id. Returns false if
// it was already active.
func (z *Zone) activate() bool {
	if z.activated {
		return false
	}
	z.activated = true
	z.encounterID = uuid.New()
	return true
}
