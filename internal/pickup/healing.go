// Package pickup implements healing cells dropped by destroyed enemies.
// A cell latches onto the first player that comes within magnet range, flies
// to them at constant speed and heals on contact.
package pickup

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/udisondev/roboquest/internal/agent"
	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/world"
)

// Config tunes healing cells.
type Config struct {
	HealAmount   float64 `yaml:"heal_amount"`
	MagnetRange  float64 `yaml:"magnet_range"`
	FlySpeed     float64 `yaml:"fly_speed"`
	PickupRadius float64 `yaml:"pickup_radius"`
	// AimHeight is added to the player position while homing.
	AimHeight     float64 `yaml:"aim_height"`
	ScatterRadius float64 `yaml:"scatter_radius"`
}

// DefaultConfig returns the stock healing cell tuning.
func DefaultConfig() Config {
	return Config{
		HealAmount:    4,
		MagnetRange:   400,
		FlySpeed:      750,
		PickupRadius:  80,
		AimHeight:     50,
		ScatterRadius: 150,
	}
}

// Cell is one healing pickup.
type Cell struct {
	ID       uint64
	Position model.Vec3
	// Target is the player the cell homes on, NoAgent until magnetized.
	Target model.AgentID
}

// Magnetized reports whether the cell is homing.
func (c *Cell) Magnetized() bool {
	return c.Target != model.NoAgent
}

// Field holds the live cells of the world.
type Field struct {
	cfg   Config
	world *world.World
	sink  event.Sink
	rng   *rand.Rand

	mu     sync.Mutex
	cells  []*Cell
	nextID uint64
	healed int
}

// NewField creates an empty field. rng may be nil.
func NewField(cfg Config, w *world.World, sink event.Sink, rng *rand.Rand) *Field {
	if sink == nil {
		sink = event.Discard
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(7, 11))
	}
	return &Field{cfg: cfg, world: w, sink: sink, rng: rng}
}

// Drop scatters count cells around at.
func (f *Field) Drop(at model.Vec3, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for range count {
		angle := f.rng.Float64() * 2 * math.Pi
		dist := f.rng.Float64() * f.cfg.ScatterRadius
		f.nextID++
		f.cells = append(f.cells, &Cell{
			ID: f.nextID,
			Position: at.Add(model.Vec3{
				X: math.Cos(angle) * dist,
				Y: math.Sin(angle) * dist,
			}),
		})
	}

	slog.Debug("healing cells dropped", "count", count, "at", at)
}

// Cells returns a copy of the live cells.
func (f *Field) Cells() []Cell {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Cell, len(f.cells))
	for i, c := range f.cells {
		out[i] = *c
	}
	return out
}

// Len returns number of live cells.
func (f *Field) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cells)
}

// Healed returns number of cells consumed so far.
func (f *Field) Healed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healed
}

// Tick moves magnetized cells and consumes those touching a live player.
func (f *Field) Tick(dt float64) {
	f.mu.Lock()
	cells := f.cells
	f.mu.Unlock()
	if len(cells) == 0 {
		return
	}

	var players []*agent.Agent
	f.world.ForEach(func(a *agent.Agent) bool {
		if a.Faction() == model.FactionPlayer && a.IsAlive() {
			players = append(players, a)
		}
		return true
	})

	kept := cells[:0:0]
	for _, c := range cells {
		f.home(c, players, dt)
		if p := f.touching(c, players); p != nil {
			p.Heal(f.cfg.HealAmount)
			f.sink.Publish(event.HealingPickedUp{Agent: p.ID(), Amount: f.cfg.HealAmount})
			f.mu.Lock()
			f.healed++
			f.mu.Unlock()
			continue
		}
		kept = append(kept, c)
	}

	f.mu.Lock()
	// cells dropped during this tick were appended after the snapshot
	f.cells = append(kept, f.cells[len(cells):]...)
	f.mu.Unlock()
}

func (f *Field) home(c *Cell, players []*agent.Agent, dt float64) {
	var target *agent.Agent
	if c.Magnetized() {
		for _, p := range players {
			if p.ID() == c.Target {
				target = p
				break
			}
		}
		if target == nil {
			c.Target = model.NoAgent
		}
	}
	if target == nil {
		rangeSq := f.cfg.MagnetRange * f.cfg.MagnetRange
		for _, p := range players {
			if c.Position.DistanceSquared(p.Position()) <= rangeSq {
				target = p
				c.Target = p.ID()
				break
			}
		}
	}
	if target == nil {
		return
	}

	goal := target.Position().Add(model.Vec3{Z: f.cfg.AimHeight})
	c.Position = moveTowards(c.Position, goal, f.cfg.FlySpeed*dt)
}

func (f *Field) touching(c *Cell, players []*agent.Agent) *agent.Agent {
	for _, p := range players {
		reach := f.cfg.PickupRadius
		center := p.Position().Add(model.Vec3{Z: f.cfg.AimHeight})
		if c.Position.DistanceSquared(center) <= reach*reach {
			return p
		}
	}
	return nil
}

// moveTowards steps from cur toward goal by at most step without overshoot.
func moveTowards(cur, goal model.Vec3, step float64) model.Vec3 {
	delta := goal.Sub(cur)
	dist := delta.Length()
	if dist <= step || dist == 0 {
		return goal
	}
	return cur.Add(delta.Scale(step / dist))
}
