// Package spawn places enemies into the world: static spawn points at
// startup and combat zones that spawn their encounter when a player walks in.
package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/udisondev/roboquest/internal/agent"
	"github.com/udisondev/roboquest/internal/ai"
	"github.com/udisondev/roboquest/internal/data"
	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/world"
)

// Manager builds enemies from templates and registers them with the world,
// the tick manager and the death lifecycle.
type Manager struct {
	world     *world.World
	aiManager *ai.TickManager
	lifecycle *ai.Lifecycle
	templates *data.TemplateTable
	deps      agent.EnemyDeps
	rng       *rand.Rand

	mu    sync.Mutex
	zones []*Zone
}

// NewManager creates a spawn manager. deps carries the shared collaborators
// of every enemy; Registry is filled with the world when empty.
func NewManager(
	w *world.World,
	aiManager *ai.TickManager,
	lifecycle *ai.Lifecycle,
	templates *data.TemplateTable,
	deps agent.EnemyDeps,
	rng *rand.Rand,
) *Manager {
	if deps.Registry == nil {
		deps.Registry = w
	}
	if deps.Scheduler == nil {
		deps.Scheduler = aiManager.Scheduler()
	}
	if deps.Sink == nil {
		deps.Sink = event.Discard
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &Manager{
		world:     w,
		aiManager: aiManager,
		lifecycle: lifecycle,
		templates: templates,
		deps:      deps,
		rng:       rng,
	}
}

// Spawn creates one enemy at a point.
func (m *Manager) Spawn(ctx context.Context, p Point) (*agent.Agent, error) {
	tmpl := m.templates.Get(p.Template)
	if tmpl == nil {
		return nil, fmt.Errorf("spawning %q: unknown template %q", p.Name, p.Template)
	}
	if p.Level > 0 && p.Level != tmpl.Level {
		leveled := *tmpl
		leveled.Level = p.Level
		tmpl = &leveled
	}

	deps := m.deps
	deps.Rand = rand.New(rand.NewPCG(m.rng.Uint64(), m.rng.Uint64()))

	id := m.world.IDs().NextEnemyID()
	at := model.NewTransform(p.Position, model.Rotator{Yaw: p.Yaw})

	enemy, err := agent.NewEnemy(ctx, id, tmpl, at, deps)
	if err != nil {
		return nil, fmt.Errorf("spawning %q: %w", p.Name, err)
	}
	if err := m.world.Add(enemy); err != nil {
		return nil, fmt.Errorf("spawning %q: %w", p.Name, err)
	}
	if m.lifecycle != nil {
		m.lifecycle.Attach(enemy)
	}
	m.aiManager.Register(ai.NewEnemyAI(enemy, m.deps.Scheduler, deps.Rand))

	slog.Info("enemy spawned",
		"agent", id,
		"template", tmpl.Name,
		"archetype", tmpl.Archetype,
		"level", tmpl.Level,
		"point", p.Name,
		"position", p.Position)

	return enemy, nil
}

// SpawnAll spawns every point, logging and skipping failures. Returns the
// number spawned and the first error.
func (m *Manager) SpawnAll(ctx context.Context, points []Point) (int, error) {
	count := 0
	var firstErr error
	for _, p := range points {
		if _, err := m.Spawn(ctx, p); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			slog.Error("failed to spawn enemy",
				"point", p.Name,
				"template", p.Template,
				"error", err)
			continue
		}
		count++
	}
	return count, firstErr
}

// AddZone registers a combat zone.
func (m *Manager) AddZone(z *Zone) {
	m.mu.Lock()
	m.zones = append(m.zones, z)
	m.mu.Unlock()
}

// Zones returns registered zones.
func (m *Manager) Zones() []*Zone {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Zone(nil), m.zones...)
}

// CheckZones activates every idle zone that a live player stands in.
// Returns the number of zones activated.
func (m *Manager) CheckZones(ctx context.Context) int {
	activated := 0
	for _, z := range m.Zones() {
		if z.Activated() {
			continue
		}
		var trigger *agent.Agent
		m.world.ForEach(func(a *agent.Agent) bool {
			if a.Faction() == model.FactionPlayer && a.IsAlive() && z.Contains(a.Position()) {
				trigger = a
				return false
			}
			return true
		})
		if trigger == nil || !z.activate() {
			continue
		}

		spawned, _ := m.SpawnAll(ctx, z.Points())
		m.deps.Sink.Publish(event.ZoneActivated{
			Zone:        z.Name(),
			EncounterID: z.EncounterID().String(),
			Trigger:     trigger.ID(),
			Spawned:     spawned,
		})
		activated++

		slog.Info("combat zone activated",
			"zone", z.Name(),
			"encounter", z.EncounterID(),
			"trigger", trigger.ID(),
			"spawned", spawned)
	}
	return activated
}

// Hook returns a tick hook that checks zone triggers every frame.
func (m *Manager) Hook(ctx context.Context) ai.Hook {
	return func(float64) {
		m.CheckZones(ctx)
	}
}
