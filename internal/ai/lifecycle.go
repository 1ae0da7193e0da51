package ai

import (
	"log/slog"
	"time"

	"github.com/udisondev/roboquest/internal/agent"
	"github.com/udisondev/roboquest/internal/combat"
	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
	"github.com/udisondev/roboquest/internal/world"
)

// DefaultDeathGrace is how long a dead agent stays in the world.
const DefaultDeathGrace = 5 * time.Second

// DropFunc spawns count healing cells at a position.
type DropFunc func(at model.Vec3, count int)

// Lifecycle handles the terminal transition of agents: it stops the
// controller, rewards the killer, drops healing cells and removes the body
// after the grace period.
type Lifecycle struct {
	world   *world.World
	manager *TickManager
	sched   *schedule.Scheduler
	sink    event.Sink
	grace   time.Duration
	drop    DropFunc
}

// NewLifecycle creates a lifecycle handler. A non-positive grace means
// DefaultDeathGrace.
func NewLifecycle(w *world.World, m *TickManager, sink event.Sink, grace time.Duration) *Lifecycle {
	if grace <= 0 {
		grace = DefaultDeathGrace
	}
	if sink == nil {
		sink = event.Discard
	}
	return &Lifecycle{
		world:   w,
		manager: m,
		sched:   m.Scheduler(),
		sink:    sink,
		grace:   grace,
	}
}

// SetDropFunc sets the healing cell spawner.
func (l *Lifecycle) SetDropFunc(fn DropFunc) {
	l.drop = fn
}

// Attach installs the death handler on an agent.
func (l *Lifecycle) Attach(a *agent.Agent) {
	a.SetDeathFunc(l.onDeath)
}

func (l *Lifecycle) onDeath(a *agent.Agent, instigator model.AgentID) {
	id := a.ID()
	l.manager.Unregister(id)
	l.sched.CancelOwner(id)

	if killer, ok := l.world.Get(instigator); ok && killer.Faction() == model.FactionPlayer && killer.Faction().IsHostileTo(a.Faction()) {
		combat.RewardExp(killer, id, a.Status().ExpReward())
	}

	l.sink.Publish(event.AgentDied{Agent: id, Instigator: instigator})

	if tmpl := a.Template(); tmpl != nil && tmpl.HealingDrops > 0 && l.drop != nil {
		l.drop(a.Position(), tmpl.HealingDrops)
	}

	l.sched.After(id, l.grace, func() {
		l.world.Remove(id)
		l.sink.Publish(event.AgentRemoved{Agent: id})
	})

	slog.Info("agent killed",
		"agent", id,
		"name", a.Name(),
		"killer", instigator,
		"grace", l.grace)
}
