package ai

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/roboquest/internal/agent"
	"github.com/udisondev/roboquest/internal/combat"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
)

// arriveRadius is how close the player gets to a waypoint before moving on.
const arriveRadius = 10.0

// PlayerOptions configures a scripted player.
type PlayerOptions struct {
	Path     []model.Vec3
	Spawner  combat.Spawner
	Damage   float64
	FireRate float64 // shots per second, zero disables fire
	Range    float64
}

// PlayerAI walks a player along waypoints and shoots the nearest visible
// enemy. The player must have perception attached.
type PlayerAI struct {
	agent *agent.Agent
	sched *schedule.Scheduler
	opts  PlayerOptions

	next    int
	running atomic.Bool
	shots   int
}

// NewPlayerAI creates the scripted controller.
func NewPlayerAI(a *agent.Agent, sched *schedule.Scheduler, opts PlayerOptions) *PlayerAI {
	return &PlayerAI{agent: a, sched: sched, opts: opts}
}

// ID returns the controlled agent id.
func (c *PlayerAI) ID() model.AgentID {
	return c.agent.ID()
}

// Shots returns number of shots fired.
func (c *PlayerAI) Shots() int {
	return c.shots
}

// Waypoint returns the index of the next waypoint; len(Path) when done.
func (c *PlayerAI) Waypoint() int {
	return c.next
}

// Start arms the fire loop.
func (c *PlayerAI) Start() {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	if c.opts.FireRate <= 0 || c.opts.Spawner == nil || c.agent.Perception() == nil {
		return
	}
	interval := schedule.Seconds(1 / c.opts.FireRate)
	c.sched.Every(c.agent.ID(), interval, interval, c.fire)
}

// Stop cancels the fire loop.
func (c *PlayerAI) Stop() {
	if !c.running.CompareAndSwap(true, false) {
		return
	}
	c.sched.CancelOwner(c.agent.ID())
}

// Tick advances along the path.
func (c *PlayerAI) Tick(dt float64) {
	if !c.running.Load() || !c.agent.IsAlive() || c.next >= len(c.opts.Path) {
		return
	}

	goal := c.opts.Path[c.next]
	step := c.agent.MoveSpeed() * dt
	c.agent.UpdateBody(func(body *model.Transform) {
		to := goal.Sub(body.Position)
		dist := to.Length()
		if dist <= step {
			body.Position = goal
		} else {
			body.Position = body.Position.Add(to.Scale(step / dist))
		}
		body.Rotation = model.LookAt(body.Position, goal, body.Rotation).YawOnly()
		if dist <= step+arriveRadius {
			c.next++
		}
	})
}

func (c *PlayerAI) fire() {
	if !c.agent.IsAlive() {
		return
	}
	p := c.agent.Perception()
	p.FindTarget()
	if !p.HasValidTarget() || !p.CanSeeTarget() {
		return
	}
	target, ok := p.Target()
	if !ok {
		return
	}

	eye := p.Eye()
	dir, ok := target.Position.Sub(eye).Normalize()
	if !ok {
		return
	}

	c.opts.Spawner.SpawnProjectile(combat.Projectile{
		Owner:          c.agent.ID(),
		OwnerFaction:   c.agent.Faction(),
		Target:         target.ID,
		Origin:         eye,
		Direction:      dir,
		Damage:         c.opts.Damage * c.agent.DamageMultiplier(),
		Range:          c.opts.Range,
		CritMultiplier: 1,
	})
	c.shots++

	if IsDebugEnabled() {
		slog.Debug("player fired",
			"agent", c.agent.ID(),
			"target", target.ID)
	}
}
