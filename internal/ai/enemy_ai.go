package ai

import (
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/udisondev/roboquest/internal/agent"
	"github.com/udisondev/roboquest/internal/locomotion"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
)

// EnemyAI is the controller of a hostile agent. Each tick it evaluates
// Sequence(alive, perceive, hasTarget, move); attacks run off a repeating
// scheduler entry at the template fire rate.
type EnemyAI struct {
	agent *agent.Agent
	sched *schedule.Scheduler
	rng   *rand.Rand

	tree    bt.Node
	dt      float64
	running atomic.Bool

	attackLoop schedule.Handle
}

// NewEnemyAI creates a controller for an enemy agent. rng may be nil.
func NewEnemyAI(a *agent.Agent, sched *schedule.Scheduler, rng *rand.Rand) *EnemyAI {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(a.ID()), 0x9e3779b97f4a7c15))
	}
	c := &EnemyAI{
		agent: a,
		sched: sched,
		rng:   rng,
	}
	c.tree = bt.New(
		bt.Sequence,
		bt.New(c.alive),
		bt.New(c.perceive),
		bt.New(c.hasTarget),
		bt.New(c.move),
	)
	return c
}

// ID returns the controlled agent id.
func (c *EnemyAI) ID() model.AgentID {
	return c.agent.ID()
}

// Agent returns the controlled agent.
func (c *EnemyAI) Agent() *agent.Agent {
	return c.agent
}

// IsRunning reports whether the controller is started and not stopped.
func (c *EnemyAI) IsRunning() bool {
	return c.running.Load()
}

// Start arms the attack loop and any direction timers of the policy.
func (c *EnemyAI) Start() {
	if !c.running.CompareAndSwap(false, true) {
		return
	}

	id := c.agent.ID()
	if sp, ok := c.agent.Policy().(locomotion.Scheduled); ok {
		sp.Start(c.sched, id)
	}

	seq := c.agent.Sequencer()
	params := seq.Params()
	if params.FireRate <= 0 {
		slog.Warn("enemy has no fire rate, attack loop disabled",
			"agent", id,
			"template", c.agent.Name())
		return
	}

	interval := schedule.Seconds(1 / params.FireRate)
	c.attackLoop = c.sched.Every(id, c.initialDelay(params, interval), interval, seq.TryAttack)

	if IsDebugEnabled() {
		slog.Debug("enemy AI started",
			"agent", id,
			"archetype", c.agent.Archetype(),
			"interval", interval)
	}
}

// initialDelay draws the first attack delay from [InitialDelayMin,
// InitialDelayMax]; with no range configured it equals the interval.
func (c *EnemyAI) initialDelay(params model.AttackParams, interval time.Duration) time.Duration {
	lo, hi := params.InitialDelayMin, params.InitialDelayMax
	if lo <= 0 && hi <= 0 {
		return interval
	}
	if hi <= lo {
		return schedule.Seconds(lo)
	}
	return schedule.Seconds(lo + c.rng.Float64()*(hi-lo))
}

// Stop cancels the attack sequence and every scheduled callback of the agent.
func (c *EnemyAI) Stop() {
	if !c.running.CompareAndSwap(true, false) {
		return
	}
	c.agent.Sequencer().Cancel()
	c.sched.CancelOwner(c.agent.ID())
	c.attackLoop = 0

	if IsDebugEnabled() {
		slog.Debug("enemy AI stopped", "agent", c.agent.ID())
	}
}

// Tick evaluates the behavior tree once.
func (c *EnemyAI) Tick(dt float64) {
	c.dt = dt
	if _, err := c.tree.Tick(); err != nil {
		slog.Error("behavior tree tick failed",
			"agent", c.agent.ID(),
			"err", err)
	}
}

func (c *EnemyAI) alive([]bt.Node) (bt.Status, error) {
	if !c.running.Load() || !c.agent.IsAlive() {
		return bt.Failure, nil
	}
	return bt.Success, nil
}

func (c *EnemyAI) perceive([]bt.Node) (bt.Status, error) {
	c.agent.Perception().FindTarget()
	return bt.Success, nil
}

func (c *EnemyAI) hasTarget([]bt.Node) (bt.Status, error) {
	if !c.agent.Perception().HasValidTarget() {
		return bt.Failure, nil
	}
	return bt.Success, nil
}

func (c *EnemyAI) move([]bt.Node) (bt.Status, error) {
	p := c.agent.Perception()
	target, ok := p.Target()
	if !ok {
		return bt.Failure, nil
	}

	frame := locomotion.Frame{
		Target: target.Position,
		Speed:  c.agent.MoveSpeed(),
		CanSee: p.CanSeeTarget(),
	}
	c.agent.UpdateBody(func(body *model.Transform) {
		frame.Body = body
		c.agent.Policy().Update(frame, c.dt)
	})
	return bt.Success, nil
}
