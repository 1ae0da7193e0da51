package combat

import (
	"log/slog"
	"time"

	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/geo"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/perception"
	"github.com/udisondev/roboquest/internal/schedule"
)

// Shooter is the agent that owns a sequencer.
type Shooter interface {
	ID() model.AgentID
	Faction() model.Faction
	IsAlive() bool
	Transform() model.Transform
	DamageMultiplier() float64
}

// Sight is the shooter's perception.
type Sight interface {
	HasValidTarget() bool
	CanSeeTarget() bool
	Target() (perception.Target, bool)
	Eye() model.Vec3
}

// Tracer resolves convergent aim points.
type Tracer interface {
	Trace(from, to model.Vec3, ignore ...model.AgentID) (geo.Hit, bool)
}

// SequencerOptions are the collaborators of a sequencer. Any of Cues,
// Spawner, Tracer and Sink may be nil.
type SequencerOptions struct {
	// BaseDamage is used when AttackParams.Damage is not positive.
	BaseDamage float64
	// Range is the effective attack range.
	Range     float64
	Scheduler *schedule.Scheduler
	Cues      CuePlayer
	Spawner   Spawner
	Tracer    Tracer
	Sink      event.Sink
}

// Sequencer runs the telegraphed attack cycle
// Idle → Telegraphing → Firing → Idle, interrupted back to Idle by a stagger.
// Not safe for concurrent use; driven from the tick goroutine.
type Sequencer struct {
	owner  Shooter
	sight  Sight
	params model.AttackParams
	opts   SequencerOptions

	rangeSq float64

	state   model.AttackState
	busy    bool
	pending schedule.Handle
	target  model.AgentID
}

// NewSequencer creates an idle sequencer.
func NewSequencer(owner Shooter, sight Sight, params model.AttackParams, opts SequencerOptions) *Sequencer {
	if opts.Sink == nil {
		opts.Sink = event.Discard
	}
	if params.ShotCount < 1 {
		params.ShotCount = 1
	}
	if params.CritMultiplier <= 0 {
		params.CritMultiplier = 1
	}
	if params.AlignmentDot == 0 {
		params.AlignmentDot = 0.7
	}
	return &Sequencer{
		owner:   owner,
		sight:   sight,
		params:  params,
		opts:    opts,
		rangeSq: opts.Range * opts.Range,
		state:   model.AttackIdle,
	}
}

// State returns the current attack state.
func (s *Sequencer) State() model.AttackState {
	return s.state
}

// Busy reports whether a sequence is in flight.
func (s *Sequencer) Busy() bool {
	return s.busy
}

// Params returns the attack parameters.
func (s *Sequencer) Params() model.AttackParams {
	return s.params
}

// TryAttack starts a sequence if the shooter is alive, idle, has a valid
// visible target, and the range and facing gates pass.
func (s *Sequencer) TryAttack() {
	if s.busy || !s.owner.IsAlive() {
		return
	}
	if !s.sight.HasValidTarget() || !s.sight.CanSeeTarget() {
		return
	}
	target, ok := s.sight.Target()
	if !ok {
		return
	}

	body := s.owner.Transform()
	to := target.Position.Sub(body.Position)

	if s.params.RequireRange && to.LengthSquared() > s.rangeSq {
		return
	}
	if s.params.RequireFacing {
		dir := to.Planar().SafeNormal(body.Rotation.Forward())
		if body.Rotation.YawOnly().Forward().Dot(dir) < s.params.AlignmentDot {
			return
		}
	}

	s.busy = true
	s.state = model.AttackTelegraphing
	s.target = target.ID

	var wait time.Duration
	if s.opts.Cues != nil && s.params.TelegraphCue != "" {
		wait = s.opts.Cues.PlayCue(s.owner.ID(), s.params.TelegraphCue)
	}

	s.opts.Sink.Publish(event.AttackTelegraphed{
		Agent:    s.owner.ID(),
		Target:   target.ID,
		Duration: wait.Seconds(),
	})

	if IsDebugEnabled() {
		slog.Debug("attack telegraphed",
			"agent", s.owner.ID(),
			"target", target.ID,
			"wait", wait)
	}

	if wait > 0 && s.opts.Scheduler != nil {
		s.pending = s.opts.Scheduler.After(s.owner.ID(), wait, s.PerformAttack)
		return
	}
	s.PerformAttack()
}

// PerformAttack fires the pending sequence. If the shooter died or the
// sequence was interrupted meanwhile it only resets.
func (s *Sequencer) PerformAttack() {
	s.pending = 0
	if s.state != model.AttackTelegraphing || !s.owner.IsAlive() {
		s.reset()
		return
	}

	s.state = model.AttackFiring
	if s.opts.Cues != nil && s.params.FireCue != "" {
		s.opts.Cues.PlayCue(s.owner.ID(), s.params.FireCue)
	}

	damage := s.damage()
	shots := 0
	if s.opts.Spawner == nil {
		if IsDebugEnabled() {
			slog.Debug("no projectile spawner, skipping shot", "agent", s.owner.ID())
		}
	} else {
		origin, aim := s.aim()
		for _, dir := range spread(aim, s.params.ShotCount, s.params.SpreadDegrees) {
			s.opts.Spawner.SpawnProjectile(Projectile{
				Owner:          s.owner.ID(),
				OwnerFaction:   s.owner.Faction(),
				Target:         s.target,
				Origin:         origin,
				Direction:      dir,
				Damage:         damage,
				Range:          s.opts.Range,
				CritMultiplier: s.params.CritMultiplier,
			})
			shots++
		}
	}

	s.opts.Sink.Publish(event.AttackFired{
		Agent:  s.owner.ID(),
		Target: s.target,
		Shots:  shots,
		Damage: damage,
	})

	if IsDebugEnabled() {
		slog.Debug("attack fired",
			"agent", s.owner.ID(),
			"target", s.target,
			"shots", shots,
			"damage", damage)
	}

	s.reset()
}

// OnStaggered cancels an in-flight sequence when damage reaches the stagger
// threshold. Safe to call from any state.
func (s *Sequencer) OnStaggered(damage float64) {
	if damage <= 0 || damage < s.params.StaggerThreshold || !s.owner.IsAlive() {
		return
	}

	from := s.state
	if s.pending != 0 && s.opts.Scheduler != nil {
		s.opts.Scheduler.Cancel(s.pending)
	}
	s.pending = 0

	if from == model.AttackTelegraphing || from == model.AttackFiring {
		s.state = model.AttackInterrupted
		s.opts.Sink.Publish(event.AttackInterrupted{Agent: s.owner.ID(), From: from})
		if IsDebugEnabled() {
			slog.Debug("attack interrupted",
				"agent", s.owner.ID(),
				"from", from,
				"damage", damage)
		}
	}
	s.reset()

	if s.opts.Cues != nil && s.params.HitReactCue != "" {
		s.opts.Cues.PlayCue(s.owner.ID(), s.params.HitReactCue)
	}
}

// Cancel drops any in-flight sequence without playing cues.
func (s *Sequencer) Cancel() {
	if s.pending != 0 && s.opts.Scheduler != nil {
		s.opts.Scheduler.Cancel(s.pending)
	}
	s.pending = 0
	s.reset()
}

func (s *Sequencer) reset() {
	s.state = model.AttackIdle
	s.busy = false
	s.target = model.NoAgent
}

func (s *Sequencer) damage() float64 {
	base := s.params.Damage
	if base <= 0 {
		base = s.opts.BaseDamage
	}
	return base * s.owner.DamageMultiplier()
}

// aim returns the muzzle position and the central shot direction.
func (s *Sequencer) aim() (model.Vec3, model.Vec3) {
	body := s.owner.Transform()
	forward := body.Rotation.Forward()
	muzzle := body.TransformPoint(s.params.MuzzleOffset)

	var aimPoint model.Vec3
	switch s.params.Aim {
	case model.AimConvergent:
		eye := s.sight.Eye()
		traceRange := s.params.TraceRange
		if traceRange <= 0 {
			traceRange = s.opts.Range
		}
		aimPoint = eye.Add(forward.Scale(traceRange))
		if s.opts.Tracer != nil {
			if hit, ok := s.opts.Tracer.Trace(eye, aimPoint, s.owner.ID()); ok {
				aimPoint = hit.Point
			}
		}
	default:
		target, ok := s.sight.Target()
		if !ok {
			return muzzle, forward
		}
		aimPoint = target.Position
	}

	return muzzle, aimPoint.Sub(muzzle).SafeNormal(forward)
}

// spread fans count directions evenly across spreadDeg of yaw around dir.
func spread(dir model.Vec3, count int, spreadDeg float64) []model.Vec3 {
	if count <= 1 || spreadDeg == 0 {
		out := make([]model.Vec3, count)
		for i := range out {
			out[i] = dir
		}
		return out
	}

	base := model.RotationOf(dir)
	step := spreadDeg / float64(count-1)
	out := make([]model.Vec3, count)
	for i := range out {
		r := base
		r.Yaw += -spreadDeg/2 + step*float64(i)
		out[i] = r.Forward()
	}
	return out
}
