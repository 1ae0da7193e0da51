package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/geo"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/perception"
	"github.com/udisondev/roboquest/internal/schedule"
)

type fakeShooter struct {
	id        model.AgentID
	faction   model.Faction
	alive     bool
	transform model.Transform
	mult      float64
}

func (s *fakeShooter) ID() model.AgentID          { return s.id }
func (s *fakeShooter) Faction() model.Faction     { return s.faction }
func (s *fakeShooter) IsAlive() bool              { return s.alive }
func (s *fakeShooter) Transform() model.Transform { return s.transform }
func (s *fakeShooter) DamageMultiplier() float64  { return s.mult }

type fakeSight struct {
	valid   bool
	visible bool
	target  perception.Target
	eye     model.Vec3
}

func (s *fakeSight) HasValidTarget() bool { return s.valid }
func (s *fakeSight) CanSeeTarget() bool   { return s.visible }
func (s *fakeSight) Eye() model.Vec3      { return s.eye }
func (s *fakeSight) Target() (perception.Target, bool) {
	return s.target, s.valid
}

type recordingSink struct {
	events []event.Event
}

func (r *recordingSink) Publish(e event.Event) { r.events = append(r.events, e) }

func (r *recordingSink) count(match func(event.Event) bool) int {
	n := 0
	for _, e := range r.events {
		if match(e) {
			n++
		}
	}
	return n
}

type fixture struct {
	shooter *fakeShooter
	sight   *fakeSight
	sched   *schedule.Scheduler
	cues    *CueTable
	played  []string
	shots   []Projectile
	sink    *recordingSink
	seq     *Sequencer
}

func newFixture(t *testing.T, params model.AttackParams) *fixture {
	t.Helper()
	f := &fixture{
		shooter: &fakeShooter{id: 10, faction: model.FactionHostile, alive: true, mult: 1},
		sight: &fakeSight{
			valid:   true,
			visible: true,
			target:  perception.Target{ID: 1, Faction: model.FactionPlayer, Position: model.NewVec3(500, 0, 0), Alive: true},
			eye:     model.NewVec3(0, 0, 50),
		},
		sched: schedule.New(),
		cues:  NewCueTable(map[string]float64{"windup": 0.5, "fire": 0.1, "hit": 0.3}),
		sink:  &recordingSink{},
	}
	f.cues.SetObserver(func(_ model.AgentID, cue string) { f.played = append(f.played, cue) })
	f.seq = NewSequencer(f.shooter, f.sight, params, SequencerOptions{
		BaseDamage: 7,
		Range:      800,
		Scheduler:  f.sched,
		Cues:       f.cues,
		Spawner:    SpawnerFunc(func(p Projectile) { f.shots = append(f.shots, p) }),
		Sink:       f.sink,
	})
	return f
}

func telegraphedParams() model.AttackParams {
	return model.AttackParams{
		Damage:           10,
		ShotCount:        1,
		RequireRange:     true,
		RequireFacing:    true,
		AlignmentDot:     0.7,
		StaggerThreshold: 10,
		TelegraphCue:     "windup",
		FireCue:          "fire",
		HitReactCue:      "hit",
	}
}

func TestSequencer_TelegraphThenFire(t *testing.T) {
	f := newFixture(t, telegraphedParams())

	f.seq.TryAttack()
	assert.Equal(t, model.AttackTelegraphing, f.seq.State())
	assert.True(t, f.seq.Busy())
	assert.Empty(t, f.shots)

	f.sched.Advance(400 * time.Millisecond)
	assert.Empty(t, f.shots, "still winding up")

	f.sched.Advance(100 * time.Millisecond)
	require.Len(t, f.shots, 1)
	assert.Equal(t, model.AttackIdle, f.seq.State())
	assert.False(t, f.seq.Busy())

	shot := f.shots[0]
	assert.Equal(t, model.AgentID(10), shot.Owner)
	assert.Equal(t, model.FactionHostile, shot.OwnerFaction)
	assert.Equal(t, model.AgentID(1), shot.Target)
	assert.InDelta(t, 10.0, shot.Damage, 1e-9)
	assert.InDelta(t, 800.0, shot.Range, 1e-9)
	assert.Equal(t, []string{"windup", "fire"}, f.played)
}

func TestSequencer_BusyPreventsReentry(t *testing.T) {
	f := newFixture(t, telegraphedParams())

	f.seq.TryAttack()
	f.seq.TryAttack()
	f.seq.TryAttack()

	assert.Equal(t, []string{"windup"}, f.played)
	f.sched.Advance(time.Second)
	assert.Len(t, f.shots, 1)
}

func TestSequencer_StaggerCancelsTelegraph(t *testing.T) {
	f := newFixture(t, telegraphedParams())

	f.seq.TryAttack()
	require.Equal(t, model.AttackTelegraphing, f.seq.State())

	f.seq.OnStaggered(10)
	assert.Equal(t, model.AttackIdle, f.seq.State())
	assert.False(t, f.seq.Busy())
	assert.Equal(t, []string{"windup", "hit"}, f.played)

	f.sched.Advance(2 * time.Second)
	assert.Empty(t, f.shots, "cancelled fire must not happen")

	interrupted := f.sink.count(func(e event.Event) bool {
		ev, ok := e.(event.AttackInterrupted)
		return ok && ev.From == model.AttackTelegraphing
	})
	assert.Equal(t, 1, interrupted)

	f.seq.TryAttack()
	assert.Equal(t, model.AttackTelegraphing, f.seq.State(), "can attack again after a stagger")
}

func TestSequencer_StaggerBelowThresholdIgnored(t *testing.T) {
	f := newFixture(t, telegraphedParams())

	f.seq.TryAttack()
	f.seq.OnStaggered(9.99)
	assert.Equal(t, model.AttackTelegraphing, f.seq.State())

	f.sched.Advance(time.Second)
	assert.Len(t, f.shots, 1)
}

func TestSequencer_StaggerFromIdleIsSafe(t *testing.T) {
	f := newFixture(t, telegraphedParams())

	f.seq.OnStaggered(50)
	f.seq.OnStaggered(50)
	assert.Equal(t, model.AttackIdle, f.seq.State())
	assert.Equal(t, []string{"hit", "hit"}, f.played)
	assert.Equal(t, 0, f.sink.count(func(e event.Event) bool {
		_, ok := e.(event.AttackInterrupted)
		return ok
	}))
}

func TestSequencer_NoTelegraphCueFiresImmediately(t *testing.T) {
	params := telegraphedParams()
	params.TelegraphCue = ""
	f := newFixture(t, params)

	f.seq.TryAttack()
	assert.Len(t, f.shots, 1)
	assert.Equal(t, model.AttackIdle, f.seq.State())
}

func TestSequencer_Gates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"dead shooter", func(f *fixture) { f.shooter.alive = false }},
		{"no valid target", func(f *fixture) { f.sight.valid = false }},
		{"target not visible", func(f *fixture) { f.sight.visible = false }},
		{"out of range", func(f *fixture) { f.sight.target.Position = model.NewVec3(900, 0, 0) }},
		{"outside facing cone", func(f *fixture) { f.sight.target.Position = model.NewVec3(300, 400, 0) }},
		{"behind", func(f *fixture) { f.sight.target.Position = model.NewVec3(-300, 0, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, telegraphedParams())
			tt.setup(f)

			f.seq.TryAttack()
			assert.Equal(t, model.AttackIdle, f.seq.State())
			assert.False(t, f.seq.Busy())
			assert.Empty(t, f.played)
		})
	}
}

func TestSequencer_FacingAndRangeOptional(t *testing.T) {
	params := telegraphedParams()
	params.RequireFacing = false
	params.RequireRange = false
	f := newFixture(t, params)
	f.sight.target.Position = model.NewVec3(-3000, 0, 0)

	f.seq.TryAttack()
	assert.Equal(t, model.AttackTelegraphing, f.seq.State())
}

func TestSequencer_DamageScalesWithLevel(t *testing.T) {
	f := newFixture(t, telegraphedParams())
	f.shooter.mult = 1.2

	f.seq.TryAttack()
	f.sched.Advance(time.Second)
	require.Len(t, f.shots, 1)
	assert.InDelta(t, 12.0, f.shots[0].Damage, 1e-9)
}

func TestSequencer_BaseDamageFallback(t *testing.T) {
	params := telegraphedParams()
	params.Damage = 0
	f := newFixture(t, params)

	f.seq.TryAttack()
	f.sched.Advance(time.Second)
	require.Len(t, f.shots, 1)
	assert.InDelta(t, 7.0, f.shots[0].Damage, 1e-9)
}

func TestSequencer_DeathDuringTelegraph(t *testing.T) {
	f := newFixture(t, telegraphedParams())

	f.seq.TryAttack()
	f.shooter.alive = false
	f.sched.Advance(time.Second)

	assert.Empty(t, f.shots)
	assert.Equal(t, model.AttackIdle, f.seq.State())
	assert.False(t, f.seq.Busy())
}

func TestSequencer_CancelDropsPendingFire(t *testing.T) {
	f := newFixture(t, telegraphedParams())

	f.seq.TryAttack()
	f.seq.Cancel()
	f.sched.Advance(time.Second)

	assert.Empty(t, f.shots)
	assert.Equal(t, []string{"windup"}, f.played, "no hit-react on cancel")
	assert.Equal(t, 0, f.sched.Pending())
}

func TestSequencer_MissingSpawnerStillCompletes(t *testing.T) {
	shooter := &fakeShooter{id: 3, faction: model.FactionHostile, alive: true, mult: 1}
	sight := &fakeSight{valid: true, visible: true, target: perception.Target{ID: 1, Position: model.NewVec3(100, 0, 0)}}
	sink := &recordingSink{}
	seq := NewSequencer(shooter, sight, model.AttackParams{Damage: 5}, SequencerOptions{Range: 500, Sink: sink})

	seq.TryAttack()
	assert.Equal(t, model.AttackIdle, seq.State())
	assert.False(t, seq.Busy())

	fired := sink.count(func(e event.Event) bool {
		ev, ok := e.(event.AttackFired)
		return ok && ev.Shots == 0
	})
	assert.Equal(t, 1, fired)
}

func TestSequencer_MultiShotSpread(t *testing.T) {
	params := telegraphedParams()
	params.TelegraphCue = ""
	params.ShotCount = 3
	params.SpreadDegrees = 10
	f := newFixture(t, params)

	f.seq.TryAttack()
	require.Len(t, f.shots, 3)

	yaws := make([]float64, 0, 3)
	for _, s := range f.shots {
		yaws = append(yaws, model.RotationOf(s.Direction).Yaw)
	}
	assert.InDelta(t, -5.0, yaws[0], 1e-6)
	assert.InDelta(t, 0.0, yaws[1], 1e-6)
	assert.InDelta(t, 5.0, yaws[2], 1e-6)
}

func TestSequencer_MuzzleAim(t *testing.T) {
	params := telegraphedParams()
	params.TelegraphCue = ""
	params.MuzzleOffset = model.NewVec3(50, 0, 30)
	f := newFixture(t, params)
	f.sight.target.Position = model.NewVec3(550, 0, 30)

	f.seq.TryAttack()
	require.Len(t, f.shots, 1)
	assert.Equal(t, model.NewVec3(50, 0, 30), f.shots[0].Origin)
	assert.InDelta(t, 1.0, f.shots[0].Direction.X, 1e-9)
}

type fakeTracer struct {
	point model.Vec3
	hit   bool
}

func (f *fakeTracer) Trace(_, _ model.Vec3, _ ...model.AgentID) (geo.Hit, bool) {
	return geo.Hit{Point: f.point}, f.hit
}

func TestSequencer_ConvergentAim(t *testing.T) {
	shooter := &fakeShooter{id: 3, faction: model.FactionHostile, alive: true, mult: 1}
	sight := &fakeSight{
		valid:   true,
		visible: true,
		target:  perception.Target{ID: 1, Position: model.NewVec3(400, 0, 0)},
		eye:     model.NewVec3(0, 0, 50),
	}
	var shots []Projectile
	seq := NewSequencer(shooter, sight, model.AttackParams{
		Aim:          model.AimConvergent,
		MuzzleOffset: model.NewVec3(0, 20, 50),
		TraceRange:   1000,
	}, SequencerOptions{
		BaseDamage: 5,
		Range:      1000,
		Spawner:    SpawnerFunc(func(p Projectile) { shots = append(shots, p) }),
		Tracer:     &fakeTracer{point: model.NewVec3(300, 0, 50), hit: true},
	})

	seq.TryAttack()
	require.Len(t, shots, 1)

	// muzzle is to the right, shot converges on the traced point
	assert.InDelta(t, 0.0, shots[0].Origin.X, 1e-9)
	assert.InDelta(t, 20.0, shots[0].Origin.Y, 1e-9)
	assert.InDelta(t, 50.0, shots[0].Origin.Z, 1e-9)
	want, _ := model.NewVec3(300, -20, 0).Normalize()
	assert.InDelta(t, want.X, shots[0].Direction.X, 1e-9)
	assert.InDelta(t, want.Y, shots[0].Direction.Y, 1e-9)
}
