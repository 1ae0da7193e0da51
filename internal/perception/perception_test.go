package perception

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/roboquest/internal/model"
)

type fakeRegistry struct {
	targets []Target
}

func (r *fakeRegistry) Resolve(id model.AgentID) (Target, bool) {
	for _, t := range r.targets {
		if t.ID == id {
			return t, true
		}
	}
	return Target{}, false
}

func (r *fakeRegistry) ForEachTarget(fn func(Target) bool) {
	for _, t := range r.targets {
		if !fn(t) {
			return
		}
	}
}

func (r *fakeRegistry) set(id model.AgentID, mutate func(*Target)) {
	for i := range r.targets {
		if r.targets[i].ID == id {
			mutate(&r.targets[i])
		}
	}
}

type fakeLOS struct {
	visible bool
	from    model.Vec3
	ignore  []model.AgentID
}

func (f *fakeLOS) IsVisible(from, to model.Vec3, ignore ...model.AgentID) bool {
	f.from = from
	f.ignore = ignore
	return f.visible
}

func newTestPerception(reg Registry, los LineOfSight) (*Perception, *model.Transform) {
	body := &model.Transform{}
	return New(1, model.FactionHostile, body, 1000, 50, reg, los), body
}

func TestFindTarget_Nearest(t *testing.T) {
	reg := &fakeRegistry{targets: []Target{
		{ID: 1, Faction: model.FactionHostile, Position: model.NewVec3(0, 0, 0), Alive: true},
		{ID: 2, Faction: model.FactionPlayer, Position: model.NewVec3(800, 0, 0), Alive: true},
		{ID: 3, Faction: model.FactionPlayer, Position: model.NewVec3(300, 0, 0), Alive: true},
		{ID: 4, Faction: model.FactionHostile, Position: model.NewVec3(10, 0, 0), Alive: true},
	}}
	p, _ := newTestPerception(reg, nil)

	assert.Equal(t, model.AgentID(3), p.FindTarget())
	assert.True(t, p.HasValidTarget())
}

func TestFindTarget_SkipsIneligible(t *testing.T) {
	reg := &fakeRegistry{targets: []Target{
		{ID: 2, Faction: model.FactionPlayer, Position: model.NewVec3(100, 0, 0), Alive: false},
		{ID: 3, Faction: model.FactionPlayer, Position: model.NewVec3(200, 0, 0), Alive: true, Hidden: true},
		{ID: 4, Faction: model.FactionPlayer, Position: model.NewVec3(2000, 0, 0), Alive: true},
	}}
	p, _ := newTestPerception(reg, nil)

	assert.Equal(t, model.NoAgent, p.FindTarget())
	assert.False(t, p.HasValidTarget())
	assert.False(t, p.CanSeeTarget())
}

func TestHasValidTarget_TracksChanges(t *testing.T) {
	reg := &fakeRegistry{targets: []Target{
		{ID: 2, Faction: model.FactionPlayer, Position: model.NewVec3(500, 0, 0), Alive: true},
	}}
	p, _ := newTestPerception(reg, nil)
	require.Equal(t, model.AgentID(2), p.FindTarget())

	reg.set(2, func(t *Target) { t.Position = model.NewVec3(1500, 0, 0) })
	assert.False(t, p.HasValidTarget(), "left detect range")

	reg.set(2, func(t *Target) { t.Position = model.NewVec3(500, 0, 0); t.Hidden = true })
	assert.False(t, p.HasValidTarget(), "hidden")

	reg.set(2, func(t *Target) { t.Hidden = false })
	assert.True(t, p.HasValidTarget())

	reg.targets = nil
	assert.False(t, p.HasValidTarget(), "removed from the world")
	_, ok := p.Target()
	assert.False(t, ok)
}

func TestCanSeeTarget_UsesEyeAndIgnoresSelfAndTarget(t *testing.T) {
	reg := &fakeRegistry{targets: []Target{
		{ID: 2, Faction: model.FactionPlayer, Position: model.NewVec3(500, 0, 0), Alive: true},
	}}
	los := &fakeLOS{visible: true}
	p, body := newTestPerception(reg, los)
	body.Position = model.NewVec3(0, 0, 10)

	p.FindTarget()
	assert.True(t, p.CanSeeTarget())
	assert.True(t, p.LastVisible())
	assert.Equal(t, model.NewVec3(0, 0, 60), los.from)
	assert.ElementsMatch(t, []model.AgentID{1, 2}, los.ignore)

	los.visible = false
	assert.False(t, p.CanSeeTarget())
	assert.False(t, p.LastVisible())
}

func TestClearTarget(t *testing.T) {
	reg := &fakeRegistry{targets: []Target{
		{ID: 2, Faction: model.FactionPlayer, Position: model.NewVec3(100, 0, 0), Alive: true},
	}}
	p, _ := newTestPerception(reg, nil)
	p.FindTarget()
	require.True(t, p.HasValidTarget())

	p.ClearTarget()
	assert.Equal(t, model.NoAgent, p.TargetID())
	assert.False(t, p.HasValidTarget())
}
