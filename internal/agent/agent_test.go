package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/roboquest/internal/data"
	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
	"github.com/udisondev/roboquest/internal/status"
)

func newTestEnemy(t *testing.T, name string, stats data.StatProvider) *Agent {
	t.Helper()
	tmpl := data.DefaultTemplateTable().Get(name)
	require.NotNil(t, tmpl)

	a, err := NewEnemy(context.Background(), 0x10000001, tmpl,
		model.NewTransform(model.Vec3{}, model.Rotator{}),
		EnemyDeps{
			Stats:        stats,
			StatusConfig: status.DefaultConfig(),
			Scheduler:    schedule.New(),
			Sink:         event.Discard,
		})
	require.NoError(t, err)
	return a
}

func TestNewEnemy_FromTemplate(t *testing.T) {
	a := newTestEnemy(t, "SmallBot", data.DefaultStatTable())

	assert.Equal(t, model.FactionHostile, a.Faction())
	assert.Equal(t, model.ArchetypeTank, a.Archetype())
	assert.InDelta(t, 100.0, a.Status().MaxHealth(), 1e-9)
	assert.InDelta(t, 50.0, a.Status().ExpReward(), 1e-9)
	assert.InDelta(t, 300.0, a.MoveSpeed(), 1e-9)
	assert.NotNil(t, a.Perception())
	assert.NotNil(t, a.Policy())
	assert.NotNil(t, a.Sequencer())
	assert.True(t, a.IsAlive())
}

func TestNewEnemy_MissingStatsKeepsDefaults(t *testing.T) {
	a := newTestEnemy(t, "SmallBot", data.NewStatTable())

	assert.InDelta(t, status.DefaultConfig().InitialMaxHealth, a.Status().MaxHealth(), 1e-9)
}

func TestNewEnemy_UnknownArchetype(t *testing.T) {
	tmpl := &model.AgentTemplate{Name: "Broken", Archetype: model.Archetype(99)}
	_, err := NewEnemy(context.Background(), 0x10000001, tmpl, model.Transform{}, EnemyDeps{
		StatusConfig: status.DefaultConfig(),
	})
	assert.Error(t, err)
}

func TestApplyDamage_DeathFiresOnce(t *testing.T) {
	a := newTestEnemy(t, "SmallBot", data.DefaultStatTable())

	var deaths int
	var killer model.AgentID
	a.SetDeathFunc(func(dead *Agent, instigator model.AgentID) {
		deaths++
		killer = instigator
	})

	got := a.ApplyDamage(7, 30)
	assert.InDelta(t, 30.0, got, 1e-9)
	assert.InDelta(t, 70.0, a.Status().CurrentHealth(), 1e-9)
	assert.True(t, a.IsAlive())

	a.ApplyDamage(7, 500)
	assert.False(t, a.IsAlive())
	assert.Equal(t, 1, deaths)
	assert.Equal(t, model.AgentID(7), killer)
	assert.Equal(t, model.AgentID(7), a.Killer())

	assert.Zero(t, a.ApplyDamage(8, 10))
	assert.Equal(t, 1, deaths)
}

func TestPlayer(t *testing.T) {
	p := NewPlayer(1, "player", model.Transform{}, 600, status.DefaultConfig(), event.Discard)

	assert.Equal(t, model.FactionPlayer, p.Faction())
	assert.Nil(t, p.Sequencer())
	assert.Nil(t, p.Template())

	p.ApplyDamage(0x10000001, 40)
	p.Heal(10)
	assert.InDelta(t, 70.0, p.Status().CurrentHealth(), 1e-9)

	p.SetHidden(true)
	target := p.AsTarget()
	assert.True(t, target.Hidden)
	assert.True(t, target.Alive)
}

func TestPlayer_AttachPerception(t *testing.T) {
	p := NewPlayer(1, "player", model.Transform{}, 600, status.DefaultConfig(), event.Discard)
	require.Nil(t, p.Perception())

	per := p.AttachPerception(nil, nil, 1000, 60)
	assert.Same(t, per, p.Perception())

	p.SetTransform(model.NewTransform(model.Vec3{X: 5}, model.Rotator{}))
	assert.InDelta(t, 60.0, per.Eye().Z, 1e-9)
	assert.InDelta(t, 5.0, per.Eye().X, 1e-9)
}
