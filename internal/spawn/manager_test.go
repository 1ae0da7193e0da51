package spawn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/roboquest/internal/agent"
	"github.com/udisondev/roboquest/internal/ai"
	"github.com/udisondev/roboquest/internal/data"
	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
	"github.com/udisondev/roboquest/internal/status"
	"github.com/udisondev/roboquest/internal/world"
)

type fixture struct {
	world  *world.World
	queue  *event.Queue
	aiMgr  *ai.TickManager
	mgr    *Manager
	events []event.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		world: world.New(),
		queue: event.NewQueue(),
	}
	f.aiMgr = ai.NewTickManager(schedule.New(), f.queue, 50*time.Millisecond)
	lifecycle := ai.NewLifecycle(f.world, f.aiMgr, f.queue, time.Second)
	f.mgr = NewManager(f.world, f.aiMgr, lifecycle, data.DefaultTemplateTable(),
		agent.EnemyDeps{
			Stats:        data.DefaultStatTable(),
			StatusConfig: status.DefaultConfig(),
			Sink:         f.queue,
		}, nil)
	f.queue.Subscribe(func(e event.Event) { f.events = append(f.events, e) })
	return f
}

func (f *fixture) addPlayer(t *testing.T, pos model.Vec3) *agent.Agent {
	t.Helper()
	p := agent.NewPlayer(f.world.IDs().NextPlayerID(), "player",
		model.NewTransform(pos, model.Rotator{}), 600, status.DefaultConfig(), f.queue)
	require.NoError(t, f.world.Add(p))
	return p
}

func squareZone(t *testing.T, points ...Point) *Zone {
	t.Helper()
	z, err := NewZone(ZoneConfig{
		Name:    "hangar",
		Polygon: [][2]float64{{0, 0}, {1000, 0}, {1000, 1000}, {0, 1000}},
		MinZ:    -100,
		MaxZ:    500,
		Points:  points,
	})
	require.NoError(t, err)
	return z
}

func TestManager_Spawn(t *testing.T) {
	f := newFixture(t)

	e, err := f.mgr.Spawn(context.Background(), Point{
		Name:     "pod-1",
		Template: "SmallPod",
		Position: model.Vec3{X: 10, Y: 20},
		Yaw:      90,
	})
	require.NoError(t, err)

	assert.True(t, world.IsEnemyID(e.ID()))
	assert.Equal(t, 1, f.world.Count())
	assert.Equal(t, 1, f.aiMgr.Count())
	assert.InDelta(t, 90.0, e.Transform().Rotation.Yaw, 1e-9)
	assert.InDelta(t, 60.0, e.Status().MaxHealth(), 1e-9)
}

func TestManager_SpawnLevelOverride(t *testing.T) {
	f := newFixture(t)

	e, err := f.mgr.Spawn(context.Background(), Point{Name: "bot", Template: "SmallBot", Level: 3})
	require.NoError(t, err)

	assert.Equal(t, int32(3), e.Status().Level())
	assert.InDelta(t, 100*1.1*1.1, e.Status().MaxHealth(), 1e-9)
	assert.Equal(t, int32(1), data.DefaultTemplateTable().Get("SmallBot").Level, "template must not be mutated")
}

func TestManager_SpawnUnknownTemplate(t *testing.T) {
	f := newFixture(t)

	n, err := f.mgr.SpawnAll(context.Background(), []Point{
		{Name: "a", Template: "SmallPod"},
		{Name: "b", Template: "Nope"},
		{Name: "c", Template: "LightFly"},
	})
	assert.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, f.world.Count())
}

func TestZone_Contains(t *testing.T) {
	z := squareZone(t)

	tests := []struct {
		name string
		pos  model.Vec3
		want bool
	}{
		{"inside", model.Vec3{X: 500, Y: 500}, true},
		{"outside", model.Vec3{X: 1500, Y: 500}, false},
		{"too high", model.Vec3{X: 500, Y: 500, Z: 800}, false},
		{"too low", model.Vec3{X: 500, Y: 500, Z: -200}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, z.Contains(tt.pos))
		})
	}

	c := z.Center()
	assert.InDelta(t, 500.0, c.X, 1e-6)
	assert.InDelta(t, 500.0, c.Y, 1e-6)
}

func TestNewZone_TooFewVertices(t *testing.T) {
	_, err := NewZone(ZoneConfig{Name: "bad", Polygon: [][2]float64{{0, 0}, {1, 1}}})
	assert.Error(t, err)
}

func TestManager_ZoneActivatesOnce(t *testing.T) {
	f := newFixture(t)
	z := squareZone(t,
		Point{Name: "pawn", Template: "GunPawn", Position: model.Vec3{X: 900, Y: 900}},
		Point{Name: "fly", Template: "LightFly", Position: model.Vec3{X: 100, Y: 900, Z: 300}},
	)
	f.mgr.AddZone(z)
	f.aiMgr.AddHook(f.mgr.Hook(context.Background()))

	player := f.addPlayer(t, model.Vec3{X: -500, Y: 500})
	f.aiMgr.Step(50 * time.Millisecond)
	assert.False(t, z.Activated())
	assert.Equal(t, 1, f.world.Count())

	player.SetTransform(model.NewTransform(model.Vec3{X: 200, Y: 200}, model.Rotator{}))
	f.aiMgr.Step(50 * time.Millisecond)
	f.aiMgr.Step(50 * time.Millisecond)

	assert.True(t, z.Activated())
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", z.EncounterID().String())
	assert.Equal(t, 3, f.world.Count())
	assert.Equal(t, 2, f.aiMgr.Count())

	var activations []event.ZoneActivated
	for _, e := range f.events {
		if za, ok := e.(event.ZoneActivated); ok {
			activations = append(activations, za)
		}
	}
	require.Len(t, activations, 1)
	assert.Equal(t, "hangar", activations[0].Zone)
	assert.Equal(t, player.ID(), activations[0].Trigger)
	assert.Equal(t, 2, activations[0].Spawned)
	assert.Equal(t, z.EncounterID().String(), activations[0].EncounterID)
}
