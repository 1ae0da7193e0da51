package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
)

type fakeController struct {
	id      model.AgentID
	log     *[]model.AgentID
	started int
	stopped int
	ticks   int
	lastDt  float64
}

func (f *fakeController) ID() model.AgentID { return f.id }
func (f *fakeController) Start()            { f.started++ }
func (f *fakeController) Stop()             { f.stopped++ }
func (f *fakeController) Tick(dt float64) {
	f.ticks++
	f.lastDt = dt
	if f.log != nil {
		*f.log = append(*f.log, f.id)
	}
}

func newTestManager() *TickManager {
	return NewTickManager(schedule.New(), event.NewQueue(), 50*time.Millisecond)
}

func TestTickManager_RegisterUnregister(t *testing.T) {
	mgr := newTestManager()
	c := &fakeController{id: 1}

	mgr.Register(c)

	if mgr.Count() != 1 {
		t.Errorf("Count() after Register() = %d, want 1", mgr.Count())
	}
	if c.started != 1 {
		t.Errorf("started = %d, want 1", c.started)
	}

	got, err := mgr.GetController(1)
	if err != nil {
		t.Fatalf("GetController() error = %v", err)
	}
	if got.ID() != 1 {
		t.Errorf("GetController().ID() = %d, want 1", got.ID())
	}

	mgr.Unregister(1)
	mgr.Unregister(1)

	if mgr.Count() != 0 {
		t.Errorf("Count() after Unregister() = %d, want 0", mgr.Count())
	}
	if c.stopped != 1 {
		t.Errorf("stopped = %d, want 1", c.stopped)
	}
	if _, err := mgr.GetController(1); err == nil {
		t.Error("GetController() after Unregister() should return error")
	}
}

func TestTickManager_ReplaceStopsOld(t *testing.T) {
	mgr := newTestManager()
	old := &fakeController{id: 1}
	repl := &fakeController{id: 1}

	mgr.Register(old)
	mgr.Register(repl)

	if mgr.Count() != 1 {
		t.Errorf("Count() = %d, want 1", mgr.Count())
	}
	if old.stopped != 1 {
		t.Errorf("old controller stopped = %d, want 1", old.stopped)
	}
}

func TestTickManager_StepOrder(t *testing.T) {
	mgr := newTestManager()
	var order []model.AgentID
	for _, id := range []model.AgentID{3, 1, 2} {
		mgr.Register(&fakeController{id: id, log: &order})
	}

	var phases []string
	mgr.Scheduler().After(0, 50*time.Millisecond, func() {
		if len(order) != 3 {
			t.Errorf("scheduler ran before controllers: ticked %d", len(order))
		}
		phases = append(phases, "scheduler")
	})
	mgr.AddHook(func(dt float64) {
		phases = append(phases, "hook")
	})

	mgr.Step(50 * time.Millisecond)

	want := []model.AgentID{3, 1, 2}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("tick order = %v, want %v", order, want)
		}
	}
	if len(phases) != 2 || phases[0] != "scheduler" || phases[1] != "hook" {
		t.Errorf("phases = %v, want [scheduler hook]", phases)
	}
	if mgr.Ticks() != 1 {
		t.Errorf("Ticks() = %d, want 1", mgr.Ticks())
	}
}

func TestTickManager_StepFlushesEvents(t *testing.T) {
	queue := event.NewQueue()
	mgr := NewTickManager(schedule.New(), queue, 0)

	var got []event.Event
	queue.Subscribe(func(e event.Event) { got = append(got, e) })
	queue.Publish(event.AgentRemoved{Agent: 5})

	mgr.Step(DefaultTickInterval)

	if len(got) != 1 {
		t.Fatalf("flushed %d events, want 1", len(got))
	}
	if queue.Len() != 0 {
		t.Errorf("queue.Len() = %d, want 0", queue.Len())
	}
}

func TestTickManager_Start(t *testing.T) {
	mgr := newTestManager()
	c := &fakeController{id: 1}
	mgr.Register(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- mgr.Start(ctx)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not stop after context cancel")
	}

	if mgr.Ticks() == 0 {
		t.Error("expected at least one tick")
	}
}

func TestTickManager_Stop(t *testing.T) {
	mgr := newTestManager()

	done := make(chan error, 1)
	go func() {
		done <- mgr.Start(context.Background())
	}()

	mgr.Stop()
	mgr.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after Stop")
	}
}
