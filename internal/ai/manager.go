package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/roboquest/internal/event"
	"github.com/udisondev/roboquest/internal/model"
	"github.com/udisondev/roboquest/internal/schedule"
)

// DefaultTickInterval is the frame length of the simulation loop.
const DefaultTickInterval = 50 * time.Millisecond

// Hook runs once per tick after the scheduler; dt in seconds.
type Hook func(dt float64)

// TickManager owns the frame loop: controllers tick in registration order,
// then the scheduler advances, then hooks run, then queued events flush.
type TickManager struct {
	mu          sync.Mutex
	controllers map[model.AgentID]Controller
	order       []model.AgentID
	hooks       []Hook

	sched    *schedule.Scheduler
	queue    *event.Queue
	interval time.Duration

	controllerCount atomic.Int32
	ticks           atomic.Uint64
	stopCh          chan struct{}
	stopOnce        sync.Once
}

// NewTickManager creates a manager. A non-positive interval means
// DefaultTickInterval.
func NewTickManager(sched *schedule.Scheduler, queue *event.Queue, interval time.Duration) *TickManager {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &TickManager{
		controllers: make(map[model.AgentID]Controller),
		sched:       sched,
		queue:       queue,
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

// Scheduler returns the shared scheduler.
func (m *TickManager) Scheduler() *schedule.Scheduler {
	return m.sched
}

// Register adds a controller and starts it. A controller already registered
// under the same id is replaced.
func (m *TickManager) Register(controller Controller) {
	id := controller.ID()

	m.mu.Lock()
	old, exists := m.controllers[id]
	m.controllers[id] = controller
	if !exists {
		m.order = append(m.order, id)
		m.controllerCount.Add(1)
	}
	m.mu.Unlock()

	if exists {
		old.Stop()
	}
	controller.Start()

	slog.Debug("AI controller registered", "agent", id)
}

// Unregister stops and removes a controller. Unknown ids are ignored.
func (m *TickManager) Unregister(id model.AgentID) {
	m.mu.Lock()
	controller, ok := m.controllers[id]
	if ok {
		delete(m.controllers, id)
		for i, v := range m.order {
			if v == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		m.controllerCount.Add(-1)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	controller.Stop()

	slog.Debug("AI controller unregistered", "agent", id)
}

// AddHook appends a per-tick hook.
func (m *TickManager) AddHook(h Hook) {
	m.mu.Lock()
	m.hooks = append(m.hooks, h)
	m.mu.Unlock()
}

// Step runs one frame of dt.
func (m *TickManager) Step(dt time.Duration) {
	seconds := dt.Seconds()

	m.mu.Lock()
	controllers := make([]Controller, 0, len(m.order))
	for _, id := range m.order {
		controllers = append(controllers, m.controllers[id])
	}
	hooks := append([]Hook(nil), m.hooks...)
	m.mu.Unlock()

	for _, c := range controllers {
		c.Tick(seconds)
	}

	fired := m.sched.Advance(dt)

	for _, h := range hooks {
		h(seconds)
	}

	flushed := 0
	if m.queue != nil {
		flushed = m.queue.Flush()
	}
	n := m.ticks.Add(1)

	if IsDebugEnabled() {
		slog.Debug("AI tick completed",
			"tick", n,
			"controllers", len(controllers),
			"callbacks", fired,
			"events", flushed)
	}
}

// Start runs the frame loop until ctx is canceled or Stop is called.
// Every frame advances the simulation by the fixed interval.
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case <-ticker.C:
			m.Step(m.interval)
		}
	}
}

// Stop stops the frame loop. Idempotent.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Ticks returns the number of completed frames.
func (m *TickManager) Ticks() uint64 {
	return m.ticks.Load()
}

// Count returns number of registered controllers.
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns controller for an agent.
func (m *TickManager) GetController(id model.AgentID) (Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.controllers[id]
	if !ok {
		return nil, fmt.Errorf("controller not found for agent %d", id)
	}
	return c, nil
}
