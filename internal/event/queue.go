package event

import (
	"sync"
)

// Observer receives flushed events.
type Observer func(e Event)

// Queue buffers events published during a tick and delivers them
// to observers on Flush, in publication order.
type Queue struct {
	mu        sync.Mutex
	pending   []Event
	observers []Observer
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Publish appends an event. Safe to call from observers; such events are
// delivered on the next Flush.
func (q *Queue) Publish(e Event) {
	if e == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, e)
	q.mu.Unlock()
}

// Subscribe registers an observer.
func (q *Queue) Subscribe(fn Observer) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.observers = append(q.observers, fn)
	q.mu.Unlock()
}

// Len returns the number of undelivered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain removes and returns all pending events without notifying observers.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Flush delivers all pending events to every observer and returns how many
// events were delivered.
func (q *Queue) Flush() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	observers := append([]Observer(nil), q.observers...)
	q.mu.Unlock()

	for _, e := range batch {
		for _, fn := range observers {
			fn(e)
		}
	}
	return len(batch)
}
