// Package schedule is the simulation-time timer service. Every entry belongs
// to an owner agent and carries the owner's generation at scheduling time;
// CancelOwner bumps the generation so stale entries are dropped when they
// come due instead of firing against a removed agent. Per-owner bookkeeping
// is released once the owner has nothing left in the queue.
package schedule

import (
	"log/slog"
	"time"

	"github.com/emirpasic/gods/queues/priorityqueue"

	"github.com/udisondev/roboquest/internal/model"
)

// Handle identifies a scheduled entry. The zero Handle is never issued.
type Handle uint64

type entry struct {
	id       Handle
	owner    model.AgentID
	gen      uint64
	seq      uint64
	due      time.Duration
	interval time.Duration
	fn       func()
}

// Scheduler runs callbacks against a simulated clock advanced by Advance.
// Not safe for concurrent use; it is driven from the tick goroutine.
type Scheduler struct {
	now         time.Duration
	queue       *priorityqueue.Queue
	generations map[model.AgentID]uint64
	queued      map[model.AgentID]int
	live        map[Handle]*entry
	nextID      Handle
	nextSeq     uint64
}

// New creates an empty scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{
		queue:       priorityqueue.NewWith(byDue),
		generations: make(map[model.AgentID]uint64),
		queued:      make(map[model.AgentID]int),
		live:        make(map[Handle]*entry),
	}
}

// byDue orders entries by due time, then by scheduling order.
func byDue(a, b any) int {
	ea := a.(*entry)
	eb := b.(*entry)
	switch {
	case ea.due < eb.due:
		return -1
	case ea.due > eb.due:
		return 1
	case ea.seq < eb.seq:
		return -1
	case ea.seq > eb.seq:
		return 1
	default:
		return 0
	}
}

// Now returns the simulated time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once after delay. A non-positive delay fires on
// the next Advance.
func (s *Scheduler) After(owner model.AgentID, delay time.Duration, fn func()) Handle {
	return s.add(owner, delay, 0, fn)
}

// Every schedules fn to run repeatedly every interval, the first time after
// initialDelay. Non-positive intervals are rejected and return the zero Handle.
func (s *Scheduler) Every(owner model.AgentID, initialDelay, interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		slog.Warn("rejecting repeating timer with non-positive interval",
			"owner", owner,
			"interval", interval)
		return 0
	}
	return s.add(owner, initialDelay, interval, fn)
}

func (s *Scheduler) add(owner model.AgentID, delay, interval time.Duration, fn func()) Handle {
	if fn == nil {
		return 0
	}
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	s.nextSeq++
	e := &entry{
		id:       s.nextID,
		owner:    owner,
		gen:      s.generations[owner],
		seq:      s.nextSeq,
		due:      s.now + delay,
		interval: interval,
		fn:       fn,
	}
	s.live[e.id] = e
	s.queued[owner]++
	s.queue.Enqueue(e)
	return e.id
}

// Cancel removes a single entry. Cancelling an unknown, fired or already
// cancelled handle is a no-op.
func (s *Scheduler) Cancel(h Handle) {
	delete(s.live, h)
}

// IsPending reports whether h will still fire.
func (s *Scheduler) IsPending(h Handle) bool {
	e, ok := s.live[h]
	return ok && e.gen == s.generations[e.owner]
}

// CancelOwner invalidates every entry of owner, including repeating ones.
func (s *Scheduler) CancelOwner(owner model.AgentID) {
	if s.queued[owner] == 0 {
		return
	}
	s.generations[owner]++
}

// Pending returns the number of entries still scheduled to fire.
func (s *Scheduler) Pending() int {
	n := 0
	for _, e := range s.live {
		if e.gen == s.generations[e.owner] {
			n++
		}
	}
	return n
}

// Queued returns the number of entries in the queue, including cancelled
// and stale ones that have not come due yet.
func (s *Scheduler) Queued() int {
	return s.queue.Size()
}

// Owners returns the number of owners the scheduler keeps state for.
func (s *Scheduler) Owners() int {
	return len(s.queued)
}

// release drops a dequeued entry from its owner's count and forgets the
// owner once nothing of it is queued.
func (s *Scheduler) release(e *entry) {
	n := s.queued[e.owner] - 1
	if n > 0 {
		s.queued[e.owner] = n
		return
	}
	delete(s.queued, e.owner)
	delete(s.generations, e.owner)
}

// Advance moves the clock forward by dt and runs every entry that comes due,
// in due order. Callbacks may schedule or cancel entries; new entries due
// within the same window run in this call. Returns the number of callbacks run.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	fired := 0

	for {
		head, ok := s.queue.Peek()
		if !ok {
			break
		}
		e := head.(*entry)
		if e.due > target {
			break
		}
		s.queue.Dequeue()

		if s.live[e.id] != e {
			s.release(e)
			continue
		}
		if e.gen != s.generations[e.owner] {
			delete(s.live, e.id)
			s.release(e)
			continue
		}

		s.now = e.due
		if e.interval > 0 {
			e.due += e.interval
			s.nextSeq++
			e.seq = s.nextSeq
			s.queue.Enqueue(e)
		} else {
			delete(s.live, e.id)
			s.release(e)
		}

		e.fn()
		fired++
	}

	s.now = target
	return fired
}

// Seconds converts float seconds to a Duration.
func Seconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
