package clicker

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies a lifecycle notification.
type EventKind int

const (
	EventStarted EventKind = iota
	EventProgress
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Mode is the kind of run a controller is executing.
type Mode int

const (
	ModeSingle Mode = iota
	ModeSequence
)

func (m Mode) String() string {
	if m == ModeSequence {
		return "sequence"
	}
	return "single"
}

// StopReason explains why a run ended.
type StopReason int

const (
	ReasonCompleted StopReason = iota
	ReasonCancelled
	ReasonTimeLimit
	ReasonFailed
)

func (r StopReason) String() string {
	switch r {
	case ReasonCompleted:
		return "completed"
	case ReasonCancelled:
		return "cancelled"
	case ReasonTimeLimit:
		return "time limit reached"
	case ReasonFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress reports completed units of work. For single-shot runs a unit is
// one scheduled click; for sequences it is one full pass. Total is zero and
// Percent is always zero for infinite runs.
type Progress struct {
	Completed int
	Total     int
	Percent   float64
}

// Event is published to subscribers of a Controller.
type Event struct {
	Kind     EventKind
	RunID    uuid.UUID
	Mode     Mode
	Time     time.Time
	Progress Progress

	// Reason and Err are set on EventStopped.
	Reason StopReason
	Err    error
}

// Listener receives events on a goroutine owned by its subscription.
type Listener func(Event)

const defaultQueueLimit = 64

// broadcaster fans events out to listeners without blocking the publisher.
// Each listener drains its own queue; a slow listener only delays itself.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[uint64]*subscription
	nextID uint64
	limit  int
}

func newBroadcaster(limit int) *broadcaster {
	if limit <= 0 {
		limit = defaultQueueLimit
	}
	return &broadcaster{subs: make(map[uint64]*subscription), limit: limit}
}

func (b *broadcaster) subscribe(fn Listener) func() {
	sub := &subscription{
		fn:    fn,
		limit: b.limit,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	go sub.loop()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			sub.close()
		})
	}
}

func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	subs := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		s.push(ev)
	}
}

// closeAll detaches every subscription. Queued events are still delivered.
func (b *broadcaster) closeAll() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[uint64]*subscription)
	b.mu.Unlock()

	for _, s := range subs {
		s.close()
	}
}

type subscription struct {
	fn    Listener
	limit int

	mu     sync.Mutex
	queue  []Event
	closed bool

	wake chan struct{}
	done chan struct{}
}

// push enqueues ev. When the queue is full the oldest progress event is
// discarded; lifecycle events are always kept.
func (s *subscription) push(ev Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if len(s.queue) >= s.limit {
		if !s.dropOldestProgressLocked() && ev.Kind == EventProgress {
			s.mu.Unlock()
			return
		}
	}
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	s.notify()
}

func (s *subscription) dropOldestProgressLocked() bool {
	for i, queued := range s.queue {
		if queued.Kind == EventProgress {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

func (s *subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.notify()
}

func (s *subscription) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) loop() {
	defer close(s.done)
	for range s.wake {
		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				closed := s.closed
				s.mu.Unlock()
				if closed {
					return
				}
				break
			}
			ev := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			s.fn(ev)
		}
	}
}
