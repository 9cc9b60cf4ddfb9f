// Package timer provides id-based wake-ups for the session loop. Fired
// timers are delivered as events; the loop decides what to run.
package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Event is sent when a timer fires.
type Event struct {
	ID        int
	Repeating bool
	Tick      int // 1 for the first firing
	Skipped   int // firings dropped since the last delivered event
}

// Service manages timed wake-ups with full lifecycle ownership.
// Repeating timers use fixed-interval semantics: they reschedule as they fire.
type Service struct {
	events chan<- Event
	clock  clockwork.Clock
	timers map[int]*entry
	nextID int
	mu     sync.Mutex
}

type entry struct {
	interval time.Duration // 0 = one-shot
	timer    clockwork.Timer
	ticks    int
	skipped  int
}

// NewService creates a timer service that sends fired timer events. A nil
// clock means the real clock.
func NewService(events chan<- Event, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		events: events,
		clock:  clock,
		timers: make(map[int]*entry),
	}
}

// After schedules a one-shot timer and returns its ID.
func (s *Service) After(d time.Duration) int {
	return s.schedule(d, 0)
}

// Every schedules a repeating timer and returns its ID.
func (s *Service) Every(d time.Duration) int {
	return s.schedule(d, d)
}

func (s *Service) schedule(d, interval time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.timers[id] = &entry{
		interval: interval,
		timer:    s.clock.AfterFunc(d, func() { s.fire(id) }),
	}
	return id
}

// fire sends the timer event and reschedules if repeating. Events are
// dropped when the receiver is not keeping up; the next delivered event
// counts them.
func (s *Service) fire(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.timers[id]
	if !ok {
		return
	}
	e.ticks++
	repeating := e.interval > 0
	select {
	case s.events <- Event{ID: id, Repeating: repeating, Tick: e.ticks, Skipped: e.skipped}:
		e.skipped = 0
	default:
		e.skipped++
	}

	if repeating {
		e.timer = s.clock.AfterFunc(e.interval, func() { s.fire(id) })
	} else {
		delete(s.timers, id)
	}
}

// Active reports whether id is scheduled.
func (s *Service) Active(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// Cancel stops a timer and removes it.
func (s *Service) Cancel(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.timers[id]; ok {
		e.timer.Stop()
		delete(s.timers, id)
	}
}

// CancelAll stops every timer.
func (s *Service) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.timers {
		e.timer.Stop()
	}
	s.timers = make(map[int]*entry)
}
