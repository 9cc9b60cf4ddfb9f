// Package styler batches widget style changes so that a burst of requests
// costs one pass over the mutations and one render.
//
// A Scheduler is owned by the goroutine that executes its dispatched jobs
// (the session loop). Schedule, State, Stats and Stop must only be called
// from that goroutine.
package styler

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/drake/gridbench/internal/debounce"
	"github.com/drake/gridbench/internal/logging"
	"github.com/drake/gridbench/internal/mutation"
)

// DefaultDelay is the quiet period that ends a burst of Schedule calls.
const DefaultDelay = 200 * time.Millisecond

// State of a Scheduler.
type State int

const (
	Idle    State = iota // nothing scheduled
	Pending              // a flush is scheduled
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// FlushStats describes one flush.
type FlushStats struct {
	Mutations int
	Cells     int
	Columns   int
	Wait      time.Duration // first Schedule of the batch until the flush started
	Apply     time.Duration
	Render    time.Duration
}

// Stats is a running summary of a Scheduler.
type Stats struct {
	Scheduled uint64
	Applied   uint64
	Flushes   uint64
	Queued    int
	State     State
	Last      FlushStats
}

// Scheduler coalesces mutations into debounced flushes.
type Scheduler struct {
	queue     mutation.Queue
	debouncer *debounce.Debouncer
	render    func()
	batch     func(apply func())
	onFlush   func(FlushStats)
	clock     clockwork.Clock
	log       *logging.Logger

	delay   time.Duration
	maxWait time.Duration

	firstAt time.Time
	stopped bool
	stats   Stats
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.delay = d }
}

// WithMaxWait caps how long a burst may defer its flush. Zero (the default)
// lets a steady stream of mutations defer the flush indefinitely.
func WithMaxWait(d time.Duration) Option {
	return func(s *Scheduler) { s.maxWait = d }
}

// WithClock sets the time source for the debounce timer and statistics.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithBatch wraps the application of each flush's mutations, for render
// targets that group changes natively. apply must be called exactly once.
func WithBatch(batch func(apply func())) Option {
	return func(s *Scheduler) { s.batch = batch }
}

// WithOnFlush registers a callback run after every completed flush.
func WithOnFlush(fn func(FlushStats)) Option {
	return func(s *Scheduler) { s.onFlush = fn }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// New creates a Scheduler whose flushes are delivered through dispatch and
// end with one call to render.
func New(dispatch debounce.Dispatch, render func(), opts ...Option) *Scheduler {
	s := &Scheduler{
		render: render,
		batch:  func(apply func()) { apply() },
		clock:  clockwork.NewRealClock(),
		delay:  DefaultDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.debouncer = debounce.New(dispatch, s.delay, s.flush,
		debounce.WithClock(s.clock),
		debounce.WithMaxWait(s.maxWait),
	)
	return s
}

// Schedule queues m and restarts the quiet period.
func (s *Scheduler) Schedule(m mutation.Mutation) {
	if s.stopped {
		s.log.Debugf("styler: %s mutation after stop dropped", m.Kind)
		return
	}
	if s.queue.Len() == 0 {
		s.firstAt = s.clock.Now()
	}
	s.queue.Enqueue(m)
	s.stats.Scheduled++
	s.debouncer.Trigger()
}

// flush applies the queued mutations in order, then renders once. A panic
// from a mutation or the render escapes to the caller.
func (s *Scheduler) flush() {
	start := s.clock.Now()
	batch := s.queue.Drain()
	fs := FlushStats{
		Mutations: len(batch),
		Wait:      start.Sub(s.firstAt),
	}

	s.batch(func() {
		for _, m := range batch {
			switch m.Kind {
			case mutation.Cell:
				fs.Cells++
			case mutation.Column:
				fs.Columns++
			}
			m.Apply()
		}
	})
	applied := s.clock.Now()
	fs.Apply = applied.Sub(start)
	s.stats.Applied += uint64(len(batch))

	s.render()
	fs.Render = s.clock.Since(applied)

	s.stats.Flushes++
	s.stats.Last = fs
	s.log.Debugf("styler: flushed %d mutations (%d cells, %d columns) after %s",
		fs.Mutations, fs.Cells, fs.Columns, fs.Wait)
	if s.onFlush != nil {
		s.onFlush(fs)
	}
}

// State reports whether a flush is scheduled.
func (s *Scheduler) State() State {
	if s.debouncer.Pending() {
		return Pending
	}
	return Idle
}

// Stats returns a snapshot of the scheduler's counters.
func (s *Scheduler) Stats() Stats {
	st := s.stats
	st.Queued = s.queue.Len()
	st.State = s.State()
	return st
}

// Stop cancels a scheduled flush and discards queued mutations. Later
// Schedule calls are ignored.
func (s *Scheduler) Stop() {
	s.stopped = true
	s.debouncer.Stop()
	if n := len(s.queue.Drain()); n > 0 {
		s.log.Debugf("styler: stopped with %d mutations queued", n)
	}
}
