package debounce

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Dispatch delivers a fired job to the goroutine that owns the Debouncer.
// Timers never run the action themselves; the receiver executes the job.
type Dispatch func(job func())

// Debouncer collapses repeated triggers into one call of its action, made
// once no trigger has arrived for the configured delay.
//
// Trigger, Pending and Stop must be called from the goroutine that executes
// dispatched jobs.
type Debouncer struct {
	dispatch Dispatch
	clock    clockwork.Clock
	delay    time.Duration
	maxWait  time.Duration
	action   func()

	timer clockwork.Timer
	gen   uint64    // bumped on every Trigger/Stop; jobs from older generations are dropped
	first time.Time // start of the current pending period
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock sets the time source. Defaults to the real clock.
func WithClock(c clockwork.Clock) Option {
	return func(d *Debouncer) { d.clock = c }
}

// WithMaxWait caps how long a pending period may be extended by new
// triggers. Zero means no cap: a steady stream of triggers defers the
// action indefinitely.
func WithMaxWait(max time.Duration) Option {
	return func(d *Debouncer) { d.maxWait = max }
}

// New creates a Debouncer that runs action via dispatch after delay.
func New(dispatch Dispatch, delay time.Duration, action func(), opts ...Option) *Debouncer {
	d := &Debouncer{
		dispatch: dispatch,
		clock:    clockwork.NewRealClock(),
		delay:    delay,
		action:   action,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	now := d.clock.Now()
	if d.timer != nil {
		d.timer.Stop()
	} else {
		d.first = now
	}

	wait := d.delay
	if d.maxWait > 0 {
		if remaining := d.maxWait - now.Sub(d.first); remaining < wait {
			wait = max(remaining, 0)
		}
	}

	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(wait, func() {
		d.dispatch(func() { d.fire(gen) })
	})
}

func (d *Debouncer) fire(gen uint64) {
	if gen != d.gen || d.timer == nil {
		return // superseded by a later Trigger, or stopped
	}
	d.timer = nil
	d.action()
}

// Pending reports whether the action is scheduled to run.
func (d *Debouncer) Pending() bool {
	return d.timer != nil
}

// Stop cancels a scheduled action. The Debouncer may be triggered again.
func (d *Debouncer) Stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
