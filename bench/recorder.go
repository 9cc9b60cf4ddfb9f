// Package bench drives a session without a terminal: it creates widgets,
// runs a scenario for a number of rounds and collects every measurement.
package bench

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/drake/gridbench/event"
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/internal/buffer"
	"github.com/drake/gridbench/internal/logging"
	"github.com/drake/gridbench/session"
)

// ErrTimeout is returned when the session stops reporting.
var ErrTimeout = errors.New("bench: timed out waiting for measurement")

// Options configure a Recorder.
type Options struct {
	Rounds   int
	Widgets  []grid.Kind
	Scenario string        // empty runs the session's configured scenario
	Timeout  time.Duration // per expected measurement; 0 means 30s
	Logger   *logging.Logger
}

// Entry is one measurement tagged with its round.
type Entry struct {
	Round               int `yaml:"round"`
	session.Measurement `yaml:",inline"`
}

// Recorder implements session.Display for headless runs.
type Recorder struct {
	// Finally runs after the last round while the session is still live,
	// e.g. to export a widget through session.Do.
	Finally func(ctx context.Context) error

	opts    Options
	log     *logging.Logger
	actions chan event.Event

	post     chan<- session.Measurement
	measures <-chan session.Measurement

	mu      sync.Mutex
	entries []Entry

	quit     chan struct{}
	quitOnce sync.Once
}

// NewRecorder creates a Recorder.
func NewRecorder(opts Options) *Recorder {
	if opts.Rounds <= 0 {
		opts.Rounds = 1
	}
	if len(opts.Widgets) == 0 {
		opts.Widgets = grid.Kinds
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	post, measures := buffer.Unbounded[session.Measurement](64, 100000, opts.Logger)
	return &Recorder{
		opts:     opts,
		log:      opts.Logger,
		actions:  make(chan event.Event, len(opts.Widgets)+1),
		post:     post,
		measures: measures,
		quit:     make(chan struct{}),
	}
}

// Events implements session.Display.
func (r *Recorder) Events() <-chan event.Event { return r.actions }

// Measure implements session.Display. It never blocks the session loop.
func (r *Recorder) Measure(m session.Measurement) {
	select {
	case <-r.quit:
	default:
		r.post <- m
	}
}

// Preview implements session.Display; headless runs have no previews.
func (r *Recorder) Preview(grid.Kind, string) {}

// Status implements session.Display.
func (r *Recorder) Status(text string) {
	r.log.Infof("bench: %s", text)
}

// Quit implements session.Display.
func (r *Recorder) Quit() {
	r.quitOnce.Do(func() { close(r.quit) })
}

// Run implements session.Display. It plays every round and returns when
// the last flush has been reported, the session quits or a step fails.
func (r *Recorder) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-r.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	for round := 1; round <= r.opts.Rounds; round++ {
		if err := r.round(ctx, round); err != nil {
			return err
		}
	}
	if r.Finally != nil {
		return r.Finally(ctx)
	}
	return nil
}

// round creates every widget, then colors them and waits for the flushes.
func (r *Recorder) round(ctx context.Context, n int) error {
	r.log.Debugf("bench: round %d", n)
	for _, kind := range r.opts.Widgets {
		if err := r.send(ctx, event.CreateWidget(kind)); err != nil {
			return err
		}
		if _, err := r.await(ctx, n, kind, session.PhaseInit); err != nil {
			return err
		}
	}

	if err := r.send(ctx, event.ColorAll(r.opts.Scenario)); err != nil {
		return err
	}
	scheduled := make(map[grid.Kind]int, len(r.opts.Widgets))
	for range r.opts.Widgets {
		m, err := r.await(ctx, n, "", session.PhaseSchedule)
		if err != nil {
			return err
		}
		scheduled[m.Widget] = m.Mutations
	}

	// Flushes of different widgets arrive in any order.
	_, err := r.until(ctx, n, func(m session.Measurement) bool {
		if m.Phase == session.PhaseFlush {
			scheduled[m.Widget] -= m.Mutations
		}
		for _, left := range scheduled {
			if left > 0 {
				return false
			}
		}
		return true
	})
	return err
}

func (r *Recorder) send(ctx context.Context, ev event.Event) error {
	select {
	case r.actions <- ev:
		return nil
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "bench: send %s", ev.Type)
	}
}

// await records measurements until one of phase for widget arrives. An
// empty widget matches any widget.
func (r *Recorder) await(ctx context.Context, round int, widget grid.Kind, phase session.Phase) (session.Measurement, error) {
	return r.until(ctx, round, func(m session.Measurement) bool {
		return m.Phase == phase && (widget == "" || m.Widget == widget)
	})
}

// until records measurements until done accepts one. Error measurements
// abort the run.
func (r *Recorder) until(ctx context.Context, round int, done func(session.Measurement) bool) (session.Measurement, error) {
	if done(session.Measurement{}) {
		return session.Measurement{}, nil
	}
	timeout := time.NewTimer(r.opts.Timeout)
	defer timeout.Stop()
	for {
		select {
		case m := <-r.measures:
			r.record(round, m)
			if m.Phase == session.PhaseError {
				return m, errors.Errorf("bench: round %d: %s", round, m)
			}
			if done(m) {
				return m, nil
			}
			timeout.Reset(r.opts.Timeout)
		case <-timeout.C:
			return session.Measurement{}, errors.Wrapf(ErrTimeout, "round %d", round)
		case <-ctx.Done():
			return session.Measurement{}, errors.Wrapf(ctx.Err(), "bench: round %d", round)
		}
	}
}

func (r *Recorder) record(round int, m session.Measurement) {
	r.log.Debugf("bench: round %d %s", round, m)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Round: round, Measurement: m})
}

// Entries returns the measurements recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}
