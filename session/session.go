// Package session runs the benchmark's event loop. One goroutine owns every
// widget, style scheduler and scenario; everything else talks to it through
// events and dispatched jobs.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/drake/gridbench/dataset"
	"github.com/drake/gridbench/event"
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/internal/buffer"
	"github.com/drake/gridbench/internal/logging"
	"github.com/drake/gridbench/internal/styler"
	"github.com/drake/gridbench/palette"
	"github.com/drake/gridbench/scenario"
	"github.com/drake/gridbench/timer"
)

// ErrClosed is returned by Do once the session has shut down.
var ErrClosed = errors.New("session: closed")

// Display is the front end a session reports to. Measure, Preview and
// Status are called from the session loop and must not block for long.
type Display interface {
	// Run blocks until the display exits.
	Run() error
	// Quit asks Run to return.
	Quit()
	// Events delivers user actions.
	Events() <-chan event.Event
	Measure(m Measurement)
	Preview(kind grid.Kind, view string)
	Status(text string)
}

// Config holds session configuration.
type Config struct {
	Dataset      *dataset.Dataset
	Seed         uint64
	Scenario     string // run by Color events without a scenario
	AutoScenario string // run on every auto-color tick
	AutoInterval time.Duration
	CellColor    string
	ColumnColor  string

	Delay   time.Duration
	MaxWait time.Duration

	TableWidth, TableHeight int
	SheetRows, SheetColumns int

	Clock   clockwork.Clock
	Logger  *logging.Logger
	Factory Factory // nil means NewWidget
}

// Session orchestrates widgets, scenarios and timers.
type Session struct {
	cfg     Config
	display Display
	log     *logging.Logger
	clock   clockwork.Clock
	palette *palette.Palette
	engine  *scenario.Engine
	timer   *timer.Service

	widgets map[grid.Kind]grid.Widget
	order   []grid.Kind
	autoID  int

	// Channels
	post        chan<- event.Event
	events      <-chan event.Event
	jobs        chan job
	timerEvents chan timer.Event

	// Shutdown coordination
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// job is a dispatched flush tagged with the widget it belongs to.
type job struct {
	widget grid.Kind
	run    func()
}

// New creates a Session. It is passive: no goroutines run until Run, apart
// from the event buffer.
func New(display Display, cfg Config) *Session {
	if cfg.Dataset == nil {
		cfg.Dataset = &dataset.Dataset{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Scenario == "" {
		cfg.Scenario = scenario.Default
	}
	if cfg.AutoScenario == "" {
		cfg.AutoScenario = scenario.Burst
	}
	if cfg.AutoInterval <= 0 {
		cfg.AutoInterval = 100 * time.Millisecond
	}
	if cfg.Delay <= 0 {
		cfg.Delay = styler.DefaultDelay
	}

	timerEvents := make(chan timer.Event, 64)
	post, events := buffer.Unbounded[event.Event](64, 10000, cfg.Logger)
	s := &Session{
		cfg:         cfg,
		display:     display,
		log:         cfg.Logger,
		clock:       cfg.Clock,
		palette:     palette.New(palette.DefaultSize),
		timer:       timer.NewService(timerEvents, cfg.Clock),
		widgets:     make(map[grid.Kind]grid.Widget),
		post:        post,
		events:      events,
		jobs:        make(chan job, 64),
		timerEvents: timerEvents,
		done:        make(chan struct{}),
		loopDone:    make(chan struct{}),
	}
	if s.cfg.Factory == nil {
		s.cfg.Factory = s.NewWidget
	}
	s.engine = scenario.NewEngine(NewScenarioAdapter(s), cfg.Seed,
		scenario.WithColors(cfg.CellColor, cfg.ColumnColor))
	return s
}

// Run boots the scenario engine, starts the loop and blocks on the display.
// Widgets are closed before Run returns.
func (s *Session) Run() error {
	if err := s.boot(); err != nil {
		s.engine.Close()
		s.shutdown()
		close(s.loopDone)
		return err
	}

	go s.processEvents()

	err := s.display.Run()
	s.shutdown()
	<-s.loopDone
	return err
}

// boot loads the configured scenarios.
func (s *Session) boot() error {
	if err := s.engine.Init(); err != nil {
		return errors.Wrap(err, "session: init scenario engine")
	}
	for _, name := range []string{s.cfg.Scenario, s.cfg.AutoScenario} {
		if err := s.engine.Load(name); err != nil {
			return err
		}
	}
	s.log.Debugf("session: %d columns, %d rows, scenario %s", len(s.cfg.Dataset.Columns), len(s.cfg.Dataset.Rows), s.cfg.Scenario)
	return nil
}

// processEvents is the main event loop.
func (s *Session) processEvents() {
	defer close(s.loopDone)
	defer s.closeAll()

	actions := s.display.Events()
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			s.safely("", func() { s.handleEvent(ev) })
		case ev := <-s.events:
			s.safely("", func() { s.handleEvent(ev) })
		case j := <-s.jobs:
			s.safely(j.widget, j.run)
		case ev := <-s.timerEvents:
			if ev.ID == s.autoID {
				if ev.Skipped > 0 {
					s.log.Warnf("session: auto color tick %d, %d ticks skipped", ev.Tick, ev.Skipped)
				}
				s.safely("", func() { s.color(s.cfg.AutoScenario) })
			}
		}
	}
}

// safely runs fn, turning a panic into an error measurement so one failing
// widget cannot take the loop down.
func (s *Session) safely(widget grid.Kind, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(widget, fmt.Errorf("panic: %v", r))
		}
	}()
	fn()
}

func (s *Session) fail(widget grid.Kind, err error) {
	s.log.Errorf("session: %s: %v", widget, err)
	s.display.Measure(Measurement{Widget: widget, Phase: PhaseError, Err: err.Error()})
}

// handleEvent executes a single event on the session loop.
func (s *Session) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.Create:
		s.create(ev.Widget)
	case event.Color:
		name := ev.Scenario
		if name == "" {
			name = s.cfg.Scenario
		}
		s.color(name)
	case event.AutoToggle:
		s.toggleAuto()
	case event.Quit:
		s.shutdown()
	case event.AsyncResult:
		if ev.Callback != nil {
			ev.Callback()
		}
	}
}

// create initialises the widget of kind with the dataset, building it on
// first use.
func (s *Session) create(kind grid.Kind) {
	w, ok := s.widgets[kind]
	if !ok {
		var err error
		w, err = s.cfg.Factory(kind, s.dispatcher(kind), s.schedulerOptions(kind)...)
		if err != nil {
			s.fail(kind, err)
			return
		}
		s.widgets[kind] = w
		s.order = append(s.order, kind)
	}

	start := s.clock.Now()
	if err := w.Init(s.cfg.Dataset.Columns, s.cfg.Dataset.Rows); err != nil {
		s.fail(kind, err)
		return
	}
	d := s.clock.Since(start)
	s.log.Infof("%s-init: %s", kind, d)
	s.display.Measure(Measurement{Widget: kind, Phase: PhaseInit, Duration: d})
	s.display.Preview(kind, w.Preview())
}

// color runs a scenario against every live widget.
func (s *Session) color(name string) {
	if len(s.order) == 0 {
		s.display.Status("create a widget first")
		return
	}
	if !s.engine.Loaded(name) {
		if err := s.engine.Load(name); err != nil {
			s.fail("", err)
			return
		}
	}

	start := s.clock.Now()
	counts, err := s.engine.Run(name)
	d := s.clock.Since(start)
	if err != nil {
		s.fail("", err)
	}
	for _, kind := range s.order {
		s.display.Measure(Measurement{
			Widget:    kind,
			Phase:     PhaseSchedule,
			Duration:  d,
			Mutations: counts.Cells + counts.Columns,
		})
	}
}

func (s *Session) toggleAuto() {
	if s.autoID != 0 {
		s.timer.Cancel(s.autoID)
		s.autoID = 0
		s.display.Status("auto color off")
		return
	}
	s.autoID = s.timer.Every(s.cfg.AutoInterval)
	s.display.Status(fmt.Sprintf("auto color every %s", s.cfg.AutoInterval))
}

// dispatcher returns the Dispatch used by the widget of kind. Jobs posted
// after shutdown are dropped.
func (s *Session) dispatcher(kind grid.Kind) func(func()) {
	return func(run func()) {
		select {
		case s.jobs <- job{widget: kind, run: run}:
		case <-s.done:
		}
	}
}

func (s *Session) schedulerOptions(kind grid.Kind) []styler.Option {
	return []styler.Option{
		styler.WithClock(s.clock),
		styler.WithDelay(s.cfg.Delay),
		styler.WithMaxWait(s.cfg.MaxWait),
		styler.WithOnFlush(func(fs styler.FlushStats) {
			s.log.Infof("%s-flush: %d mutations in %s after %s", kind, fs.Mutations, fs.Apply+fs.Render, fs.Wait)
			s.display.Measure(Measurement{
				Widget:    kind,
				Phase:     PhaseFlush,
				Duration:  fs.Apply + fs.Render,
				Mutations: fs.Mutations,
				Wait:      fs.Wait,
			})
			if w, ok := s.widgets[kind]; ok {
				s.display.Preview(kind, w.Preview())
			}
		}),
	}
}

// Post enqueues ev for the session loop. It never blocks.
func (s *Session) Post(ev event.Event) {
	select {
	case <-s.done:
	default:
		s.post <- ev
	}
}

// Do runs fn on the session loop and waits for it to return.
func (s *Session) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	s.Post(event.Event{Type: event.AsyncResult, Callback: func() {
		defer close(finished)
		fn()
	}})
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Widget returns the live widget of kind. Only call it on the session loop,
// e.g. from a Do callback.
func (s *Session) Widget(kind grid.Kind) (grid.Widget, bool) {
	w, ok := s.widgets[kind]
	return w, ok
}

// Stats returns a scheduler snapshot per live widget.
func (s *Session) Stats(ctx context.Context) (map[grid.Kind]styler.Stats, error) {
	var stats map[grid.Kind]styler.Stats
	err := s.Do(ctx, func() {
		stats = make(map[grid.Kind]styler.Stats, len(s.widgets))
		for kind, w := range s.widgets {
			stats[kind] = w.Stats()
		}
	})
	return stats, err
}

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} { return s.done }

// closeAll releases the widgets and the scenario engine. Runs on the loop.
func (s *Session) closeAll() {
	for _, kind := range s.order {
		if err := s.widgets[kind].Close(); err != nil {
			s.log.Warnf("session: close %s: %v", kind, err)
		}
	}
	s.engine.Close()
}

// shutdown stops timers and the loop and asks the display to exit.
func (s *Session) shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.timer.CancelAll()
		s.display.Quit()
	})
}
