package session

import (
	"sync"

	"github.com/drake/gridbench/event"
	"github.com/drake/gridbench/grid"
)

// MockDisplay implements Display for testing.
type MockDisplay struct {
	mu sync.Mutex

	actions  chan event.Event
	measures chan Measurement
	quit     chan struct{}
	quitOnce sync.Once

	Previews map[grid.Kind]string
	Statuses []string
}

func NewMockDisplay() *MockDisplay {
	return &MockDisplay{
		actions:  make(chan event.Event, 16),
		measures: make(chan Measurement, 256),
		quit:     make(chan struct{}),
		Previews: make(map[grid.Kind]string),
	}
}

func (d *MockDisplay) Run() error {
	<-d.quit
	return nil
}

func (d *MockDisplay) Quit() {
	d.quitOnce.Do(func() { close(d.quit) })
}

func (d *MockDisplay) Events() <-chan event.Event { return d.actions }

func (d *MockDisplay) Measure(m Measurement) { d.measures <- m }

func (d *MockDisplay) Preview(kind grid.Kind, view string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Previews[kind] = view
}

func (d *MockDisplay) Status(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Statuses = append(d.Statuses, text)
}

func (d *MockDisplay) lastStatus() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Statuses) == 0 {
		return ""
	}
	return d.Statuses[len(d.Statuses)-1]
}

func (d *MockDisplay) preview(kind grid.Kind) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Previews[kind]
}
