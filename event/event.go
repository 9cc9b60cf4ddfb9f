// Package event defines the messages producers send to the session loop.
package event

import "github.com/drake/gridbench/grid"

// Type identifies what the session should do.
type Type int

const (
	Create      Type = iota // (re)initialise a widget with the dataset
	Color                   // run a scenario against every live widget
	AutoToggle              // start or stop repeating the auto scenario
	Quit                    // shut the session down
	AsyncResult             // run Callback on the session loop
)

func (t Type) String() string {
	switch t {
	case Create:
		return "create"
	case Color:
		return "color"
	case AutoToggle:
		return "auto"
	case Quit:
		return "quit"
	case AsyncResult:
		return "async"
	}
	return "unknown"
}

// Event is the universal packet sent to the session.
type Event struct {
	Type     Type
	Widget   grid.Kind // Create
	Scenario string    // Color; empty means the configured scenario
	Callback func()    // AsyncResult
}

// CreateWidget returns a Create event for kind.
func CreateWidget(kind grid.Kind) Event {
	return Event{Type: Create, Widget: kind}
}

// ColorAll returns a Color event running scenario.
func ColorAll(scenario string) Event {
	return Event{Type: Color, Scenario: scenario}
}
