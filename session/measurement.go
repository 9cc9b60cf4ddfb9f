package session

import (
	"fmt"
	"time"

	"github.com/drake/gridbench/grid"
)

// Phase labels a Measurement.
type Phase string

const (
	PhaseInit     Phase = "init"     // widget Init
	PhaseSchedule Phase = "schedule" // running a scenario, i.e. issuing styling calls
	PhaseFlush    Phase = "flush"    // one coalesced apply + render
	PhaseError    Phase = "error"
)

// Measurement is one timed step reported to the display.
type Measurement struct {
	Widget    grid.Kind     `yaml:"widget"`
	Phase     Phase         `yaml:"phase"`
	Duration  time.Duration `yaml:"duration"`
	Mutations int           `yaml:"mutations,omitempty"`
	Wait      time.Duration `yaml:"wait,omitempty"`
	Err       string        `yaml:"error,omitempty"`
}

func (m Measurement) String() string {
	name := string(m.Widget)
	if name == "" {
		name = "session"
	}
	switch m.Phase {
	case PhaseError:
		return fmt.Sprintf("%s-error: %s", name, m.Err)
	case PhaseFlush:
		return fmt.Sprintf("%s-flush: %s (%d mutations, waited %s)", name, m.Duration, m.Mutations, m.Wait)
	case PhaseSchedule:
		return fmt.Sprintf("%s-schedule: %s (%d mutations)", name, m.Duration, m.Mutations)
	}
	return fmt.Sprintf("%s-%s: %s", name, m.Phase, m.Duration)
}
