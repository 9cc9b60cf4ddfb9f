package bench

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/session"
)

// Report is the persisted result of a benchmark run.
type Report struct {
	ID       string        `yaml:"id"`
	Started  time.Time     `yaml:"started"`
	Seed     uint64        `yaml:"seed"`
	Rows     int           `yaml:"rows"`
	Columns  int           `yaml:"columns"`
	Scenario string        `yaml:"scenario"`
	Delay    time.Duration `yaml:"delay"`
	Rounds   int           `yaml:"rounds"`
	Entries  []Entry       `yaml:"entries"`
	Summary  []Summary     `yaml:"summary"`
}

// Summary aggregates one widget phase across rounds.
type Summary struct {
	Widget    grid.Kind     `yaml:"widget"`
	Phase     session.Phase `yaml:"phase"`
	Count     int           `yaml:"count"`
	Mutations int           `yaml:"mutations"`
	Total     time.Duration `yaml:"total"`
	Mean      time.Duration `yaml:"mean"`
	Max       time.Duration `yaml:"max"`
}

// NewReport creates a report with a fresh run id and summarises entries.
func NewReport(started time.Time, entries []Entry) *Report {
	rounds := 0
	for _, e := range entries {
		if e.Round > rounds {
			rounds = e.Round
		}
	}
	return &Report{
		ID:      uuid.NewString(),
		Started: started,
		Rounds:  rounds,
		Entries: entries,
		Summary: Summarize(entries),
	}
}

var phaseOrder = map[session.Phase]int{
	session.PhaseInit:     0,
	session.PhaseSchedule: 1,
	session.PhaseFlush:    2,
	session.PhaseError:    3,
}

// Summarize groups entries by widget and phase, ordered by widget then
// phase in execution order.
func Summarize(entries []Entry) []Summary {
	type key struct {
		widget grid.Kind
		phase  session.Phase
	}
	byKey := make(map[key]*Summary)
	for _, e := range entries {
		k := key{e.Widget, e.Phase}
		s, ok := byKey[k]
		if !ok {
			s = &Summary{Widget: e.Widget, Phase: e.Phase}
			byKey[k] = s
		}
		s.Count++
		s.Mutations += e.Mutations
		s.Total += e.Duration
		if e.Duration > s.Max {
			s.Max = e.Duration
		}
	}

	out := make([]Summary, 0, len(byKey))
	for _, s := range byKey {
		s.Mean = s.Total / time.Duration(s.Count)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Widget != out[j].Widget {
			return out[i].Widget < out[j].Widget
		}
		return phaseOrder[out[i].Phase] < phaseOrder[out[j].Phase]
	})
	return out
}

// WriteYAML encodes the report.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "bench: encode report")
	}
	return errors.Wrap(enc.Close(), "bench: encode report")
}

// SaveFile writes the report as YAML to path.
func (r *Report) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "bench: create report")
	}
	if err := r.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "bench: close report")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	errorStyle  = cellStyle.Foreground(lipgloss.Color("196"))
)

// Table renders the summary as a terminal table.
func (r *Report) Table() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("widget", "phase", "count", "mutations", "mean", "max", "total")
	for _, s := range r.Summary {
		t.Row(string(s.Widget), string(s.Phase),
			fmt.Sprint(s.Count), fmt.Sprint(s.Mutations),
			round(s.Mean).String(), round(s.Max).String(), round(s.Total).String())
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case row < len(r.Summary) && r.Summary[row].Phase == session.PhaseError:
			return errorStyle
		case col >= 2:
			return numberStyle
		}
		return cellStyle
	})
	return fmt.Sprintf("run %s (%d rows x %d columns, %d rounds)\n%s", r.ID, r.Rows, r.Columns, r.Rounds, t.Render())
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	}
	return d
}
