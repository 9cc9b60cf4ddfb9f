package session

import (
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/scenario"
)

var _ scenario.Host = (*ScenarioAdapter)(nil)

// ScenarioAdapter bridges scenario scripts to the session's widgets. Each
// styling call is issued to every live widget in creation order. It is only
// used on the session loop.
type ScenarioAdapter struct {
	session *Session
}

// NewScenarioAdapter creates an adapter wired to s.
func NewScenarioAdapter(s *Session) *ScenarioAdapter {
	return &ScenarioAdapter{session: s}
}

func (a *ScenarioAdapter) Rows() int {
	return len(a.session.cfg.Dataset.Rows)
}

func (a *ScenarioAdapter) Columns() []grid.Column {
	return a.session.cfg.Dataset.Columns
}

func (a *ScenarioAdapter) ColorCell(row int, field, color string) {
	for _, kind := range a.session.order {
		a.session.widgets[kind].ColorCell(row, field, color)
	}
}

func (a *ScenarioAdapter) ColorColumn(field, color string) {
	for _, kind := range a.session.order {
		a.session.widgets[kind].ColorColumn(field, color)
	}
}

func (a *ScenarioAdapter) Log(msg string) {
	a.session.log.Infof("scenario: %s", msg)
	a.session.display.Status(msg)
}
