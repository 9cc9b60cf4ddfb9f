package scenario

import "github.com/drake/gridbench/grid"

// Host is what a scenario styles. The session implements it by fanning
// calls out to every live widget.
type Host interface {
	Rows() int
	Columns() []grid.Column
	ColorCell(row int, field, color string)
	ColorColumn(field, color string)
	Log(msg string)
}
