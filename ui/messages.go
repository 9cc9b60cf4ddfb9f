package ui

import (
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/session"
)

// MeasureMsg appends a measurement to the log pane.
type MeasureMsg session.Measurement

// PreviewMsg replaces the preview of one widget.
type PreviewMsg struct {
	Kind grid.Kind
	View string
}

// StatusTextMsg updates the status bar text.
type StatusTextMsg string
