// Package table is the virtualised widget: a tview Table whose cells are
// built on demand while drawing, so styling only touches two small maps
// and the cost is paid by the next draw.
package table

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"github.com/rivo/tview"

	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/internal/debounce"
	"github.com/drake/gridbench/internal/logging"
	"github.com/drake/gridbench/internal/mutation"
	"github.com/drake/gridbench/internal/styler"
	"github.com/drake/gridbench/palette"
)

const (
	DefaultWidth    = 120
	DefaultHeight   = 24
	DefaultMaxWidth = 12
)

// ErrClosed is returned by Init after Close.
var ErrClosed = errors.New("table: widget closed")

// content serves cells to the tview Table from the records and the color
// layers of the current grid.
type content struct {
	tview.TableContentReadOnly

	schema   grid.Schema
	rows     []grid.Record
	layers   *grid.Layers
	palette  *palette.Palette
	maxWidth int
}

func (c *content) GetRowCount() int {
	if c.schema.Len() == 0 {
		return 0
	}
	return len(c.rows) + 1
}

func (c *content) GetColumnCount() int { return c.schema.Len() }

func (c *content) GetCell(row, col int) *tview.TableCell {
	if col < 0 || col >= c.schema.Len() || row < 0 || row > len(c.rows) {
		return nil
	}
	column := c.schema.Column(col)
	if row == 0 {
		return tview.NewTableCell(c.truncate(column.Title)).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false)
	}

	r := row - 1
	cell := tview.NewTableCell(c.truncate(grid.FormatValue(c.rows[r][column.Field])))
	if column.Type == grid.Number {
		cell.SetAlign(tview.AlignRight)
	}
	if name, ok := c.layers.Resolve(r, col); ok {
		if color := c.palette.Lookup(name); color.Valid {
			cell.SetBackgroundColor(color.TCell).
				SetTextColor(color.Foreground().TCell)
		}
	}
	return cell
}

func (c *content) truncate(s string) string {
	return runewidth.Truncate(s, c.maxWidth, "…")
}

// Widget implements grid.Widget on a tview Table.
type Widget struct {
	log       *logging.Logger
	palette   *palette.Palette
	screen    tcell.Screen
	sim       tcell.SimulationScreen
	view      *tview.Table
	content   *content
	scheduler *styler.Scheduler

	width, height int
	maxWidth      int
	schedOpts     []styler.Option

	preview string
	stale   bool
	closed  bool
}

// Option configures a Widget.
type Option func(*Widget)

// WithScreen draws onto screen instead of an internal simulation screen.
// The widget takes ownership and finalises it on Close.
func WithScreen(s tcell.Screen) Option {
	return func(w *Widget) { w.screen = s }
}

// WithSize sets the drawn area.
func WithSize(width, height int) Option {
	return func(w *Widget) { w.width, w.height = width, height }
}

// WithCellWidth caps the width of a column.
func WithCellWidth(n int) Option {
	return func(w *Widget) { w.maxWidth = n }
}

// WithPalette shares a palette between widgets.
func WithPalette(p *palette.Palette) Option {
	return func(w *Widget) { w.palette = p }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Widget) { w.log = l }
}

// WithScheduler passes options to the widget's style scheduler.
func WithScheduler(opts ...styler.Option) Option {
	return func(w *Widget) { w.schedOpts = append(w.schedOpts, opts...) }
}

// New creates an empty table widget. Flushes are delivered through
// dispatch and must run on the goroutine that calls the widget's methods.
func New(dispatch debounce.Dispatch, opts ...Option) (*Widget, error) {
	w := &Widget{
		width:    DefaultWidth,
		height:   DefaultHeight,
		maxWidth: DefaultMaxWidth,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.palette == nil {
		w.palette = palette.New(palette.DefaultSize)
	}
	if w.screen == nil {
		w.screen = tcell.NewSimulationScreen("")
	}
	if err := w.screen.Init(); err != nil {
		return nil, errors.Wrap(err, "table: init screen")
	}
	if sim, ok := w.screen.(tcell.SimulationScreen); ok {
		w.sim = sim
		sim.SetSize(w.width, w.height)
	}

	w.content = w.newContent(nil, nil)
	w.view = tview.NewTable().SetFixed(1, 0).SetContent(w.content)
	w.view.SetRect(0, 0, w.width, w.height)

	w.scheduler = styler.New(dispatch, w.render,
		append([]styler.Option{styler.WithLogger(w.log)}, w.schedOpts...)...)
	return w, nil
}

func (w *Widget) newContent(columns []grid.Column, rows []grid.Record) *content {
	return &content{
		schema:   grid.NewSchema(columns),
		rows:     rows,
		layers:   grid.NewLayers(),
		palette:  w.palette,
		maxWidth: w.maxWidth,
	}
}

// Kind implements grid.Widget.
func (w *Widget) Kind() grid.Kind { return grid.Table }

// Init replaces the grid and draws it. Color layers start empty.
func (w *Widget) Init(columns []grid.Column, rows []grid.Record) error {
	if w.closed {
		return ErrClosed
	}
	w.content = w.newContent(columns, rows)
	w.view.SetContent(w.content)
	w.view.ScrollToBeginning()
	w.render()
	w.log.Debugf("table: init %d columns, %d rows", len(columns), len(rows))
	return nil
}

// ColorCell implements grid.Spreadsheet.
func (w *Widget) ColorCell(row int, field, color string) {
	w.scheduler.Schedule(mutation.New(mutation.Cell, func() {
		col := w.content.schema.IndexOf(field)
		if col < 0 || row < 0 || row >= len(w.content.rows) {
			w.log.Debugf("table: ignoring cell color for row %d field %q", row, field)
			return
		}
		w.content.layers.SetCell(row, col, color)
	}))
}

// ColorColumn implements grid.Spreadsheet.
func (w *Widget) ColorColumn(field, color string) {
	w.scheduler.Schedule(mutation.New(mutation.Column, func() {
		col := w.content.schema.IndexOf(field)
		if col < 0 {
			w.log.Debugf("table: ignoring column color for field %q", field)
			return
		}
		w.content.layers.SetColumn(col, color)
	}))
}

func (w *Widget) render() {
	w.screen.Clear()
	w.view.Draw(w.screen)
	w.screen.Show()
	w.stale = true
}

// Preview implements grid.Widget. It is empty when drawing to a real
// terminal.
func (w *Widget) Preview() string {
	if w.sim == nil {
		return ""
	}
	if w.stale {
		cells, width, height := w.sim.GetContents()
		w.preview = renderCells(cells, width, height)
		w.stale = false
	}
	return w.preview
}

// Stats implements grid.Widget.
func (w *Widget) Stats() styler.Stats { return w.scheduler.Stats() }

// Close cancels pending styling and releases the screen.
func (w *Widget) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.scheduler.Stop()
	w.screen.Fini()
	return nil
}
