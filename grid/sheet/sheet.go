// Package sheet is the spreadsheet-engine widget: an excelize workbook whose
// cells carry stored styles. Styling a flush rewrites cell style ids, and
// the render materialises a window of the sheet into a lipgloss table.
package sheet

import (
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/internal/debounce"
	"github.com/drake/gridbench/internal/logging"
	"github.com/drake/gridbench/internal/mutation"
	"github.com/drake/gridbench/internal/styler"
	"github.com/drake/gridbench/palette"
)

const (
	// SheetName is the worksheet holding the grid.
	SheetName = "Data"

	DefaultWindowRows    = 20
	DefaultWindowColumns = 8
)

// ErrClosed is returned by Init and Save after Close.
var ErrClosed = errors.New("sheet: widget closed")

// Widget implements grid.Widget on an excelize workbook. Row 1 of the
// worksheet holds the titles; data row i lives on worksheet row i+2.
type Widget struct {
	log       *logging.Logger
	palette   *palette.Palette
	scheduler *styler.Scheduler
	schedOpts []styler.Option

	file   *excelize.File
	schema grid.Schema
	rows   int
	layers *grid.Layers

	dirtyColumns map[int]struct{}
	dirtyCells   map[grid.Cell]struct{}

	styleIDs map[string]int // hex -> style id
	styleHex map[int]string // style id -> hex

	windowRows, windowCols int
	window                 [][]string // hex background per visible data cell
	preview                string
	closed                 bool
}

// Option configures a Widget.
type Option func(*Widget)

// WithWindow sets how many data rows and columns a render materialises.
func WithWindow(rows, columns int) Option {
	return func(w *Widget) { w.windowRows, w.windowCols = rows, columns }
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

// New creates an empty sheet widget. Flushes are delivered through dispatch
// and must run on the goroutine that calls the widget's methods.
func New(dispatch debounce.Dispatch, opts ...Option) *Widget {
	w := &Widget{
		layers:     grid.NewLayers(),
		windowRows: DefaultWindowRows,
		windowCols: DefaultWindowColumns,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.palette == nil {
		w.palette = palette.New(palette.DefaultSize)
	}
	w.resetStyles()
	w.scheduler = styler.New(dispatch, w.render, append([]styler.Option{
		styler.WithLogger(w.log),
		styler.WithBatch(w.batch),
	}, w.schedOpts...)...)
	return w
}

func (w *Widget) resetStyles() {
	w.dirtyColumns = make(map[int]struct{})
	w.dirtyCells = make(map[grid.Cell]struct{})
	w.styleIDs = make(map[string]int)
	w.styleHex = make(map[int]string)
}

// Kind implements grid.Widget.
func (w *Widget) Kind() grid.Kind { return grid.Sheet }

// Init builds a new workbook from columns and rows, closing the previous
// one first.
func (w *Widget) Init(columns []grid.Column, rows []grid.Record) error {
	if w.closed {
		return ErrClosed
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			w.log.Warnf("sheet: close previous workbook: %v", err)
		}
		w.file = nil
	}
	w.schema = grid.NewSchema(nil)
	w.rows = 0
	w.layers.Reset()
	w.resetStyles()

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return errors.Wrap(err, "sheet: name worksheet")
	}

	titles := make([]any, len(columns))
	for i, c := range columns {
		titles[i] = c.Title
	}
	if err := f.SetSheetRow(SheetName, "A1", &titles); err != nil {
		f.Close()
		return errors.Wrap(err, "sheet: write header")
	}
	values := make([]any, len(columns))
	for i, rec := range rows {
		for j, c := range columns {
			values[j] = rec[c.Field]
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			f.Close()
			return errors.Wrapf(err, "sheet: write row %d", i)
		}
	}

	w.file = f
	w.schema = grid.NewSchema(columns)
	w.rows = len(rows)
	w.render()
	w.log.Debugf("sheet: init %d columns, %d rows", len(columns), len(rows))
	return nil
}

// ColorCell implements grid.Spreadsheet.
func (w *Widget) ColorCell(row int, field, color string) {
	w.scheduler.Schedule(mutation.New(mutation.Cell, func() {
		col := w.schema.IndexOf(field)
		if col < 0 || row < 0 || row >= w.rows {
			w.log.Debugf("sheet: ignoring cell color for row %d field %q", row, field)
			return
		}
		w.layers.SetCell(row, col, color)
		w.dirtyCells[grid.Cell{Row: row, Col: col}] = struct{}{}
	}))
}

// ColorColumn implements grid.Spreadsheet.
func (w *Widget) ColorColumn(field, color string) {
	w.scheduler.Schedule(mutation.New(mutation.Column, func() {
		col := w.schema.IndexOf(field)
		if col < 0 {
			w.log.Debugf("sheet: ignoring column color for field %q", field)
			return
		}
		w.layers.SetColumn(col, color)
		w.dirtyColumns[col] = struct{}{}
	}))
}

// batch applies a flush's mutations to the layers, then writes the
// resulting styles into the workbook in one pass.
func (w *Widget) batch(apply func()) {
	apply()
	if w.file == nil {
		return
	}
	w.commit()
}

func (w *Widget) commit() {
	columns := make([]int, 0, len(w.dirtyColumns))
	for col := range w.dirtyColumns {
		columns = append(columns, col)
	}
	slices.Sort(columns)

	for _, col := range columns {
		color, ok := w.layers.Column(col)
		id := 0
		if ok {
			id = w.styleID(color)
		}
		if err := w.setStyle(0, col, w.rows-1, col, id); err != nil {
			w.log.Warnf("sheet: style column %d: %v", col, err)
			continue
		}
		if !ok {
			// Cleared column: cell colors show through again.
			w.layers.EachCell(func(c grid.Cell, _ string) {
				if c.Col == col {
					w.dirtyCells[c] = struct{}{}
				}
			})
		}
	}

	for c := range w.dirtyCells {
		if _, ok := w.layers.Column(c.Col); ok {
			continue
		}
		id := 0
		if color, ok := w.layers.Resolve(c.Row, c.Col); ok {
			id = w.styleID(color)
		}
		if err := w.setStyle(c.Row, c.Col, c.Row, c.Col, id); err != nil {
			w.log.Warnf("sheet: style cell %d,%d: %v", c.Row, c.Col, err)
		}
	}

	clear(w.dirtyColumns)
	clear(w.dirtyCells)
}

// setStyle styles the data range from (row1, col1) to (row2, col2).
func (w *Widget) setStyle(row1, col1, row2, col2, id int) error {
	if row2 < row1 {
		return nil
	}
	tl, err := excelize.CoordinatesToCellName(col1+1, row1+2)
	if err != nil {
		return err
	}
	br, err := excelize.CoordinatesToCellName(col2+1, row2+2)
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(SheetName, tl, br, id)
}

// styleID returns the fill style for a color name, creating it on first
// use. Unknown colors map to the default style.
func (w *Widget) styleID(name string) int {
	color := w.palette.Lookup(name)
	if !color.Valid {
		return 0
	}
	if id, ok := w.styleIDs[color.Hex]; ok {
		return id
	}
	id, err := w.file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color.Hex}},
	})
	if err != nil {
		w.log.Warnf("sheet: new style for %s: %v", color.Hex, err)
		return 0
	}
	w.styleIDs[color.Hex] = id
	w.styleHex[id] = color.Hex
	return id
}

// render reads the visible window back from the workbook and lays it out
// as a table.
func (w *Widget) render() {
	if w.file == nil {
		w.window = nil
		w.preview = ""
		return
	}
	nrows := min(w.windowRows, w.rows)
	ncols := min(w.windowCols, w.schema.Len())

	headers := make([]string, ncols)
	for j := range headers {
		headers[j] = w.schema.Column(j).Title
	}
	data := make([][]string, nrows)
	window := make([][]string, nrows)
	for i := range data {
		data[i] = make([]string, ncols)
		window[i] = make([]string, ncols)
		for j := range data[i] {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			value, err := w.file.GetCellValue(SheetName, cell)
			if err != nil {
				w.log.Warnf("sheet: read %s: %v", cell, err)
			}
			data[i][j] = value
			id, err := w.file.GetCellStyle(SheetName, cell)
			if err != nil {
				w.log.Warnf("sheet: read style %s: %v", cell, err)
			}
			window[i][j] = w.styleHex[id]
		}
	}
	w.window = window

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	plain := lipgloss.NewStyle().Padding(0, 1)
	w.preview = table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row < 0 || row >= len(window) || col >= len(window[row]) || window[row][col] == "" {
				return plain
			}
			bg := w.palette.Lookup(window[row][col])
			return plain.
				Background(lipgloss.Color(bg.Hex)).
				Foreground(lipgloss.Color(bg.Foreground().Hex))
		}).
		Render()
}

// Preview implements grid.Widget.
func (w *Widget) Preview() string { return w.preview }

// Stats implements grid.Widget.
func (w *Widget) Stats() styler.Stats { return w.scheduler.Stats() }

// Save writes the styled workbook as xlsx.
func (w *Widget) Save(out io.Writer) error {
	if w.closed {
		return ErrClosed
	}
	if w.file == nil {
		return errors.New("sheet: nothing to save before Init")
	}
	if _, err := w.file.WriteTo(out); err != nil {
		return errors.Wrap(err, "sheet: write workbook")
	}
	return nil
}

// Close cancels pending styling and releases the workbook.
func (w *Widget) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.scheduler.Stop()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return errors.Wrap(err, "sheet: close workbook")
}
