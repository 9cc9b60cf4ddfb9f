package session

import (
	"github.com/pkg/errors"

	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/grid/sheet"
	"github.com/drake/gridbench/grid/table"
	"github.com/drake/gridbench/internal/debounce"
	"github.com/drake/gridbench/internal/styler"
)

// Factory builds an empty widget of kind whose flushes go through dispatch.
type Factory func(kind grid.Kind, dispatch debounce.Dispatch, opts ...styler.Option) (grid.Widget, error)

// NewWidget is the default Factory. Widgets share the session's palette and
// logger and take their sizes from the Config.
func (s *Session) NewWidget(kind grid.Kind, dispatch debounce.Dispatch, opts ...styler.Option) (grid.Widget, error) {
	switch kind {
	case grid.Table:
		topts := []table.Option{
			table.WithPalette(s.palette),
			table.WithLogger(s.log),
			table.WithScheduler(opts...),
		}
		if s.cfg.TableWidth > 0 && s.cfg.TableHeight > 0 {
			topts = append(topts, table.WithSize(s.cfg.TableWidth, s.cfg.TableHeight))
		}
		w, err := table.New(dispatch, topts...)
		if err != nil {
			return nil, err
		}
		return w, nil
	case grid.Sheet:
		sopts := []sheet.Option{
			sheet.WithPalette(s.palette),
			sheet.WithLogger(s.log),
			sheet.WithScheduler(opts...),
		}
		if s.cfg.SheetRows > 0 && s.cfg.SheetColumns > 0 {
			sopts = append(sopts, sheet.WithWindow(s.cfg.SheetRows, s.cfg.SheetColumns))
		}
		return sheet.New(dispatch, sopts...), nil
	}
	return nil, errors.Errorf("session: unknown widget %q", kind)
}
