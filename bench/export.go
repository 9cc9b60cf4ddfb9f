package bench

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/session"
)

// saver is implemented by widgets that can export their content.
type saver interface {
	Save(out io.Writer) error
}

// ExportSheet returns a Finally hook that saves the session's sheet widget
// to path. The workbook is serialised on the session loop and written to
// disk outside it.
func ExportSheet(s *session.Session, path string) func(context.Context) error {
	return func(ctx context.Context) error {
		var buf bytes.Buffer
		var saveErr error
		err := s.Do(ctx, func() {
			w, ok := s.Widget(grid.Sheet)
			if !ok {
				saveErr = errors.New("bench: no sheet widget to export")
				return
			}
			sv, ok := w.(saver)
			if !ok {
				saveErr = errors.Errorf("bench: %s widget cannot be saved", w.Kind())
				return
			}
			saveErr = sv.Save(&buf)
		})
		if err != nil {
			return errors.Wrap(err, "bench: export sheet")
		}
		if saveErr != nil {
			return saveErr
		}
		return errors.Wrap(os.WriteFile(path, buf.Bytes(), 0o644), "bench: write xlsx")
	}
}
