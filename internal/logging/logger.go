// Package logging provides the leveled logger shared by every gridbench
// component. Lines are timestamped; level tags are colored when the sink is
// a terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// Level orders log severities.
type Level int

const (
	DebugLvl Level = iota
	InfoLvl
	WarnLvl
	ErrorLvl
)

func (l Level) String() string {
	switch l {
	case DebugLvl:
		return "DEBUG"
	case InfoLvl:
		return "INFO"
	case WarnLvl:
		return "WARN"
	case ErrorLvl:
		return "ERROR"
	}
	return "?"
}

var tagColors = map[Level]*color.Color{
	DebugLvl: color.New(color.FgHiBlack),
	InfoLvl:  color.New(color.FgCyan),
	WarnLvl:  color.New(color.FgYellow),
	ErrorLvl: color.New(color.FgRed, color.Bold),
}

// Logger writes one line per call. A nil *Logger discards everything, so
// components can hold one unconditionally.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	min    Level
	color  bool
}

// New creates a logger writing to w at the given minimum level.
func New(w io.Writer, min Level) *Logger {
	return &Logger{w: w, min: min, color: supportsColor(w)}
}

// NewFile creates (or appends to) the log file at path.
func NewFile(path string, min Level) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "logging: ensure log dir")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "logging: open log file")
	}
	l := New(f, min)
	l.closer = f
	return l, nil
}

// Discard returns a logger that drops every line.
func Discard() *Logger {
	return New(io.Discard, ErrorLvl+1)
}

func supportsColor(w io.Writer) bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Close releases the file handle, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Enabled reports whether lines at lvl are written.
func (l *Logger) Enabled(lvl Level) bool {
	return l != nil && lvl >= l.min
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(DebugLvl, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(InfoLvl, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(WarnLvl, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(ErrorLvl, format, args...) }

func (l *Logger) logf(lvl Level, format string, args ...any) {
	if !l.Enabled(lvl) {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	tag := lvl.String()
	if l.color {
		tag = tagColors[lvl].Sprint(tag)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %-5s %s\n", time.Now().Format(time.RFC3339), tag, line)
}
