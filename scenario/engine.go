// Package scenario runs Lua scripts that decide which cells and columns to
// style. Scripts see a single global table, bench.
package scenario

import (
	"embed"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	glua "github.com/yuin/gopher-lua"

	"github.com/drake/gridbench/palette"
)

//go:embed scripts/*.lua
var Scripts embed.FS

// Built-in scenario names.
const (
	Default = "default"
	Burst   = "burst"
)

// Counts tallies the styling calls one run made.
type Counts struct {
	Cells   int
	Columns int
}

// Engine wraps a gopher-lua state and the compiled scenarios.
type Engine struct {
	L     *glua.LState
	host  Host
	rng   *rand.Rand
	bench *glua.LTable

	cellColor   string
	columnColor string

	scripts map[string]*glua.LFunction
	counts  Counts
}

// Option configures an Engine.
type Option func(*Engine)

// WithColors sets bench.cell_color and bench.column_color. Empty values keep
// the defaults.
func WithColors(cell, column string) Option {
	return func(e *Engine) {
		if cell != "" {
			e.cellColor = cell
		}
		if column != "" {
			e.columnColor = column
		}
	}
}

// NewEngine creates an engine whose random choices derive from seed.
func NewEngine(host Host, seed uint64, opts ...Option) *Engine {
	e := &Engine{
		host:        host,
		rng:         rand.New(rand.NewPCG(seed, ^seed)),
		cellColor:   "red",
		columnColor: "lightgreen",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init creates a fresh Lua state. Previously loaded scenarios are dropped.
func (e *Engine) Init() error {
	if e.L != nil {
		e.L.Close()
	}
	e.L = glua.NewState()
	e.scripts = make(map[string]*glua.LFunction)
	e.registerAPI()
	return nil
}

// Close releases the Lua state.
func (e *Engine) Close() {
	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
	e.scripts = nil
}

// Load compiles a scenario. name is either a built-in scenario or a path
// to a .lua file. Loading the same name again replaces it.
func (e *Engine) Load(name string) error {
	if e.L == nil {
		return errors.New("scenario: engine not initialised")
	}
	code, err := source(name)
	if err != nil {
		return err
	}
	fn, err := e.L.Load(strings.NewReader(code), name)
	if err != nil {
		return errors.Wrapf(err, "scenario: compile %s", name)
	}
	e.scripts[name] = fn
	return nil
}

func source(name string) (string, error) {
	if strings.HasSuffix(name, ".lua") {
		data, err := os.ReadFile(expandTilde(name))
		if err != nil {
			return "", errors.Wrap(err, "scenario: read script")
		}
		return string(data), nil
	}
	data, err := Scripts.ReadFile("scripts/" + name + ".lua")
	if err != nil {
		return "", errors.Errorf("scenario: unknown scenario %q", name)
	}
	return string(data), nil
}

// Run executes a loaded scenario and reports the styling calls it made.
func (e *Engine) Run(name string) (Counts, error) {
	fn, ok := e.scripts[name]
	if !ok {
		return Counts{}, errors.Errorf("scenario: %q not loaded", name)
	}
	e.counts = Counts{}
	e.L.Push(fn)
	if err := e.L.PCall(0, 0, nil); err != nil {
		return e.counts, errors.Wrapf(err, "scenario: run %s", name)
	}
	return e.counts, nil
}

// Loaded reports whether name has been loaded.
func (e *Engine) Loaded(name string) bool {
	_, ok := e.scripts[name]
	return ok
}

func (e *Engine) registerAPI() {
	e.bench = e.L.NewTable()
	e.L.SetGlobal("bench", e.bench)

	e.L.SetField(e.bench, "cell_color", glua.LString(e.cellColor))
	e.L.SetField(e.bench, "column_color", glua.LString(e.columnColor))

	// bench.rows(): number of data rows
	e.L.SetField(e.bench, "rows", e.L.NewFunction(func(L *glua.LState) int {
		L.Push(glua.LNumber(e.host.Rows()))
		return 1
	}))

	// bench.columns(): number of columns
	e.L.SetField(e.bench, "columns", e.L.NewFunction(func(L *glua.LState) int {
		L.Push(glua.LNumber(len(e.host.Columns())))
		return 1
	}))

	// bench.field(i): field of the i-th column, 1-based; nil when out of range
	e.L.SetField(e.bench, "field", e.L.NewFunction(func(L *glua.LState) int {
		i := L.CheckInt(1)
		cols := e.host.Columns()
		if i < 1 || i > len(cols) {
			L.Push(glua.LNil)
			return 1
		}
		L.Push(glua.LString(cols[i-1].Field))
		return 1
	}))

	// bench.random_int(n): integer in [0, n)
	e.L.SetField(e.bench, "random_int", e.L.NewFunction(func(L *glua.LState) int {
		n := L.CheckInt(1)
		if n <= 0 {
			L.ArgError(1, "must be positive")
			return 0
		}
		L.Push(glua.LNumber(e.rng.IntN(n)))
		return 1
	}))

	// bench.random_color(): "#rrggbb"
	e.L.SetField(e.bench, "random_color", e.L.NewFunction(func(L *glua.LState) int {
		L.Push(glua.LString(palette.Random(e.rng)))
		return 1
	}))

	// bench.color_cell(row, field, color): row is 0-based
	e.L.SetField(e.bench, "color_cell", e.L.NewFunction(func(L *glua.LState) int {
		row := L.CheckInt(1)
		field := L.CheckString(2)
		color := L.CheckString(3)
		e.host.ColorCell(row, field, color)
		e.counts.Cells++
		return 0
	}))

	// bench.color_column(field, color)
	e.L.SetField(e.bench, "color_column", e.L.NewFunction(func(L *glua.LState) int {
		field := L.CheckString(1)
		color := L.CheckString(2)
		e.host.ColorColumn(field, color)
		e.counts.Columns++
		return 0
	}))

	// bench.log(msg)
	e.L.SetField(e.bench, "log", e.L.NewFunction(func(L *glua.LState) int {
		e.host.Log(L.CheckString(1))
		return 0
	}))
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
