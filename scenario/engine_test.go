package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEngine(t *testing.T, host Host, opts ...Option) *Engine {
	t.Helper()
	e := NewEngine(host, 42, opts...)
	require.NoError(t, e.Init())
	t.Cleanup(e.Close)
	return e
}

func TestDefaultScenarioCallCounts(t *testing.T) {
	for _, tc := range []struct {
		name       string
		rows       int
		fields     []string
		cells      int
		columnRuns int
	}{
		{"five columns", 10, []string{"a", "b", "c", "d", "e"}, 20, 2},
		{"three columns", 7, []string{"a", "b", "c"}, 14, 2},
		{"one column", 1, []string{"a"}, 2, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			host := NewMockHost(tc.rows, tc.fields...)
			e := setupEngine(t, host)
			require.NoError(t, e.Load(Default))

			counts, err := e.Run(Default)
			require.NoError(t, err)
			assert.Equal(t, Counts{Cells: tc.cells, Columns: tc.columnRuns}, counts)
			require.Len(t, host.CellCalls, tc.cells)
			require.Len(t, host.ColumnCalls, tc.columnRuns)

			for _, c := range host.CellCalls {
				assert.GreaterOrEqual(t, c.Row, 0)
				assert.Less(t, c.Row, tc.rows)
				assert.Contains(t, tc.fields, c.Field)
				assert.Equal(t, "red", c.Color)
			}
			for _, c := range host.ColumnCalls {
				assert.Contains(t, tc.fields, c.Field)
				assert.Equal(t, "lightgreen", c.Color)
			}
		})
	}
}

func TestDefaultScenarioSkipsEmptyGrid(t *testing.T) {
	host := NewMockHost(0)
	e := setupEngine(t, host)
	require.NoError(t, e.Load(Default))

	counts, err := e.Run(Default)
	require.NoError(t, err)
	assert.Zero(t, counts)
}

func TestWithColors(t *testing.T) {
	host := NewMockHost(2, "a")
	e := setupEngine(t, host, WithColors("blue", "#123456"))
	require.NoError(t, e.Load(Default))
	_, err := e.Run(Default)
	require.NoError(t, err)

	assert.Equal(t, "blue", host.CellCalls[0].Color)
	assert.Equal(t, "#123456", host.ColumnCalls[0].Color)
}

func TestRunsAreDeterministicPerSeed(t *testing.T) {
	run := func() *MockHost {
		host := NewMockHost(50, "a", "b", "c", "d")
		e := setupEngine(t, host)
		require.NoError(t, e.Load(Burst))
		_, err := e.Run(Burst)
		require.NoError(t, err)
		return host
	}
	a, b := run(), run()
	assert.Equal(t, a.CellCalls, b.CellCalls)
	assert.Len(t, a.CellCalls, 25)
	assert.Regexp(t, `^#[0-9a-f]{6}$`, a.CellCalls[0].Color)
}

func TestLoadScriptFile(t *testing.T) {
	path := filepath.Join("testdata", "custom.lua")

	host := NewMockHost(3, "x", "y")
	e := setupEngine(t, host)
	require.NoError(t, e.Load(path))
	assert.True(t, e.Loaded(path))

	counts, err := e.Run(path)
	require.NoError(t, err)
	assert.Equal(t, Counts{Cells: 1, Columns: 1}, counts)
	assert.Equal(t, []string{"columns 2"}, host.LogCalls)
	assert.Equal(t, columnCall{"y", "navy"}, host.ColumnCalls[0])
	assert.Equal(t, cellCall{0, "x", "red"}, host.CellCalls[0])
}

func TestErrors(t *testing.T) {
	host := NewMockHost(3, "x")
	e := setupEngine(t, host)

	assert.Error(t, e.Load("nope"))
	assert.Error(t, e.Load(filepath.Join(t.TempDir(), "missing.lua")))

	_, err := e.Run(Default)
	assert.Error(t, err, "not loaded")

	bad := filepath.Join(t.TempDir(), "bad.lua")
	require.NoError(t, os.WriteFile(bad, []byte("bench.color_cell("), 0o644))
	assert.Error(t, e.Load(bad))

	failing := filepath.Join(t.TempDir(), "fail.lua")
	require.NoError(t, os.WriteFile(failing, []byte(`
bench.color_cell(0, "x", "red")
bench.random_int(0)
`), 0o644))
	require.NoError(t, e.Load(failing))
	counts, err := e.Run(failing)
	assert.Error(t, err)
	assert.Equal(t, 1, counts.Cells)
}

func TestInitDropsLoadedScenarios(t *testing.T) {
	e := setupEngine(t, NewMockHost(1, "a"))
	require.NoError(t, e.Load(Default))
	require.NoError(t, e.Init())
	assert.False(t, e.Loaded(Default))
}
