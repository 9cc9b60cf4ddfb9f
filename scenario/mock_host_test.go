package scenario

import (
	"sync"

	"github.com/drake/gridbench/grid"
)

type cellCall struct {
	Row          int
	Field, Color string
}

type columnCall struct {
	Field, Color string
}

// MockHost implements Host for testing.
type MockHost struct {
	mu sync.Mutex

	rows    int
	columns []grid.Column

	CellCalls   []cellCall
	ColumnCalls []columnCall
	LogCalls    []string
}

func NewMockHost(rows int, fields ...string) *MockHost {
	m := &MockHost{rows: rows}
	for _, f := range fields {
		m.columns = append(m.columns, grid.Column{Field: f, Title: f, Type: grid.String})
	}
	return m
}

func (m *MockHost) Rows() int              { return m.rows }
func (m *MockHost) Columns() []grid.Column { return m.columns }

func (m *MockHost) ColorCell(row int, field, color string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CellCalls = append(m.CellCalls, cellCall{row, field, color})
}

func (m *MockHost) ColorColumn(field, color string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ColumnCalls = append(m.ColumnCalls, columnCall{field, color})
}

func (m *MockHost) Log(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogCalls = append(m.LogCalls, msg)
}
