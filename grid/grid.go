// Package grid defines the spreadsheet capability shared by the benchmarked
// widgets and the bookkeeping both of them use to resolve styles.
package grid

import (
	"strconv"

	"github.com/drake/gridbench/internal/styler"
)

// ColumnType is the declared type of a column's values.
type ColumnType string

const (
	String ColumnType = "string"
	Number ColumnType = "number"
)

// Column describes one column of the grid.
type Column struct {
	Field string     `yaml:"field" cbor:"field"`
	Title string     `yaml:"title" cbor:"title"`
	Type  ColumnType `yaml:"type" cbor:"type"`
}

// Record is one row keyed by column field. Values are string, float64, int
// or nil.
type Record map[string]any

// Kind names a widget implementation.
type Kind string

const (
	Table Kind = "table"
	Sheet Kind = "sheet"
)

// Kinds lists every widget kind in display order.
var Kinds = []Kind{Table, Sheet}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Spreadsheet is the capability the benchmark exercises. Styling calls are
// deferred: they take effect at the widget's next flush.
type Spreadsheet interface {
	// Init replaces any existing grid with columns and rows.
	Init(columns []Column, rows []Record) error
	// ColorCell sets the background of one cell. An unknown field or a row
	// outside the data is ignored when the change is applied.
	ColorCell(row int, field string, color string)
	// ColorColumn sets the background of every data cell in a column.
	ColorColumn(field string, color string)
}

// Widget is a Spreadsheet driven by the benchmark.
type Widget interface {
	Spreadsheet
	Kind() Kind
	// Preview returns the most recently rendered view as styled text.
	Preview() string
	Stats() styler.Stats
	Close() error
}

// FormatValue renders a record value as cell text.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
