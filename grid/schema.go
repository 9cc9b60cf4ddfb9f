package grid

// Schema is an indexed column layout. The zero value has no columns.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema indexes columns by field. When a field repeats, the first
// column wins.
func NewSchema(columns []Column) Schema {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c.Field]; !ok {
			index[c.Field] = i
		}
	}
	return Schema{columns: columns, index: index}
}

// IndexOf returns the position of field, or -1.
func (s Schema) IndexOf(field string) int {
	if i, ok := s.index[field]; ok {
		return i
	}
	return -1
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.columns) }

// Column returns the column at i.
func (s Schema) Column(i int) Column { return s.columns[i] }

// Columns returns the columns in order.
func (s Schema) Columns() []Column { return s.columns }
