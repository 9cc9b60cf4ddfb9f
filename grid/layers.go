package grid

// Cell addresses a data cell by row and column index.
type Cell struct {
	Row, Col int
}

// Layers holds the two background layers of a grid. A column color wins over
// a cell color in the same column regardless of which was set last.
type Layers struct {
	columns map[int]string
	cells   map[Cell]string
}

// NewLayers returns empty layers.
func NewLayers() *Layers {
	return &Layers{
		columns: make(map[int]string),
		cells:   make(map[Cell]string),
	}
}

// SetColumn sets the color of column col. An empty color clears it.
func (l *Layers) SetColumn(col int, color string) {
	if color == "" {
		delete(l.columns, col)
		return
	}
	l.columns[col] = color
}

// SetCell sets the color of one cell. An empty color clears it.
func (l *Layers) SetCell(row, col int, color string) {
	c := Cell{Row: row, Col: col}
	if color == "" {
		delete(l.cells, c)
		return
	}
	l.cells[c] = color
}

// Column returns the color of column col.
func (l *Layers) Column(col int) (string, bool) {
	color, ok := l.columns[col]
	return color, ok
}

// Resolve returns the effective background of a cell.
func (l *Layers) Resolve(row, col int) (string, bool) {
	if color, ok := l.columns[col]; ok {
		return color, true
	}
	color, ok := l.cells[Cell{Row: row, Col: col}]
	return color, ok
}

// Counts returns how many columns and cells carry a color.
func (l *Layers) Counts() (columns, cells int) {
	return len(l.columns), len(l.cells)
}

// Reset clears both layers.
func (l *Layers) Reset() {
	clear(l.columns)
	clear(l.cells)
}

// EachCell calls fn for every colored cell in no particular order.
func (l *Layers) EachCell(fn func(c Cell, color string)) {
	for c, color := range l.cells {
		fn(c, color)
	}
}
