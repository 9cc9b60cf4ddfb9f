package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaIndexOf(t *testing.T) {
	s := NewSchema([]Column{
		{Field: "alpha", Title: "ALPHA", Type: String},
		{Field: "beta", Title: "BETA", Type: Number},
		{Field: "alpha", Title: "DUP", Type: Number},
	})

	assert.Equal(t, 0, s.IndexOf("alpha"))
	assert.Equal(t, 1, s.IndexOf("beta"))
	assert.Equal(t, -1, s.IndexOf("gamma"))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, -1, Schema{}.IndexOf("alpha"))
}

func TestColumnColorWinsInEitherOrder(t *testing.T) {
	cellFirst := NewLayers()
	cellFirst.SetCell(1, 0, "red")
	cellFirst.SetColumn(0, "lightgreen")

	columnFirst := NewLayers()
	columnFirst.SetColumn(0, "lightgreen")
	columnFirst.SetCell(1, 0, "red")

	for _, l := range []*Layers{cellFirst, columnFirst} {
		color, ok := l.Resolve(1, 0)
		assert.True(t, ok)
		assert.Equal(t, "lightgreen", color)
	}
}

func TestResolveFallsBackToCellThenDefault(t *testing.T) {
	l := NewLayers()
	l.SetCell(2, 3, "red")

	color, ok := l.Resolve(2, 3)
	assert.True(t, ok)
	assert.Equal(t, "red", color)

	_, ok = l.Resolve(2, 4)
	assert.False(t, ok)
}

func TestEmptyColorClears(t *testing.T) {
	l := NewLayers()
	l.SetCell(0, 0, "red")
	l.SetColumn(1, "blue")
	l.SetCell(0, 0, "")
	l.SetColumn(1, "")

	cols, cells := l.Counts()
	assert.Zero(t, cols)
	assert.Zero(t, cells)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "abc", FormatValue("abc"))
	assert.Equal(t, "12.345", FormatValue(12.345))
	assert.Equal(t, "999", FormatValue(999))
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("sheet")
	assert.True(t, ok)
	assert.Equal(t, Sheet, k)

	_, ok = ParseKind("grid")
	assert.False(t, ok)
}
