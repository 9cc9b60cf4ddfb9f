package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/gridbench/grid"
)

func TestGenerateShape(t *testing.T) {
	d := Generate(7, 40, 100)
	require.Len(t, d.Columns, 40)
	require.Len(t, d.Rows, 100)

	fields := map[string]bool{}
	for _, c := range d.Columns {
		assert.Len(t, c.Field, 8)
		assert.Equal(t, strings.ToUpper(c.Field), c.Title)
		assert.Contains(t, []grid.ColumnType{grid.String, grid.Number}, c.Type)
		assert.False(t, fields[c.Field], "duplicate field %s", c.Field)
		fields[c.Field] = true
	}
	for i, rec := range d.Rows {
		assert.Equal(t, i, rec[IDField])
	}
}

func TestGenerateValueRanges(t *testing.T) {
	d := Generate(11, 30, 200)
	for _, rec := range d.Rows {
		for _, c := range d.Columns {
			switch v := rec[c.Field].(type) {
			case string:
				assert.Equal(t, grid.String, c.Type)
				assert.GreaterOrEqual(t, len(v), 3)
				assert.LessOrEqual(t, len(v), 9)
			case int:
				assert.Equal(t, grid.Number, c.Type)
				assert.GreaterOrEqual(t, v, 0)
				assert.Less(t, v, 1000)
			case float64:
				assert.Equal(t, grid.Number, c.Type)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1000.0)
			default:
				t.Fatalf("unexpected value %T for %s", v, c.Field)
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	assert.Equal(t, Generate(3, 10, 20), Generate(3, 10, 20))
	assert.NotEqual(t, Generate(3, 10, 20).Columns, Generate(4, 10, 20).Columns)
}

func TestSaveLoad(t *testing.T) {
	d := Generate(5, 12, 30)

	var buf bytes.Buffer
	require.NoError(t, d.Save(&buf))
	got, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.cbor")
	d := Generate(9, 4, 6)
	require.NoError(t, d.SaveFile(path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, d.Rows, got.Rows)
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load(strings.NewReader("not cbor"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.cbor"))
	assert.Error(t, err)
}
