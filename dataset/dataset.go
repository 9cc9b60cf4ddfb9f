// Package dataset generates the random grids the benchmark runs on and
// stores them as CBOR fixtures so runs can be repeated on identical data.
package dataset

import (
	"bufio"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/drake/gridbench/grid"
)

const (
	letters     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	fieldLength = 8
	valueLimit  = 1000
	floatDigits = 3
)

// IDField is the extra field every generated record carries.
const IDField = "id"

// Dataset is a column layout plus its rows.
type Dataset struct {
	Seed    uint64        `cbor:"seed"`
	Columns []grid.Column `cbor:"columns"`
	Rows    []grid.Record `cbor:"rows"`
}

// Generate builds a dataset deterministically from seed.
func Generate(seed uint64, columns, rows int) *Dataset {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cols := GenerateColumns(r, columns)
	return &Dataset{
		Seed:    seed,
		Columns: cols,
		Rows:    GenerateRows(r, cols, rows),
	}
}

// GenerateColumns returns n columns with distinct random 8-letter fields,
// upper-cased titles and a random type.
func GenerateColumns(r *rand.Rand, n int) []grid.Column {
	cols := make([]grid.Column, 0, n)
	seen := make(map[string]bool, n+1)
	seen[IDField] = true
	for len(cols) < n {
		field := randomString(r, fieldLength)
		if seen[field] {
			continue
		}
		seen[field] = true
		typ := grid.Number
		if r.IntN(2) == 1 {
			typ = grid.String
		}
		cols = append(cols, grid.Column{
			Field: field,
			Title: strings.ToUpper(field),
			Type:  typ,
		})
	}
	return cols
}

// GenerateRows returns n records for cols. Each record also carries its
// index under IDField.
func GenerateRows(r *rand.Rand, cols []grid.Column, n int) []grid.Record {
	rows := make([]grid.Record, n)
	for i := range rows {
		rec := make(grid.Record, len(cols)+1)
		rec[IDField] = i
		for _, c := range cols {
			rec[c.Field] = value(r, c.Type)
		}
		rows[i] = rec
	}
	return rows
}

func value(r *rand.Rand, typ grid.ColumnType) any {
	switch typ {
	case grid.Number:
		if r.IntN(2) == 0 {
			return randomFloat(r, valueLimit)
		}
		return r.IntN(valueLimit)
	case grid.String:
		return randomString(r, r.IntN(7)+3)
	}
	return nil
}

func randomString(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[r.IntN(len(letters))]
	}
	return string(b)
}

func randomFloat(r *rand.Rand, limit float64) float64 {
	scale := math.Pow10(floatDigits)
	return math.Round(r.Float64()*limit*scale) / scale
}

// Save writes d as CBOR.
func (d *Dataset) Save(w io.Writer) error {
	if err := cbor.NewEncoder(w).Encode(d); err != nil {
		return errors.Wrap(err, "dataset: encode")
	}
	return nil
}

// SaveFile writes d to path.
func (d *Dataset) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "dataset: create fixture")
	}
	bw := bufio.NewWriter(f)
	if err := d.Save(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "dataset: write fixture")
	}
	return errors.Wrap(f.Close(), "dataset: close fixture")
}

// Load reads a CBOR dataset. Integer values come back as int.
func Load(r io.Reader) (*Dataset, error) {
	var d Dataset
	if err := cbor.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(err, "dataset: decode")
	}
	for _, rec := range d.Rows {
		for k, v := range rec {
			switch v := v.(type) {
			case uint64:
				rec[k] = int(v)
			case int64:
				rec[k] = int(v)
			}
		}
	}
	return &d, nil
}

// LoadFile reads a dataset from path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dataset: open fixture")
	}
	defer f.Close()
	return Load(bufio.NewReader(f))
}
