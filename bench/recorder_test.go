package bench

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/gridbench/dataset"
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/session"
)

func newSession(rec *Recorder, mutate ...func(*session.Config)) *session.Session {
	cfg := session.Config{
		Dataset:     dataset.Generate(7, 5, 10),
		Seed:        7,
		Delay:       5 * time.Millisecond,
		TableWidth:  60,
		TableHeight: 8,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return session.New(rec, cfg)
}

func TestRecorderRunsRounds(t *testing.T) {
	rec := NewRecorder(Options{Rounds: 2, Timeout: 5 * time.Second})
	s := newSession(rec)
	out := filepath.Join(t.TempDir(), "styled.xlsx")
	rec.Finally = ExportSheet(s, out)

	require.NoError(t, s.Run())

	entries := rec.Entries()
	// init, schedule and flush per widget per round
	require.Len(t, entries, 12)

	flushed := map[int]map[grid.Kind]int{1: {}, 2: {}}
	for _, e := range entries {
		if e.Phase == session.PhaseFlush {
			flushed[e.Round][e.Widget] += e.Mutations
		}
	}
	// 10 rows * 2 cells + ceil(5 * 0.4) columns
	for round, byWidget := range flushed {
		assert.Equal(t, 22, byWidget[grid.Table], "round %d", round)
		assert.Equal(t, 22, byWidget[grid.Sheet], "round %d", round)
	}

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestRecorderSkipsFlushWhenNothingScheduled(t *testing.T) {
	rec := NewRecorder(Options{Widgets: []grid.Kind{grid.Table}, Timeout: 5 * time.Second})
	s := newSession(rec, func(c *session.Config) { c.Dataset = &dataset.Dataset{} })

	require.NoError(t, s.Run())

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, session.PhaseInit, entries[0].Phase)
	assert.Equal(t, session.PhaseSchedule, entries[1].Phase)
	assert.Zero(t, entries[1].Mutations)
}

func TestRecorderStopsOnError(t *testing.T) {
	rec := NewRecorder(Options{Widgets: []grid.Kind{grid.Table}, Scenario: "missing", Timeout: 5 * time.Second})
	s := newSession(rec)

	err := s.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestExportWithoutSheetFails(t *testing.T) {
	rec := NewRecorder(Options{Widgets: []grid.Kind{grid.Table}, Timeout: 5 * time.Second})
	s := newSession(rec)
	rec.Finally = ExportSheet(s, filepath.Join(t.TempDir(), "none.xlsx"))

	err := s.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sheet widget")
}
