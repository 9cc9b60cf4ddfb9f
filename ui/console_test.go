package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/gridbench/event"
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/session"
)

func TestConsoleCommands(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleUI(strings.NewReader("t\n\ns\nc burst\na\nbogus\nq\nt\n"), &out)

	require.NoError(t, c.Run())

	require.Len(t, c.actions, 4)
	assert.Equal(t, event.CreateWidget(grid.Table), <-c.actions)
	assert.Equal(t, event.CreateWidget(grid.Sheet), <-c.actions)
	assert.Equal(t, event.ColorAll("burst"), <-c.actions)
	assert.Equal(t, event.AutoToggle, (<-c.actions).Type)
	assert.Contains(t, out.String(), `unknown command "bogus"`)

	select {
	case <-c.Done():
	default:
		t.Fatal("console not done after q")
	}
}

func TestConsoleEndOfInputQuits(t *testing.T) {
	c := NewConsoleUI(strings.NewReader("t\n"), &bytes.Buffer{})
	require.NoError(t, c.Run())
	assert.Len(t, c.actions, 1)
}

func TestConsoleOutput(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleUI(strings.NewReader(""), &out)

	c.handle([]string{"p"})
	c.Measure(session.Measurement{Widget: grid.Sheet, Phase: session.PhaseError, Err: "boom"})
	c.Status("create a widget first")
	c.Preview(grid.Table, "TABLE")
	c.Preview(grid.Sheet, "SHEET")
	c.handle([]string{"p"})

	assert.Equal(t, "-- no widgets yet\n"+
		"sheet-error: boom\n"+
		"-- create a widget first\n"+
		"[sheet]\nSHEET\n"+
		"[table]\nTABLE\n", out.String())
}
