package ui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drake/gridbench/event"
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/session"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func sized(t *testing.T, actions chan event.Event) Model {
	t.Helper()
	m, _ := update(t, NewModel(actions), tea.WindowSizeMsg{Width: 80, Height: 40})
	return m
}

func TestKeysSendActions(t *testing.T) {
	actions := make(chan event.Event, 8)
	m := sized(t, actions)

	for _, r := range "tsca" {
		m, _ = update(t, m, runeKey(r))
	}

	require.Len(t, actions, 4)
	assert.Equal(t, event.CreateWidget(grid.Table), <-actions)
	assert.Equal(t, event.CreateWidget(grid.Sheet), <-actions)
	assert.Equal(t, event.ColorAll(""), <-actions)
	assert.Equal(t, event.AutoToggle, (<-actions).Type)
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		t.Run(msg.String(), func(t *testing.T) {
			m := sized(t, make(chan event.Event, 1))
			m, cmd := update(t, m, msg)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestFullActionChannelDropsKey(t *testing.T) {
	actions := make(chan event.Event, 1)
	m := sized(t, actions)

	m, _ = update(t, m, runeKey('t'))
	m, _ = update(t, m, runeKey('s'))

	assert.Len(t, actions, 1)
	assert.Contains(t, m.status, "create dropped")
}

func TestPreviewsRenderInCreationOrder(t *testing.T) {
	m := sized(t, make(chan event.Event, 1))
	assert.Contains(t, m.View(), "no widgets yet")

	m, _ = update(t, m, PreviewMsg{Kind: grid.Sheet, View: "SHEET-VIEW"})
	m, _ = update(t, m, PreviewMsg{Kind: grid.Table, View: "TABLE-VIEW"})
	m, _ = update(t, m, PreviewMsg{Kind: grid.Sheet, View: "SHEET-VIEW-2"})

	view := m.View()
	assert.NotContains(t, view, "no widgets yet")
	assert.NotContains(t, view, "SHEET-VIEW\n")
	sheet := strings.Index(view, "SHEET-VIEW-2")
	table := strings.Index(view, "TABLE-VIEW")
	require.True(t, sheet >= 0 && table >= 0)
	assert.Less(t, sheet, table)
}

func TestMeasurementsAndStatus(t *testing.T) {
	m := sized(t, make(chan event.Event, 1))

	m, _ = update(t, m, StatusTextMsg("auto color every 100ms"))
	m, _ = update(t, m, MeasureMsg(session.Measurement{Widget: grid.Table, Phase: session.PhaseError, Err: "boom"}))

	view := m.View()
	assert.Contains(t, view, "auto color every 100ms")
	assert.Contains(t, view, "table-error: boom")
}

func TestLogKeepsRecentHistory(t *testing.T) {
	m := sized(t, make(chan event.Event, 1))
	for i := 0; i < logHistory+10; i++ {
		m, _ = update(t, m, MeasureMsg(session.Measurement{Widget: grid.Table, Phase: session.PhaseError, Err: fmt.Sprint(i)}))
	}

	require.Len(t, m.log, logHistory)
	assert.Contains(t, m.log[0], "table-error: 10")
	assert.Contains(t, m.View(), fmt.Sprintf("table-error: %d", logHistory+9))
}

func TestHelpToggleShrinksPreview(t *testing.T) {
	m := sized(t, make(chan event.Event, 1))
	short := m.preview.Height

	m, _ = update(t, m, runeKey('?'))
	assert.True(t, m.help.ShowAll)
	assert.Less(t, m.preview.Height, short)
}
