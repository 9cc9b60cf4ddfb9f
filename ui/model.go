package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/drake/gridbench/event"
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/session"
	"github.com/drake/gridbench/ui/style"
)

const (
	logLines   = 6   // measurement lines shown under the previews
	logHistory = 200 // measurement lines kept
)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	keys    keyMap
	help    help.Model
	preview viewport.Model
	styles  style.Styles

	actions chan<- event.Event

	previews map[grid.Kind]string
	order    []grid.Kind
	log      []string
	status   string

	width       int
	height      int
	quitting    bool
	initialized bool
}

// NewModel creates a new TUI model that sends user actions to actions.
func NewModel(actions chan<- event.Event) Model {
	return Model{
		keys:     defaultKeys(),
		help:     help.New(),
		preview:  viewport.New(0, 0),
		styles:   style.DefaultStyles(),
		actions:  actions,
		previews: make(map[grid.Kind]string),
		status:   "t: table  s: sheet  c: color",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// Window size
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateDimensions()
		m.initialized = true
		return m, nil

	case MeasureMsg:
		m.appendLog(m.renderMeasurement(session.Measurement(msg)))
		return m, nil

	case PreviewMsg:
		if _, ok := m.previews[msg.Kind]; !ok {
			m.order = append(m.order, msg.Kind)
		}
		m.previews[msg.Kind] = msg.View
		m.preview.SetContent(m.renderPreviews())
		return m, nil

	case StatusTextMsg:
		m.status = string(msg)
		return m, nil

	// Key handling
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Table):
		m.send(event.CreateWidget(grid.Table))
	case key.Matches(msg, m.keys.Sheet):
		m.send(event.CreateWidget(grid.Sheet))
	case key.Matches(msg, m.keys.Color):
		m.send(event.ColorAll(""))
	case key.Matches(msg, m.keys.Auto):
		m.send(event.Event{Type: event.AutoToggle})
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.updateDimensions()
	case key.Matches(msg, m.keys.Up):
		m.preview.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.preview.ScrollDown(1)
	}
	return m, nil
}

// send hands ev to the session without blocking the UI; the session may
// itself be waiting on this program to accept a message.
func (m *Model) send(ev event.Event) {
	select {
	case m.actions <- ev:
	default:
		m.status = m.styles.Warning.Render("busy, " + ev.Type.String() + " dropped")
	}
}

func (m *Model) appendLog(line string) {
	m.log = append(m.log, line)
	if over := len(m.log) - logHistory; over > 0 {
		m.log = m.log[over:]
	}
}

func (m Model) renderMeasurement(ms session.Measurement) string {
	var s lipgloss.Style
	switch ms.Phase {
	case session.PhaseInit:
		s = m.styles.PhaseInit
	case session.PhaseFlush:
		s = m.styles.PhaseFlush
	case session.PhaseError:
		s = m.styles.PhaseError
	default:
		s = m.styles.PhaseSchedule
	}
	return s.Render(ms.String())
}

// renderPreviews stacks the widget previews in creation order.
func (m Model) renderPreviews() string {
	var parts []string
	for _, kind := range m.order {
		parts = append(parts, m.styles.PreviewHeader.Render(string(kind)), m.previews[kind], "")
	}
	return strings.Join(parts, "\n")
}

// chromeHeight is the number of rows not available to the preview viewport.
func (m Model) chromeHeight() int {
	// title, status, two separators, log, help
	return 4 + logLines + lipgloss.Height(m.help.View(m.keys))
}

func (m *Model) updateDimensions() {
	h := m.height - m.chromeHeight()
	if h < 1 {
		h = 1
	}
	m.preview.Width = m.width
	m.preview.Height = h
}

func (m Model) borderLine() string {
	if m.width <= 0 {
		return ""
	}
	return m.styles.Separator.Render(strings.Repeat("─", m.width))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return ""
	}

	parts := []string{
		m.styles.Title.Render("gridbench"),
		m.styles.StatusBar.Render(m.status),
		m.borderLine(),
	}

	if len(m.order) == 0 {
		parts = append(parts, m.styles.PreviewEmpty.Render("no widgets yet"))
		for i := 1; i < m.preview.Height; i++ {
			parts = append(parts, "")
		}
	} else {
		parts = append(parts, m.preview.View())
	}

	parts = append(parts, m.borderLine())
	log := m.log
	if len(log) > logLines {
		log = log[len(log)-logLines:]
	}
	for i := 0; i < logLines; i++ {
		if i < len(log) {
			parts = append(parts, log[i])
		} else {
			parts = append(parts, "")
		}
	}
	parts = append(parts, m.help.View(m.keys))

	return strings.Join(parts, "\n")
}
