package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap lists the page's bindings. It satisfies help.KeyMap.
type keyMap struct {
	Table key.Binding
	Sheet key.Binding
	Color key.Binding
	Auto  key.Binding
	Up    key.Binding
	Down  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Table: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "create table")),
		Sheet: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "create sheet")),
		Color: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "color")),
		Auto:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto color")),
		Up:    key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑/k", "scroll up")),
		Down:  key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓/j", "scroll down")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Table, k.Sheet, k.Color, k.Auto, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Table, k.Sheet, k.Color, k.Auto},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}
