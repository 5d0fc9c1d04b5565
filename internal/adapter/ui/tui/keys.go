package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle key.Binding
	Next   key.Binding
	Prev   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Prev, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Next, k.Prev}, {k.Help, k.Quit}}
}

var keys = keyMap{
	Toggle: key.NewBinding(key.WithKeys("t", " "), key.WithHelp("t", "toggle true shuffle")),
	Next:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "skip")),
	Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "back")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}
