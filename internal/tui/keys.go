package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Flip   key.Binding
	Yes    key.Binding
	No     key.Binding
	Refill key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Flip: key.NewBinding(
			key.WithKeys(" ", "enter", "f"),
			key.WithHelp("space", "show answer"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "knew it"),
		),
		No: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "didn't"),
		),
		Refill: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refill box 1"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
