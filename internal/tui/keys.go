package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Exit       key.Binding
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Choose     key.Binding
	Back       key.Binding
	Record     key.Binding
	Retry      key.Binding
	Next       key.Binding
	Previous   key.Binding
	Listen     key.Binding
	Slow       key.Binding
	Definition key.Binding
	EndSession key.Binding
	Review     key.Binding
	Again      key.Binding
	Dismiss    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Exit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "exit")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Up:         key.NewBinding(key.WithKeys("up", "left", "k", "h"), key.WithHelp("←/↑", "move")),
		Down:       key.NewBinding(key.WithKeys("down", "right", "j", "l"), key.WithHelp("→/↓", "move")),
		Choose:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
		Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Record:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "record")),
		Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "try again")),
		Next:       key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next")),
		Previous:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "previous")),
		Listen:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "listen")),
		Slow:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "slowly")),
		Definition: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "meaning")),
		EndSession: key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "end game")),
		Review:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "practice tricky words")),
		Again:      key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter", "play again")),
		Dismiss:    key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "close")),
	}
}
