package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Continue key.Binding
	Close    key.Binding
	Feed     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Continue: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/continue")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close feed")),
		Feed:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "feed")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Feed, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Continue, k.Close, k.Feed},
		{k.Help, k.Quit},
	}
}
