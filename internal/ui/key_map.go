package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	spotify key.Binding
	apple   key.Binding
	left    key.Binding
	right   key.Binding
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	theme   key.Binding
	logout  key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		spotify: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "spotify")),
		apple:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apple music")),
		left:    key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("←", "previous")),
		right:   key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→", "next")),
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		logout:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log out")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.spotify, k.apple, k.enter, k.back},
		{k.left, k.right, k.up, k.down},
		{k.theme, k.logout, k.quit},
	}
}
