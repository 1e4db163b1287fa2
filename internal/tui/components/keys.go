package components

import "github.com/charmbracelet/bubbles/key"

// TitleListKeyMap defines key bindings for title list navigation
type TitleListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Escape   key.Binding
	Enter    key.Binding
	Filter   key.Binding
}

// DefaultTitleListKeyMap returns the default title list key bindings
func DefaultTitleListKeyMap() TitleListKeyMap {
	return TitleListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "half page down"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear genre"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply genre"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "genre"),
		),
	}
}

// SearchKeyMap defines key bindings for the search modal
type SearchKeyMap struct {
	Escape key.Binding
	Enter  key.Binding
	Up     key.Binding
	Down   key.Binding
}

// DefaultSearchKeyMap returns the default search key bindings
func DefaultSearchKeyMap() SearchKeyMap {
	return SearchKeyMap{
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/C-p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/C-n", "next"),
		),
	}
}

// RemixKeyMap defines key bindings for the remix panel
type RemixKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Poster key.Binding
	Teaser key.Binding
	Enter  key.Binding
	Escape key.Binding
}

// DefaultRemixKeyMap returns the default remix panel key bindings
func DefaultRemixKeyMap() RemixKeyMap {
	return RemixKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Poster: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "poster"),
		),
		Teaser: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "teaser"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "generate"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// Package-level key map instances
var (
	TitleListKeys = DefaultTitleListKeyMap()
	SearchKeys    = DefaultSearchKeyMap()
	RemixKeys     = DefaultRemixKeyMap()
)
