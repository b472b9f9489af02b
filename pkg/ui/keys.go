package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the explorer key bindings. It implements help.KeyMap.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Menu     key.Binding
	Select   key.Binding
	NextMode key.Binding
	AutoMode key.Binding
	Sort     key.Binding
	Filter   key.Binding
	Yank     key.Binding
	Clear    key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "scroll down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "go to top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "go to bottom")),
		Menu:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/details")),
		NextMode: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "next layout")),
		AutoMode: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "layout for screen")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Yank:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy record as JSON")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear/close")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Menu, k.NextMode, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap. Groups are navigation, view and data.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Menu, k.Select, k.NextMode, k.AutoMode, k.Help},
		{k.Sort, k.Filter, k.Yank, k.Clear, k.Reload, k.Quit},
	}
}
