package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Tab         key.Binding
	ShiftTab    key.Binding
	Enter       key.Binding
	Back        key.Binding
	Refresh     key.Binding
	Search      key.Binding
	Advanced    key.Binding
	MoreMatches key.Binding
	OtherRepos  key.Binding
	LoadAll     key.Binding
	Browse      key.Binding
	CopyPath    key.Binding
	CopyLink    key.Binding
	Toggle      key.Binding
	ToggleAll   key.Binding
	Select      key.Binding
	Delete      key.Binding
	Clear       key.Binding
	Filter      key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
}

var Keys = KeyMap{
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	ShiftTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev tab")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload repos")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Advanced:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "advanced")),
	MoreMatches: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more matches")),
	OtherRepos:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "other repos")),
	LoadAll:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "load everything")),
	Browse:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "open in browser")),
	CopyPath:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
	CopyLink:    key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy search link")),
	Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "collapse/expand")),
	ToggleAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "collapse/expand all")),
	Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Clear:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
	Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	HistoryPrev: key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("up", "older search")),
	HistoryNext: key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("down", "newer search")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
}
