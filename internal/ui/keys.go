package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

type keyMap struct {
	Quit     key.Binding
	ForceQ   key.Binding
	Back     key.Binding
	Palette  key.Binding
	Sidebar  key.Binding
	Navigate key.Binding

	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Focus  key.Binding
	Unfoc  key.Binding
	Reset  key.Binding
	Submit key.Binding

	SortDate   key.Binding
	SortChange key.Binding
	SortVolume key.Binding
	SortCount  key.Binding
	SortAvg    key.Binding

	RangePrev key.Binding
	RangeNext key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Palette:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "search")),
	Sidebar:  key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "sidebar")),
	Navigate: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "pages")),

	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Next:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
	Prev:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
	Focus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Unfoc:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),

	SortDate:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "sort date")),
	SortChange: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sort change")),
	SortVolume: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "sort volume")),
	SortCount:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sort count")),
	SortAvg:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "sort avg 1D")),

	RangePrev: key.NewBinding(key.WithKeys("[", "left"), key.WithHelp("[", "shorter")),
	RangeNext: key.NewBinding(key.WithKeys("]", "right"), key.WithHelp("]", "longer")),
}

// scrollKeys leaves arrows and letters to the pages.
var scrollKeys = viewport.KeyMap{
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
}
