package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	ToggleForm key.Binding
	Close      key.Binding
	PrevCat    key.Binding
	NextCat    key.Binding
	Reload     key.Binding
	Up         key.Binding
	Down       key.Binding
	Interest   key.Binding
	Mindblow   key.Binding
	False      key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Post       key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	ToggleForm: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "share a fact")),
	Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	PrevCat:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev category")),
	NextCat:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next category")),
	Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
	Interest:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "👍")),
	Mindblow:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "🤯")),
	False:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "⛔️")),
	NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Post:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "post")),
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.ToggleForm, k.PrevCat, k.NextCat, k.Up, k.Down, k.Interest, k.Mindblow, k.False, k.Reload, k.Quit}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevCat, k.NextCat, k.Post, k.Close}
}
