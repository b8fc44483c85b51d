package cli

import "github.com/charmbracelet/bubbles/key"

type tuiKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Add        key.Binding
	AddChild   key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Reset      key.Binding
	Mode       key.Binding
	Refresh    key.Binding
	NextList   key.Binding
	PrevList   key.Binding
	NewList    key.Binding
	RenameList key.Binding
	DeleteList key.Binding
	Quit       key.Binding

	Yes    key.Binding
	No     key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func defaultTUIKeys() tuiKeyMap {
	return tuiKeyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		AddChild:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add child")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Reset:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Mode:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "pending/completed")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		NextList:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next list")),
		PrevList:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev list")),
		NewList:    key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new list")),
		RenameList: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "rename list")),
		DeleteList: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete list")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Yes:    key.NewBinding(key.WithKeys("y", "Y")),
		No:     key.NewBinding(key.WithKeys("n", "N", "esc")),
		Submit: key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

// shortHelp lists the bindings shown in the footer.
func (k tuiKeyMap) shortHelp() []key.Binding {
	return []key.Binding{
		k.Down, k.Up, k.Toggle, k.Add, k.AddChild, k.Edit, k.Delete, k.Reset,
		k.Mode, k.PrevList, k.NextList, k.NewList, k.RenameList, k.DeleteList, k.Refresh, k.Quit,
	}
}
