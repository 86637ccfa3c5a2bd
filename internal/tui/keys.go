package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Search     key.Binding
	Sort       key.Binding
	SortDir    key.Binding
	FilterPaid key.Binding
	FilterType key.Binding
	EditValue  key.Binding
	EditDesc   key.Binding
	EditDate   key.Binding
	PickCat    key.Binding
	PickBank   key.Binding
	TogglePaid key.Binding
	NewItem    key.Binding
	Delete     key.Binding
	NewSheet   key.Binding
	RenSheet   key.Binding
	DelSheet   key.Binding
	Refresh    key.Binding
	PrevSheet  key.Binding
	NextSheet  key.Binding
	Logout     key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "navigate")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "navigate")),
		Top:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		SortDir:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort dir")),
		FilterPaid: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "paid filter")),
		FilterType: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type filter")),
		EditValue:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "edit value")),
		EditDesc:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit desc")),
		EditDate:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "edit date")),
		PickCat:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		PickBank:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bank")),
		TogglePaid: key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "toggle paid")),
		NewItem:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		Delete:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		NewSheet:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new sheet")),
		RenSheet:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rename sheet")),
		DelSheet:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete sheet")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		PrevSheet:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev sheet")),
		NextSheet:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next sheet")),
		Logout:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// footerBindings is what the help line shows for each tab.
func (k keyMap) footerBindings(tab tabID) []key.Binding {
	switch tab {
	case tabTransactions:
		return []key.Binding{k.Up, k.Search, k.Sort, k.TogglePaid, k.EditDesc, k.PickCat, k.Delete, k.Quit}
	case tabSettings:
		return []key.Binding{k.Logout, k.NextTab, k.Quit}
	default:
		return []key.Binding{k.NextTab, k.PrevSheet, k.NextSheet, k.NewSheet, k.RenSheet, k.Refresh, k.Quit}
	}
}
