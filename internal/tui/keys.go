package tui

import (
	"taskdeck/internal/app"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	NextScreen key.Binding
	Dashboard  key.Binding
	Tasks      key.Binding
	Categories key.Binding

	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Grab     key.Binding
	Cancel   key.Binding

	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding

	CycleCategory key.Binding
	CyclePriority key.Binding
	CycleStatus   key.Binding
	ClearFilters  key.Binding

	NewCategory key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextScreen: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		Dashboard:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Tasks:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tasks")),
		Categories: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "categories")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Grab:     key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m", "grab/drop")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Add:    key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),

		CycleCategory: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "category")),
		CyclePriority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
		CycleStatus:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		ClearFilters:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),

		NewCategory: key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "new category")),
		Reload:      key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reload")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpFor lists the bindings shown in the footer for a screen.
func (k keyMap) helpFor(s app.Screen, dragging bool) []key.Binding {
	switch s {
	case app.ScreenTasks:
		if dragging {
			return []key.Binding{k.Up, k.Down, k.Grab, k.Cancel}
		}
		return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Grab, k.Add, k.Edit, k.Delete,
			k.CycleCategory, k.CyclePriority, k.CycleStatus, k.ClearFilters, k.Help, k.Quit}
	case app.ScreenCategories:
		return []key.Binding{k.Up, k.Down, k.NewCategory, k.NextScreen, k.Reload, k.Quit}
	default:
		return []key.Binding{k.NextScreen, k.Tasks, k.Categories, k.Add, k.Reload, k.Quit}
	}
}

// fullHelp groups every binding for the "?" overlay.
func (k keyMap) fullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextScreen, k.Dashboard, k.Tasks, k.Categories},
		{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Grab, k.Cancel},
		{k.Add, k.Edit, k.Delete, k.Reload},
		{k.CycleCategory, k.CyclePriority, k.CycleStatus, k.ClearFilters},
		{k.Help, k.Quit},
	}
}
