// Package app holds the client core: the Store mirror of server state, the view
// filter, the reorder engine, and the command reducer that ties them together.
//
// State is a plain value. Reduce never performs I/O; it returns Effects that a
// Runner executes against a Backend, and each Effect yields a completion Command
// that is reduced in turn.
package app

import (
	"strings"

	"taskdeck/internal/model"
)

type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenTasks
	ScreenCategories
)

var Screens = []Screen{ScreenDashboard, ScreenTasks, ScreenCategories}

func (s Screen) String() string {
	switch s {
	case ScreenTasks:
		return "tasks"
	case ScreenCategories:
		return "categories"
	default:
		return "dashboard"
	}
}

func (s Screen) Title() string {
	switch s {
	case ScreenTasks:
		return "Tasks"
	case ScreenCategories:
		return "Categories"
	default:
		return "Dashboard"
	}
}

func ParseScreen(s string) (Screen, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dashboard":
		return ScreenDashboard, true
	case "tasks":
		return ScreenTasks, true
	case "categories":
		return ScreenCategories, true
	}
	return ScreenDashboard, false
}

// Store mirrors the server-held collections. It is replaced wholesale by loads.
type Store struct {
	Tasks      []model.Task
	Categories []model.Category
	Stats      model.Stats
}

func (s Store) FindTask(id int) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Form is the task add/edit input surface.
type Form struct {
	Open bool
	// Editing selects update (true, EditingID) over create.
	Editing   bool
	EditingID int
	Fields    model.TaskFields
	Err       string
	// Submitting is set while a create/update request is in flight.
	Submitting bool
}

// DeleteConfirm is the gate in front of every delete request.
type DeleteConfirm struct {
	Open   bool
	TaskID int
}

type State struct {
	Screen Screen
	Store  Store
	Filter Filter
	Form   Form
	Delete DeleteConfirm
	Drag   Drag

	// Pending is the optimistic order shown while a reorder is being persisted.
	Pending    *PendingReorder
	ReorderSeq int
	// CommittedSeq is the newest gesture whose order was confirmed into the Store.
	CommittedSeq int

	CategoryInput string
	// Notice is a user-facing message (e.g. input rejected before any request).
	Notice string
}

func NewState() State {
	return State{Screen: ScreenDashboard}
}

// VisibleTasks is the filtered task list in display order, including any
// optimistic reorder that has not been confirmed yet.
func (s State) VisibleTasks() []model.Task {
	visible := FilterTasks(s.Store.Tasks, s.Filter)
	if s.Pending != nil {
		visible = applyOrder(visible, s.Pending.Order)
	}
	return visible
}

func (s State) isVisible(id int) bool {
	for _, t := range s.VisibleTasks() {
		if t.ID == id {
			return true
		}
	}
	return false
}
