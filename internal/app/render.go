package app

import (
	"taskdeck/internal/model"
)

// Frame is a rendered view of State. It carries no behaviour; front ends lay it out.
type Frame struct {
	Screen Screen
	Title  string
	Stats  model.Stats

	Tasks           []TaskCard
	Filter          Filter
	CategoryOptions []string
	ReorderPending  bool
	Dragging        bool
	DraggedID       int

	Categories    []model.Category
	CategoryInput string

	Form    *FormView
	Confirm *ConfirmView
	Notice  string
}

type TaskCard struct {
	ID          int
	Title       string
	Description string
	Priority    model.Priority
	Category    string
	Completed   bool
	DueLabel    string
	Dragged     bool
}

type FormView struct {
	Heading    string
	Fields     model.TaskFields
	Err        string
	Submitting bool
	// CategoryChoices lists the Category collection, not the filter options.
	CategoryChoices []string
}

type ConfirmView struct {
	TaskID    int
	TaskTitle string
	Question  string
}

// Render is a pure function of s.
func Render(s State) Frame {
	f := Frame{
		Screen:          s.Screen,
		Title:           s.Screen.Title(),
		Stats:           s.Store.Stats,
		Filter:          s.Filter,
		CategoryOptions: CategoryOptions(s.Store.Tasks),
		ReorderPending:  s.Pending != nil,
		Dragging:        s.Drag.Phase == DragDragging,
		Categories:      append([]model.Category(nil), s.Store.Categories...),
		CategoryInput:   s.CategoryInput,
		Notice:          s.Notice,
	}
	if f.Dragging {
		f.DraggedID = s.Drag.DraggedID
	}

	visible := s.VisibleTasks()
	f.Tasks = make([]TaskCard, 0, len(visible))
	for _, t := range visible {
		f.Tasks = append(f.Tasks, taskCard(t, f.Dragging && t.ID == s.Drag.DraggedID))
	}

	if s.Form.Open {
		fv := &FormView{
			Heading:    "Add Task",
			Fields:     s.Form.Fields,
			Err:        s.Form.Err,
			Submitting: s.Form.Submitting,
		}
		if s.Form.Editing {
			fv.Heading = "Edit Task"
		}
		for _, c := range s.Store.Categories {
			fv.CategoryChoices = append(fv.CategoryChoices, c.Name)
		}
		f.Form = fv
	}

	if s.Delete.Open {
		cv := &ConfirmView{TaskID: s.Delete.TaskID, Question: DeleteConfirmQuestion}
		if t, ok := s.Store.FindTask(s.Delete.TaskID); ok {
			cv.TaskTitle = t.Title
		}
		f.Confirm = cv
	}
	return f
}

func taskCard(t model.Task, dragged bool) TaskCard {
	c := TaskCard{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		Completed:   t.Completed(),
		Dragged:     dragged,
	}
	if t.DueDate != "" {
		c.DueLabel = "Due: " + t.DueDate
	}
	return c
}
