package app

import (
	"strings"

	"taskdeck/internal/model"
)

const (
	saveErrorPrefix       = "Error saving task: "
	saveErrorFallback     = "Unknown error"
	emptyCategoryNotice   = "Please enter a category name"
	DeleteConfirmQuestion = "Are you sure you want to delete this task?"
)

// Reduce applies c to s. It never performs I/O; requests are returned as effects.
func Reduce(s State, c Command) (State, []Effect) {
	switch c := c.(type) {
	case Init:
		return s, []Effect{FetchCategories{}, FetchTasks{}, FetchStats{}}
	case LoadTasks:
		return s, []Effect{FetchTasks{}}
	case LoadCategories:
		return s, []Effect{FetchCategories{}}
	case LoadStats:
		return s, []Effect{FetchStats{}}

	case SwitchScreen:
		s.Screen = c.Screen
		if c.Screen == ScreenDashboard {
			return s, []Effect{FetchStats{}}
		}
		return s, nil

	case SetFilter:
		s.Filter = s.Filter.With(c.Kind, c.Value)
		return s, nil
	case CycleFilterValue:
		s.Filter = CycleFilter(s.Filter, c.Kind, s.Store.Tasks)
		return s, nil
	case ClearFilters:
		s.Filter = Filter{}
		return s, nil

	case OpenNewTask:
		s.Form = Form{Open: true, Fields: model.NewTaskFields()}
		return s, nil
	case EditTask:
		t, ok := s.Store.FindTask(c.ID)
		if !ok {
			return s, nil
		}
		s.Form = Form{Open: true, Editing: true, EditingID: t.ID, Fields: t.Fields()}
		return s, nil
	case CloseTaskForm:
		s.Form = Form{}
		return s, nil
	case SubmitTaskForm:
		return submitTaskForm(s, c)

	case DeleteTask:
		if _, ok := s.Store.FindTask(c.ID); !ok {
			return s, nil
		}
		s.Delete = DeleteConfirm{Open: true, TaskID: c.ID}
		return s, nil
	case ConfirmDelete:
		if !s.Delete.Open {
			return s, nil
		}
		id := s.Delete.TaskID
		s.Delete = DeleteConfirm{}
		return s, []Effect{RemoveTask{ID: id}}
	case CancelDelete:
		s.Delete = DeleteConfirm{}
		return s, nil

	case SetCategoryInput:
		s.CategoryInput = c.Name
		return s, nil
	case CreateCategory:
		name := strings.TrimSpace(c.Name)
		if name == "" {
			s.Notice = emptyCategoryNotice
			return s, nil
		}
		return s, []Effect{PostCategory{Name: name}}

	case StartDrag:
		if !s.isVisible(c.ID) {
			return s, nil
		}
		s.Drag = Drag{Phase: DragDragging, DraggedID: c.ID}
		return s, nil
	case DropOn:
		return dropOn(s, c.TargetID)
	case EndDrag:
		s.Drag = Drag{}
		return s, nil
	case MoveTask:
		return moveTask(s, c)

	case DismissNotice:
		s.Notice = ""
		return s, nil

	case TasksLoaded:
		if c.Err != nil {
			return s, nil
		}
		s.Store.Tasks = append([]model.Task{}, c.Tasks...)
		s.Filter = reconcileCategory(s.Filter, s.Store.Tasks)
		return s, nil
	case CategoriesLoaded:
		if c.Err != nil {
			return s, nil
		}
		s.Store.Categories = append([]model.Category{}, c.Categories...)
		return s, nil
	case StatsLoaded:
		if c.Err != nil {
			return s, nil
		}
		s.Store.Stats = c.Stats
		return s, nil

	case TaskSaved:
		s.Form.Submitting = false
		if c.Err != nil {
			if !s.Form.Open {
				return s, nil
			}
			msg := serverMessage(c.Err)
			if msg == "" {
				msg = saveErrorFallback
			}
			s.Form.Err = saveErrorPrefix + msg
			return s, nil
		}
		s.Form = Form{}
		return s, []Effect{FetchTasks{}, FetchStats{}}

	case TaskDeleted:
		if c.Err != nil {
			return s, nil
		}
		return s, []Effect{FetchTasks{}, FetchStats{}}

	case ReorderPersisted:
		return reorderPersisted(s, c)

	case CategoryCreated:
		if c.Err != nil {
			return s, nil
		}
		s.CategoryInput = ""
		return s, []Effect{FetchCategories{}}
	}
	return s, nil
}

func submitTaskForm(s State, c SubmitTaskForm) (State, []Effect) {
	if s.Form.Submitting {
		return s, nil
	}
	s.Form.Open = true
	s.Form.Fields = c.Fields
	s.Form.Err = ""
	s.Form.Submitting = true
	if s.Form.Editing {
		return s, []Effect{PutTask{ID: s.Form.EditingID, Fields: c.Fields}}
	}
	return s, []Effect{PostTask{Fields: c.Fields}}
}

func dropOn(s State, targetID int) (State, []Effect) {
	if s.Drag.Phase != DragDragging || targetID == s.Drag.DraggedID {
		return s, nil
	}
	order, err := MoveID(taskIDs(s.VisibleTasks()), s.Drag.DraggedID, targetID)
	if err != nil {
		return s, nil
	}
	s.ReorderSeq++
	s.Pending = &PendingReorder{Seq: s.ReorderSeq, Order: order}
	s.Drag.Phase = DragDropped
	return s, []Effect{PutReorder{Seq: s.ReorderSeq, Order: order, Positions: Positions(order)}}
}

func moveTask(s State, c MoveTask) (State, []Effect) {
	visible := s.VisibleTasks()
	idx := -1
	for i, t := range visible {
		if t.ID == c.ID {
			idx = i
			break
		}
	}
	to := idx + c.Delta
	if idx < 0 || c.Delta == 0 || to < 0 || to >= len(visible) {
		return s, nil
	}
	s, _ = Reduce(s, StartDrag{ID: c.ID})
	s, effs := Reduce(s, DropOn{TargetID: visible[to].ID})
	s, _ = Reduce(s, EndDrag{})
	return s, effs
}

// reorderPersisted commits a confirmed order into the Store, or drops the
// optimistic overlay when persisting the current gesture failed. Completions of
// superseded gestures never touch the overlay, and a confirmation older than
// the last committed one is ignored.
func reorderPersisted(s State, c ReorderPersisted) (State, []Effect) {
	current := s.Pending != nil && s.Pending.Seq == c.Seq
	if c.Err != nil {
		if current {
			s.Pending = nil
		}
		return s, nil
	}
	if c.Seq <= s.CommittedSeq {
		return s, nil
	}
	s.Store.Tasks = commitOrder(s.Store.Tasks, c.Order)
	s.CommittedSeq = c.Seq
	if current {
		s.Pending = nil
	}
	return s, []Effect{FetchStats{}}
}
