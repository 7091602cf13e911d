package app

import (
	"errors"
	"testing"

	"taskdeck/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type msgErr struct{ msg string }

func (e msgErr) Error() string         { return "HTTP 400: " + e.msg }
func (e msgErr) ServerMessage() string { return e.msg }

func loaded(tasks ...model.Task) State {
	s, _ := Reduce(NewState(), TasksLoaded{Tasks: tasks})
	return s
}

func threeTasks() []model.Task {
	return []model.Task{
		{ID: 1, Title: "a", Order: 0, Category: "Work"},
		{ID: 2, Title: "b", Order: 1, Category: "Home"},
		{ID: 3, Title: "c", Order: 2, Category: "Work"},
	}
}

func cardIDs(f Frame) []int {
	out := make([]int, len(f.Tasks))
	for i, c := range f.Tasks {
		out[i] = c.ID
	}
	return out
}

func TestReduce_InitFetchesEverything(t *testing.T) {
	_, effs := Reduce(NewState(), Init{})
	assert.Equal(t, []Effect{FetchCategories{}, FetchTasks{}, FetchStats{}}, effs)
}

func TestReduce_LoadFailureKeepsStaleData(t *testing.T) {
	s := loaded(threeTasks()...)
	s, effs := Reduce(s, TasksLoaded{Err: errors.New("boom")})
	assert.Empty(t, effs)
	assert.Equal(t, []int{1, 2, 3}, taskIDs(s.Store.Tasks))

	s, _ = Reduce(s, StatsLoaded{Stats: model.Stats{Pending: 3}})
	s, _ = Reduce(s, StatsLoaded{Err: errors.New("boom")})
	assert.Equal(t, 3, s.Store.Stats.Pending)
}

func TestReduce_ReloadIsIdempotent(t *testing.T) {
	s := loaded(threeTasks()...)
	first := Render(s)
	s, _ = Reduce(s, TasksLoaded{Tasks: threeTasks()})
	assert.Equal(t, first, Render(s))
}

func TestReduce_CategoryFilterResetsWhenOptionDisappears(t *testing.T) {
	s := loaded(threeTasks()...)
	s, _ = Reduce(s, SetFilter{Kind: FilterCategory, Value: "Home"})
	assert.Equal(t, []int{2}, cardIDs(Render(s)))

	s, _ = Reduce(s, TasksLoaded{Tasks: []model.Task{{ID: 1, Category: "Work"}}})
	assert.Equal(t, "", s.Filter.Category)
	assert.Equal(t, []int{1}, cardIDs(Render(s)))
}

func TestReduce_SwitchToDashboardRefreshesStats(t *testing.T) {
	s, effs := Reduce(NewState(), SwitchScreen{Screen: ScreenTasks})
	assert.Empty(t, effs)
	s, effs = Reduce(s, SwitchScreen{Screen: ScreenDashboard})
	assert.Equal(t, []Effect{FetchStats{}}, effs)
	assert.Equal(t, "Dashboard", Render(s).Title)
}

func TestReduce_FormCreateAndEdit(t *testing.T) {
	s := loaded(threeTasks()...)
	s, _ = Reduce(s, OpenNewTask{})
	require.True(t, s.Form.Open)
	assert.Equal(t, model.PriorityMedium, s.Form.Fields.Priority)
	assert.Equal(t, model.StatusPending, s.Form.Fields.Status)

	f := model.TaskFields{Title: "new", Priority: model.PriorityHigh, Status: model.StatusPending}
	s, effs := Reduce(s, SubmitTaskForm{Fields: f})
	assert.Equal(t, []Effect{PostTask{Fields: f}}, effs)
	assert.True(t, s.Form.Submitting)

	// A second submit while the first is in flight is ignored.
	_, effs = Reduce(s, SubmitTaskForm{Fields: f})
	assert.Empty(t, effs)

	s, effs = Reduce(s, TaskSaved{ID: 4, Created: true})
	assert.False(t, s.Form.Open)
	assert.Equal(t, []Effect{FetchTasks{}, FetchStats{}}, effs)

	s, _ = Reduce(s, EditTask{ID: 2})
	assert.True(t, s.Form.Editing)
	assert.Equal(t, 2, s.Form.EditingID)
	assert.Equal(t, "b", s.Form.Fields.Title)
	assert.Equal(t, "Edit Task", Render(s).Form.Heading)

	f = s.Form.Fields
	f.Status = model.StatusCompleted
	_, effs = Reduce(s, SubmitTaskForm{Fields: f})
	assert.Equal(t, []Effect{PutTask{ID: 2, Fields: f}}, effs)
}

func TestReduce_SaveErrorKeepsFormOpen(t *testing.T) {
	s := loaded(threeTasks()...)
	s, _ = Reduce(s, OpenNewTask{})
	f := model.TaskFields{Title: "", Priority: model.PriorityMedium, Status: model.StatusPending}
	s, _ = Reduce(s, SubmitTaskForm{Fields: f})

	s, effs := Reduce(s, TaskSaved{Created: true, Err: msgErr{"title required"}})
	assert.Empty(t, effs, "store must not be refreshed")
	assert.True(t, s.Form.Open)
	assert.Equal(t, f, s.Form.Fields)
	assert.Equal(t, "Error saving task: title required", Render(s).Form.Err)

	s, _ = Reduce(s, SubmitTaskForm{Fields: f})
	s, _ = Reduce(s, TaskSaved{Created: true, Err: errors.New("connection refused")})
	assert.Equal(t, "Error saving task: Unknown error", s.Form.Err)
}

func TestReduce_SaveErrorAfterFormClosed(t *testing.T) {
	s := loaded(threeTasks()...)
	s, _ = Reduce(s, OpenNewTask{})
	s, _ = Reduce(s, SubmitTaskForm{Fields: model.NewTaskFields()})
	s, _ = Reduce(s, CloseTaskForm{})

	s, effs := Reduce(s, TaskSaved{Created: true, Err: msgErr{"title required"}})
	assert.Empty(t, effs)
	assert.Equal(t, Form{}, s.Form)
	assert.Nil(t, Render(s).Form)
}

func TestReduce_DeleteRequiresConfirmation(t *testing.T) {
	s := loaded(threeTasks()...)
	s, effs := Reduce(s, DeleteTask{ID: 2})
	assert.Empty(t, effs)
	fr := Render(s)
	require.NotNil(t, fr.Confirm)
	assert.Equal(t, "Are you sure you want to delete this task?", fr.Confirm.Question)
	assert.Equal(t, "b", fr.Confirm.TaskTitle)

	c, effs := Reduce(s, CancelDelete{})
	assert.Empty(t, effs)
	assert.Nil(t, Render(c).Confirm)

	s, effs = Reduce(s, ConfirmDelete{})
	assert.Equal(t, []Effect{RemoveTask{ID: 2}}, effs)
	assert.False(t, s.Delete.Open)

	_, effs = Reduce(s, TaskDeleted{ID: 2})
	assert.Equal(t, []Effect{FetchTasks{}, FetchStats{}}, effs)
	_, effs = Reduce(s, TaskDeleted{ID: 2, Err: errors.New("boom")})
	assert.Empty(t, effs)
}

func TestReduce_CreateCategory(t *testing.T) {
	s, effs := Reduce(NewState(), CreateCategory{Name: "   "})
	assert.Empty(t, effs)
	assert.Equal(t, "Please enter a category name", s.Notice)

	s, _ = Reduce(s, DismissNotice{})
	s, _ = Reduce(s, SetCategoryInput{Name: " Errands "})
	s, effs = Reduce(s, CreateCategory{Name: s.CategoryInput})
	assert.Equal(t, []Effect{PostCategory{Name: "Errands"}}, effs)

	s, effs = Reduce(s, CategoryCreated{Name: "Errands"})
	assert.Equal(t, "", s.CategoryInput)
	assert.Equal(t, []Effect{FetchCategories{}}, effs)
}

func TestReduce_DragLifecycle(t *testing.T) {
	s := loaded(threeTasks()...)

	s, _ = Reduce(s, StartDrag{ID: 3})
	assert.Equal(t, DragDragging, s.Drag.Phase)
	assert.True(t, Render(s).Tasks[2].Dragged)

	// Dropping onto itself leaves everything as it was.
	same, effs := Reduce(s, DropOn{TargetID: 3})
	assert.Empty(t, effs)
	assert.Equal(t, DragDragging, same.Drag.Phase)

	s, effs = Reduce(s, DropOn{TargetID: 1})
	require.Len(t, effs, 1)
	assert.Equal(t, PutReorder{Seq: 1, Order: []int{3, 1, 2}, Positions: map[int]int{3: 0, 1: 1, 2: 2}}, effs[0])
	assert.Equal(t, DragDropped, s.Drag.Phase)
	assert.Equal(t, []int{3, 1, 2}, cardIDs(Render(s)), "optimistic order is shown immediately")
	assert.True(t, Render(s).ReorderPending)

	s, _ = Reduce(s, EndDrag{})
	assert.Equal(t, DragIdle, s.Drag.Phase)

	s, effs = Reduce(s, ReorderPersisted{Seq: 1, Order: []int{3, 1, 2}})
	assert.Equal(t, []Effect{FetchStats{}}, effs)
	assert.Nil(t, s.Pending)
	assert.Equal(t, []int{3, 1, 2}, taskIDs(s.Store.Tasks))
	assert.Equal(t, 0, s.Store.Tasks[0].Order)
}

func TestReduce_StartDragIgnoresHiddenTask(t *testing.T) {
	s := loaded(threeTasks()...)
	s, _ = Reduce(s, SetFilter{Kind: FilterCategory, Value: "Work"})
	s, _ = Reduce(s, StartDrag{ID: 2})
	assert.Equal(t, DragIdle, s.Drag.Phase)
	_, effs := Reduce(s, DropOn{TargetID: 1})
	assert.Empty(t, effs)
}

func TestReduce_ReorderFailureRollsBack(t *testing.T) {
	s := loaded(threeTasks()...)
	before := cardIDs(Render(s))

	s, _ = Reduce(s, StartDrag{ID: 3})
	s, _ = Reduce(s, DropOn{TargetID: 1})
	s, _ = Reduce(s, EndDrag{})
	require.NotEqual(t, before, cardIDs(Render(s)))

	s, effs := Reduce(s, ReorderPersisted{Seq: 1, Order: []int{3, 1, 2}, Err: errors.New("boom")})
	assert.Empty(t, effs)
	assert.Nil(t, s.Pending)
	assert.Equal(t, before, cardIDs(Render(s)))
}

func TestReduce_StaleReorderCompletion(t *testing.T) {
	s := loaded(threeTasks()...)
	s, _ = Reduce(s, MoveTask{ID: 3, Delta: -1}) // seq 1: [1,3,2]
	s, _ = Reduce(s, MoveTask{ID: 3, Delta: -1}) // seq 2: [3,1,2]
	require.Equal(t, 2, s.Pending.Seq)
	require.Equal(t, []int{3, 1, 2}, cardIDs(Render(s)))

	// Failure of the superseded gesture leaves the newer overlay alone.
	s, _ = Reduce(s, ReorderPersisted{Seq: 1, Order: []int{1, 3, 2}, Err: errors.New("boom")})
	require.NotNil(t, s.Pending)
	assert.Equal(t, []int{3, 1, 2}, cardIDs(Render(s)))

	s, _ = Reduce(s, ReorderPersisted{Seq: 2, Order: []int{3, 1, 2}})
	assert.Nil(t, s.Pending)
	assert.Equal(t, []int{3, 1, 2}, cardIDs(Render(s)))
}

func TestReduce_OlderReorderSuccessAfterNewer(t *testing.T) {
	s := loaded(threeTasks()...)
	s, _ = Reduce(s, MoveTask{ID: 3, Delta: -1}) // seq 1: [1,3,2]
	s, _ = Reduce(s, MoveTask{ID: 3, Delta: -1}) // seq 2: [3,1,2]

	s, effs := Reduce(s, ReorderPersisted{Seq: 2, Order: []int{3, 1, 2}})
	require.Len(t, effs, 1)
	require.Nil(t, s.Pending)
	require.Equal(t, 2, s.CommittedSeq)
	require.Equal(t, []int{3, 1, 2}, cardIDs(Render(s)))

	s, effs = Reduce(s, ReorderPersisted{Seq: 1, Order: []int{1, 3, 2}})
	assert.Empty(t, effs)
	assert.Equal(t, 2, s.CommittedSeq)
	assert.Equal(t, []int{3, 1, 2}, cardIDs(Render(s)))
	assert.Equal(t, []int{3, 1, 2}, taskIDs(s.Store.Tasks))
}

func TestReduce_MoveTaskBounds(t *testing.T) {
	s := loaded(threeTasks()...)
	_, effs := Reduce(s, MoveTask{ID: 1, Delta: -1})
	assert.Empty(t, effs)
	_, effs = Reduce(s, MoveTask{ID: 3, Delta: 1})
	assert.Empty(t, effs)
	_, effs = Reduce(s, MoveTask{ID: 42, Delta: 1})
	assert.Empty(t, effs)

	s, effs = Reduce(s, MoveTask{ID: 1, Delta: 1})
	require.Len(t, effs, 1)
	assert.Equal(t, []int{2, 1, 3}, effs[0].(PutReorder).Order)
	assert.Equal(t, DragIdle, s.Drag.Phase)
}

func TestRender_Cards(t *testing.T) {
	s := loaded(
		model.Task{ID: 1, Title: "a", DueDate: "2025-02-01", Status: model.StatusCompleted, Priority: model.PriorityHigh},
		model.Task{ID: 2, Title: "b"},
	)
	s, _ = Reduce(s, CategoriesLoaded{Categories: []model.Category{{ID: 1, Name: "Work"}, {ID: 2, Name: "Empty"}}})
	s, _ = Reduce(s, OpenNewTask{})
	fr := Render(s)
	require.Len(t, fr.Tasks, 2)
	assert.Equal(t, "Due: 2025-02-01", fr.Tasks[0].DueLabel)
	assert.True(t, fr.Tasks[0].Completed)
	assert.Equal(t, "", fr.Tasks[1].DueLabel)
	assert.Equal(t, "Add Task", fr.Form.Heading)
	assert.Equal(t, []string{"Work", "Empty"}, fr.Form.CategoryChoices)
	assert.Empty(t, fr.CategoryOptions, "empty categories are not filter options")
}
