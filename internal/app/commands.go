package app

import "taskdeck/internal/model"

// Command is anything Reduce accepts: user gestures and request completions.
type Command interface {
	command()
}

// User gestures.
type (
	// Init loads categories, tasks and stats.
	Init           struct{}
	LoadTasks      struct{}
	LoadCategories struct{}
	LoadStats      struct{}

	SwitchScreen struct{ Screen Screen }

	SetFilter struct {
		Kind  FilterKind
		Value string
	}
	// CycleFilterValue advances one criterion to its next option.
	CycleFilterValue struct{ Kind FilterKind }
	ClearFilters     struct{}

	OpenNewTask   struct{}
	EditTask      struct{ ID int }
	CloseTaskForm struct{}
	// SubmitTaskForm creates or updates depending on the form's editing reference.
	SubmitTaskForm struct{ Fields model.TaskFields }

	// DeleteTask asks for confirmation; nothing is sent until ConfirmDelete.
	DeleteTask    struct{ ID int }
	ConfirmDelete struct{}
	CancelDelete  struct{}

	SetCategoryInput struct{ Name string }
	CreateCategory   struct{ Name string }

	StartDrag struct{ ID int }
	DropOn    struct{ TargetID int }
	EndDrag   struct{}
	// MoveTask is the keyboard form of a drag: drop ID onto its visible neighbour Delta rows away.
	MoveTask struct {
		ID    int
		Delta int
	}

	DismissNotice struct{}
)

// Request completions.
type (
	TasksLoaded struct {
		Tasks []model.Task
		Err   error
	}
	CategoriesLoaded struct {
		Categories []model.Category
		Err        error
	}
	StatsLoaded struct {
		Stats model.Stats
		Err   error
	}
	TaskSaved struct {
		ID      int
		Created bool
		Err     error
	}
	TaskDeleted struct {
		ID  int
		Err error
	}
	ReorderPersisted struct {
		Seq   int
		Order []int
		Err   error
	}
	CategoryCreated struct {
		Name string
		Err  error
	}
)

func (Init) command()             {}
func (LoadTasks) command()        {}
func (LoadCategories) command()   {}
func (LoadStats) command()        {}
func (SwitchScreen) command()     {}
func (SetFilter) command()        {}
func (CycleFilterValue) command() {}
func (ClearFilters) command()     {}
func (OpenNewTask) command()      {}
func (EditTask) command()         {}
func (CloseTaskForm) command()    {}
func (SubmitTaskForm) command()   {}
func (DeleteTask) command()       {}
func (ConfirmDelete) command()    {}
func (CancelDelete) command()     {}
func (SetCategoryInput) command() {}
func (CreateCategory) command()   {}
func (StartDrag) command()        {}
func (DropOn) command()           {}
func (EndDrag) command()          {}
func (MoveTask) command()         {}
func (DismissNotice) command()    {}

func (TasksLoaded) command()      {}
func (CategoriesLoaded) command() {}
func (StatsLoaded) command()      {}
func (TaskSaved) command()        {}
func (TaskDeleted) command()      {}
func (ReorderPersisted) command() {}
func (CategoryCreated) command()  {}
