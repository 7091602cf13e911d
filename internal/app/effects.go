package app

import (
	"context"
	"errors"

	"taskdeck/internal/model"

	log "github.com/sirupsen/logrus"
)

// Backend is the server collaborator.
type Backend interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	DashboardStats(ctx context.Context) (model.Stats, error)
	CreateTask(ctx context.Context, f model.TaskFields) (int, error)
	UpdateTask(ctx context.Context, id int, f model.TaskFields) error
	DeleteTask(ctx context.Context, id int) error
	ReorderTasks(ctx context.Context, positions map[int]int) error
	CreateCategory(ctx context.Context, name string) (int, error)
}

// Effect is a request produced by Reduce. Run performs it and reports the outcome
// as a completion Command.
type Effect interface {
	Run(ctx context.Context, b Backend) Command
}

type (
	FetchTasks      struct{}
	FetchCategories struct{}
	FetchStats      struct{}
	PostTask        struct{ Fields model.TaskFields }
	PutTask         struct {
		ID     int
		Fields model.TaskFields
	}
	RemoveTask struct{ ID int }
	PutReorder struct {
		Seq       int
		Order     []int
		Positions map[int]int
	}
	PostCategory struct{ Name string }
)

func (FetchTasks) Run(ctx context.Context, b Backend) Command {
	tasks, err := b.ListTasks(ctx)
	return TasksLoaded{Tasks: tasks, Err: err}
}

func (FetchCategories) Run(ctx context.Context, b Backend) Command {
	cats, err := b.ListCategories(ctx)
	return CategoriesLoaded{Categories: cats, Err: err}
}

func (FetchStats) Run(ctx context.Context, b Backend) Command {
	st, err := b.DashboardStats(ctx)
	return StatsLoaded{Stats: st, Err: err}
}

func (e PostTask) Run(ctx context.Context, b Backend) Command {
	id, err := b.CreateTask(ctx, e.Fields)
	return TaskSaved{ID: id, Created: true, Err: err}
}

func (e PutTask) Run(ctx context.Context, b Backend) Command {
	return TaskSaved{ID: e.ID, Err: b.UpdateTask(ctx, e.ID, e.Fields)}
}

func (e RemoveTask) Run(ctx context.Context, b Backend) Command {
	return TaskDeleted{ID: e.ID, Err: b.DeleteTask(ctx, e.ID)}
}

func (e PutReorder) Run(ctx context.Context, b Backend) Command {
	return ReorderPersisted{Seq: e.Seq, Order: e.Order, Err: b.ReorderTasks(ctx, e.Positions)}
}

func (e PostCategory) Run(ctx context.Context, b Backend) Command {
	_, err := b.CreateCategory(ctx, e.Name)
	return CategoryCreated{Name: e.Name, Err: err}
}

// Runner executes effects and logs every failed completion; read, delete and
// reorder failures are otherwise silent.
type Runner struct {
	Backend Backend
	Log     *log.Logger
}

func (r Runner) Run(ctx context.Context, eff Effect) Command {
	done := eff.Run(ctx, r.Backend)
	if r.Log != nil {
		if op, err := failure(done); err != nil {
			fields := log.Fields{"op": op}
			var st interface{ HTTPStatus() int }
			if errors.As(err, &st) {
				fields["status"] = st.HTTPStatus()
			}
			var rid interface{ RequestIDValue() string }
			if errors.As(err, &rid) {
				fields["request_id"] = rid.RequestIDValue()
			}
			r.Log.WithFields(fields).WithError(err).Warn(op + " failed")
		}
	}
	return done
}

func failure(c Command) (string, error) {
	switch c := c.(type) {
	case TasksLoaded:
		return "load_tasks", c.Err
	case CategoriesLoaded:
		return "load_categories", c.Err
	case StatsLoaded:
		return "load_stats", c.Err
	case TaskSaved:
		return "save_task", c.Err
	case TaskDeleted:
		return "delete_task", c.Err
	case ReorderPersisted:
		return "reorder_tasks", c.Err
	case CategoryCreated:
		return "create_category", c.Err
	}
	return "", nil
}

// serverMessage extracts the server-reported error text, if err carries one.
func serverMessage(err error) string {
	var sm interface{ ServerMessage() string }
	if errors.As(err, &sm) {
		return sm.ServerMessage()
	}
	return ""
}
