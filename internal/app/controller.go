package app

import (
	"context"
	"errors"
	"fmt"

	"taskdeck/internal/model"

	log "github.com/sirupsen/logrus"
)

// Controller owns a State and runs effects synchronously, in emission order,
// until the queue drains. The CLI and tests drive the client core through it.
type Controller struct {
	state  State
	runner Runner
}

func NewController(b Backend, l *log.Logger) *Controller {
	return &Controller{state: NewState(), runner: Runner{Backend: b, Log: l}}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Frame() Frame { return Render(c.state) }

// Dispatch reduces cmd and every completion it leads to. It returns the
// completions in the order they were reduced.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) []Command {
	var done []Command
	var queue []Effect
	c.state, queue = Reduce(c.state, cmd)
	for len(queue) > 0 {
		eff := queue[0]
		queue = queue[1:]
		res := c.runner.Run(ctx, eff)
		done = append(done, res)
		var more []Effect
		c.state, more = Reduce(c.state, res)
		queue = append(queue, more...)
	}
	return done
}

// LoadTasks replaces the Store's tasks. On failure the previous tasks remain.
func (c *Controller) LoadTasks(ctx context.Context) error {
	return firstErr(c.Dispatch(ctx, LoadTasks{}))
}

func (c *Controller) LoadCategories(ctx context.Context) error {
	return firstErr(c.Dispatch(ctx, LoadCategories{}))
}

func (c *Controller) LoadDashboardStats(ctx context.Context) error {
	return firstErr(c.Dispatch(ctx, LoadStats{}))
}

// LoadAll loads categories, tasks and stats. It reports the first failure.
func (c *Controller) LoadAll(ctx context.Context) error {
	return firstErr(c.Dispatch(ctx, Init{}))
}

// CreateTask submits f through the task form. The returned error carries the
// user-facing form message.
func (c *Controller) CreateTask(ctx context.Context, f model.TaskFields) (int, error) {
	c.state, _ = Reduce(c.state, OpenNewTask{})
	return c.submit(ctx, f)
}

func (c *Controller) UpdateTask(ctx context.Context, id int, f model.TaskFields) error {
	if err := c.ensureLoaded(ctx, id); err != nil {
		return err
	}
	c.state, _ = Reduce(c.state, EditTask{ID: id})
	_, err := c.submit(ctx, f)
	return err
}

func (c *Controller) submit(ctx context.Context, f model.TaskFields) (int, error) {
	for _, res := range c.Dispatch(ctx, SubmitTaskForm{Fields: f}) {
		if saved, ok := res.(TaskSaved); ok {
			if saved.Err != nil {
				msg := c.state.Form.Err
				c.state, _ = Reduce(c.state, CloseTaskForm{})
				return 0, &FormError{Message: msg, Err: saved.Err}
			}
			return saved.ID, nil
		}
	}
	return 0, errors.New("task form was not submitted")
}

// DeleteTask opens the confirmation gate; the request is only sent when confirm
// returns true.
func (c *Controller) DeleteTask(ctx context.Context, id int, confirm func(question string) bool) (bool, error) {
	if err := c.ensureLoaded(ctx, id); err != nil {
		return false, err
	}
	c.state, _ = Reduce(c.state, DeleteTask{ID: id})
	if confirm == nil || !confirm(DeleteConfirmQuestion) {
		c.state, _ = Reduce(c.state, CancelDelete{})
		return false, nil
	}
	return true, firstErr(c.Dispatch(ctx, ConfirmDelete{}))
}

// Reorder drags dragged onto target within the visible (filtered) list and
// persists the result.
func (c *Controller) Reorder(ctx context.Context, dragged, target int) ([]int, error) {
	c.state, _ = Reduce(c.state, StartDrag{ID: dragged})
	if c.state.Drag.Phase != DragDragging {
		return nil, fmt.Errorf("task %d: %w", dragged, ErrNotVisible)
	}
	if !c.state.isVisible(target) {
		c.state, _ = Reduce(c.state, EndDrag{})
		return nil, fmt.Errorf("task %d: %w", target, ErrNotVisible)
	}
	if dragged == target {
		c.state, _ = Reduce(c.state, EndDrag{})
		return nil, ErrSameTask
	}
	done := c.Dispatch(ctx, DropOn{TargetID: target})
	c.state, _ = Reduce(c.state, EndDrag{})
	for _, res := range done {
		if rp, ok := res.(ReorderPersisted); ok {
			if rp.Err != nil {
				return nil, rp.Err
			}
			return rp.Order, nil
		}
	}
	return nil, errors.New("reorder was not sent")
}

// CreateCategory rejects blank names before any request is made.
func (c *Controller) CreateCategory(ctx context.Context, name string) error {
	c.state, _ = Reduce(c.state, DismissNotice{})
	done := c.Dispatch(ctx, CreateCategory{Name: name})
	if c.state.Notice != "" {
		return errors.New(c.state.Notice)
	}
	return firstErr(done)
}

var ErrTaskNotFound = errors.New("task not found")

// FormError is a rejected create/update, with the message shown in the form.
type FormError struct {
	Message string
	Err     error
}

func (e *FormError) Error() string { return e.Message }
func (e *FormError) Unwrap() error { return e.Err }

func firstErr(done []Command) error {
	for _, res := range done {
		if _, err := failure(res); err != nil {
			return err
		}
	}
	return nil
}

// ensureLoaded refreshes the Store when id is not in it yet.
func (c *Controller) ensureLoaded(ctx context.Context, id int) error {
	if _, ok := c.state.Store.FindTask(id); ok {
		return nil
	}
	if err := c.LoadTasks(ctx); err != nil {
		return err
	}
	if _, ok := c.state.Store.FindTask(id); !ok {
		return fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	return nil
}
