package app

import (
	"errors"

	"taskdeck/internal/model"
)

type DragPhase int

const (
	DragIdle DragPhase = iota
	DragDragging
	DragDropped
)

func (p DragPhase) String() string {
	switch p {
	case DragDragging:
		return "dragging"
	case DragDropped:
		return "dropped"
	default:
		return "idle"
	}
}

// Drag tracks the single in-progress drag gesture.
type Drag struct {
	Phase     DragPhase
	DraggedID int
}

// PendingReorder is an optimistic order that has been shown but not yet confirmed
// by the server.
type PendingReorder struct {
	Seq   int
	Order []int // visible task ids, new order
}

var (
	ErrNotVisible = errors.New("task is not in the visible list")
	ErrSameTask   = errors.New("cannot drop a task onto itself")
)

// MoveID moves dragged next to target: after it when dragged sits before target
// (moving forward), before it otherwise. The result is a permutation of ids.
func MoveID(ids []int, dragged, target int) ([]int, error) {
	if dragged == target {
		return nil, ErrSameTask
	}
	from, to := -1, -1
	for i, id := range ids {
		switch id {
		case dragged:
			from = i
		case target:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return nil, ErrNotVisible
	}

	rest := make([]int, 0, len(ids)-1)
	for i, id := range ids {
		if i != from {
			rest = append(rest, id)
		}
	}
	// In rest, target sits at to-1 when moving forward (insert after it: to) and at
	// to when moving backward (insert before it: to).
	insertAt := to

	out := make([]int, 0, len(ids))
	out = append(out, rest[:insertAt]...)
	out = append(out, dragged)
	out = append(out, rest[insertAt:]...)
	return out, nil
}

// Positions maps each id to its zero-based index in order.
func Positions(order []int) map[int]int {
	out := make(map[int]int, len(order))
	for i, id := range order {
		out[id] = i
	}
	return out
}

func taskIDs(tasks []model.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

// applyOrder sorts tasks by order; tasks missing from order keep their relative
// position after the ordered ones.
func applyOrder(tasks []model.Task, order []int) []model.Task {
	byID := make(map[int]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	out := make([]model.Task, 0, len(tasks))
	placed := map[int]bool{}
	for _, id := range order {
		if t, ok := byID[id]; ok && !placed[id] {
			out = append(out, t)
			placed[id] = true
		}
	}
	for _, t := range tasks {
		if !placed[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// commitOrder returns a copy of tasks where the tasks named in order are permuted
// into the slots they already occupy, in the new order, with Order set to their
// persisted position. Other tasks are untouched.
func commitOrder(tasks []model.Task, order []int) []model.Task {
	out := append([]model.Task(nil), tasks...)
	inOrder := map[int]bool{}
	for _, id := range order {
		inOrder[id] = true
	}
	var slots []int
	byID := map[int]model.Task{}
	for i, t := range out {
		if inOrder[t.ID] {
			slots = append(slots, i)
			byID[t.ID] = t
		}
	}
	pos := Positions(order)
	next := 0
	for _, id := range order {
		t, ok := byID[id]
		if !ok {
			continue
		}
		t.Order = pos[id]
		out[slots[next]] = t
		next++
	}
	return out
}
