package app

import (
	"fmt"
	"strings"

	"taskdeck/internal/model"
)

type FilterKind int

const (
	FilterCategory FilterKind = iota
	FilterPriority
	FilterStatus
)

func (k FilterKind) String() string {
	switch k {
	case FilterCategory:
		return "category"
	case FilterPriority:
		return "priority"
	case FilterStatus:
		return "status"
	default:
		return fmt.Sprintf("filter(%d)", int(k))
	}
}

// Filter holds the three independent list criteria. An empty criterion matches all tasks.
type Filter struct {
	Category string
	Priority model.Priority
	Status   model.Status
}

func (f Filter) Active() bool {
	return f.Category != "" || f.Priority != "" || f.Status != ""
}

func (f Filter) Matches(t model.Task) bool {
	return (f.Category == "" || t.Category == f.Category) &&
		(f.Priority == "" || t.Priority == f.Priority) &&
		(f.Status == "" || t.Status == f.Status)
}

// With returns f with one criterion replaced.
func (f Filter) With(kind FilterKind, value string) Filter {
	value = strings.TrimSpace(value)
	switch kind {
	case FilterCategory:
		f.Category = value
	case FilterPriority:
		f.Priority = model.Priority(value)
	case FilterStatus:
		f.Status = model.Status(value)
	}
	return f
}

func (f Filter) Value(kind FilterKind) string {
	switch kind {
	case FilterCategory:
		return f.Category
	case FilterPriority:
		return string(f.Priority)
	case FilterStatus:
		return string(f.Status)
	}
	return ""
}

// FilterTasks returns the tasks matching f, preserving their relative order.
func FilterTasks(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// CategoryOptions returns the distinct non-empty categories used by tasks, in
// first-appearance order. Categories with no tasks are not filter options.
func CategoryOptions(tasks []model.Task) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tasks {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, t.Category)
	}
	return out
}

// FilterOptions lists the selectable values for kind; "" (all) always comes first.
func FilterOptions(kind FilterKind, tasks []model.Task) []string {
	out := []string{""}
	switch kind {
	case FilterCategory:
		out = append(out, CategoryOptions(tasks)...)
	case FilterPriority:
		for _, p := range model.Priorities {
			out = append(out, string(p))
		}
	case FilterStatus:
		for _, s := range model.Statuses {
			out = append(out, string(s))
		}
	}
	return out
}

// CycleFilter advances kind to the next option after its current value, wrapping to "all".
func CycleFilter(f Filter, kind FilterKind, tasks []model.Task) Filter {
	opts := FilterOptions(kind, tasks)
	cur := f.Value(kind)
	next := opts[0]
	for i, o := range opts {
		if o == cur {
			next = opts[(i+1)%len(opts)]
			break
		}
	}
	return f.With(kind, next)
}

// reconcileCategory resets the category criterion when its value is no longer an option.
func reconcileCategory(f Filter, tasks []model.Task) Filter {
	if f.Category == "" {
		return f
	}
	for _, c := range CategoryOptions(tasks) {
		if c == f.Category {
			return f
		}
	}
	f.Category = ""
	return f
}
