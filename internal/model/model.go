package model

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists priorities in display order (lowest first).
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var Statuses = []Status{StatusPending, StatusCompleted}

type Task struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    Priority `json:"priority" yaml:"priority"`
	// Category is a category name, not an id. The server does not enforce that it exists.
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	DueDate   string `json:"due_date,omitempty" yaml:"due_date,omitempty"` // YYYY-MM-DD
	Status    Status `json:"status" yaml:"status"`
	Order     int    `json:"order_index" yaml:"order_index"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

func (t Task) Completed() bool { return t.Status == StatusCompleted }

// Fields returns the editable fields of t as a create/update payload.
func (t Task) Fields() TaskFields {
	return TaskFields{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		DueDate:     t.DueDate,
		Status:      t.Status,
	}
}

type Category struct {
	ID   int    `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

type Stats struct {
	DueToday  int `json:"due_today" yaml:"due_today"`
	Overdue   int `json:"overdue" yaml:"overdue"`
	Completed int `json:"completed" yaml:"completed"`
	Pending   int `json:"pending" yaml:"pending"`
}

// TaskFields is the fixed-shape payload for task create/update requests.
// Every key is always sent; an empty due date is sent as "".
type TaskFields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	DueDate     string   `json:"due_date"`
	Status      Status   `json:"status"`
}

// NewTaskFields returns the defaults of a blank task form.
func NewTaskFields() TaskFields {
	return TaskFields{Priority: PriorityMedium, Status: StatusPending}
}

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium", "med":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("invalid priority: %q (want Low|Medium|High)", s)
	}
}

func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "todo":
		return StatusPending, nil
	case "completed", "done":
		return StatusCompleted, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("invalid status: %q (want pending|completed)", s)
	}
}

// ParseDueDate validates an ISO date (YYYY-MM-DD). Empty means no due date.
func ParseDueDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", s)
	}
	return s, nil
}
