package tui

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"taskdeck/internal/app"
	"taskdeck/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

// serverErr mimics an API error carrying a server-reported message.
type serverErr struct{ msg string }

func (e serverErr) Error() string         { return "server: " + e.msg }
func (e serverErr) ServerMessage() string { return e.msg }

type fakeBackend struct {
	mu       sync.Mutex
	tasks    []model.Task
	cats     []model.Category
	stats    model.Stats
	nextID   int
	created  []model.TaskFields
	updated  map[int]model.TaskFields
	deleted  []int
	reorders []map[int]int

	createErr  error
	reorderErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		tasks: []model.Task{
			{ID: 1, Title: "Write report", Priority: model.PriorityHigh, Category: "Work", DueDate: "2026-10-20", Status: model.StatusPending, Order: 0},
			{ID: 2, Title: "Buy milk", Priority: model.PriorityLow, Category: "Home", Status: model.StatusPending, Order: 1},
			{ID: 3, Title: "Call mom", Priority: model.PriorityMedium, Category: "Home", Status: model.StatusCompleted, Order: 2},
		},
		cats:    []model.Category{{ID: 1, Name: "Home"}, {ID: 2, Name: "Work"}},
		stats:   model.Stats{DueToday: 0, Overdue: 0, Completed: 1, Pending: 2},
		nextID:  4,
		updated: map[int]model.TaskFields{},
	}
}

func (b *fakeBackend) ListTasks(context.Context) ([]model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Task(nil), b.tasks...), nil
}

func (b *fakeBackend) ListCategories(context.Context) ([]model.Category, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Category(nil), b.cats...), nil
}

func (b *fakeBackend) DashboardStats(context.Context) (model.Stats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats, nil
}

func (b *fakeBackend) CreateTask(_ context.Context, f model.TaskFields) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.createErr != nil {
		return 0, b.createErr
	}
	b.created = append(b.created, f)
	id := b.nextID
	b.nextID++
	b.tasks = append(b.tasks, model.Task{ID: id, Title: f.Title, Description: f.Description, Priority: f.Priority,
		Category: f.Category, DueDate: f.DueDate, Status: f.Status, Order: len(b.tasks)})
	return id, nil
}

func (b *fakeBackend) UpdateTask(_ context.Context, id int, f model.TaskFields) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updated[id] = f
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			order := b.tasks[i].Order
			b.tasks[i] = model.Task{ID: id, Title: f.Title, Description: f.Description, Priority: f.Priority,
				Category: f.Category, DueDate: f.DueDate, Status: f.Status, Order: order}
			return nil
		}
	}
	return serverErr{msg: "task not found"}
}

func (b *fakeBackend) DeleteTask(_ context.Context, id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, id)
	out := b.tasks[:0]
	for _, t := range b.tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	b.tasks = out
	return nil
}

func (b *fakeBackend) ReorderTasks(_ context.Context, positions map[int]int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reorders = append(b.reorders, positions)
	if b.reorderErr != nil {
		return b.reorderErr
	}
	for i := range b.tasks {
		if p, ok := positions[b.tasks[i].ID]; ok {
			b.tasks[i].Order = p
		}
	}
	sort.SliceStable(b.tasks, func(i, j int) bool { return b.tasks[i].Order < b.tasks[j].Order })
	return nil
}

func (b *fakeBackend) CreateCategory(_ context.Context, name string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := len(b.cats) + 1
	b.cats = append(b.cats, model.Category{ID: id, Name: name})
	return id, nil
}

var errBoom = errors.New("boom")

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

// drain runs cmd and feeds every effect completion back into the model until
// nothing is left. Other messages (quit, blink) are dropped.
func drain(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case completedMsg:
			next, more := m.Update(msg)
			m = next.(appModel)
			queue = append(queue, more)
		}
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key in turn and drains the resulting effects.
func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = drain(t, next.(appModel), cmd)
	}
	return m
}

func loadedModel(t *testing.T, b *fakeBackend) appModel {
	t.Helper()
	m := newAppModel(b, quietLogger(), "http://tasks.test")
	m = m.resize(120, 30)
	m = drain(t, m, m.Init())
	if got := len(m.state.Store.Tasks); got != len(b.tasks) {
		t.Fatalf("loaded %d tasks, want %d", got, len(b.tasks))
	}
	return m
}

func visibleIDs(m appModel) []int {
	var ids []int
	for _, t := range m.state.VisibleTasks() {
		ids = append(ids, t.ID)
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalPositions(a, b map[int]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

var _ app.Backend = (*fakeBackend)(nil)
