package tui

import (
	"context"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/model"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

// completedMsg carries the completion of an effect back into Update.
type completedMsg struct {
	cmd app.Command
}

// Rows of the Tasks screen above the first task row: header, gap, filter bar, gap.
const tasksTop = 4

// footerHeight is the notice line plus the help line.
const footerHeight = 2

type appModel struct {
	state  app.State
	runner app.Runner
	keys   keyMap
	help   help.Model

	width     int
	height    int
	serverURL string

	// cursor indexes the visible task list; offset is the first row on screen.
	cursor int
	offset int
	// mouseDrag is set while a drag started by a mouse press is in progress.
	mouseDrag bool

	form         taskForm
	confirmFocus confirmModalFocus

	categories     list.Model
	catInput       textinput.Model
	catInputActive bool
}

func newAppModel(b app.Backend, l *log.Logger, serverURL string) appModel {
	cats := list.New(nil, newCategoryDelegate(), 0, 0)
	cats.SetShowTitle(false)
	cats.SetShowHelp(false)
	cats.SetShowStatusBar(false)
	cats.SetFilteringEnabled(false)
	cats.SetShowPagination(false)
	cats.DisableQuitKeybindings()

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "New category name"
	in.CharLimit = 80
	_ = in.Cursor.SetMode(cursor.CursorStatic)

	m := appModel{
		state:      app.NewState(),
		runner:     app.Runner{Backend: b, Log: l},
		keys:       defaultKeyMap(),
		help:       help.New(),
		serverURL:  serverURL,
		categories: cats,
		catInput:   in,
	}
	return m.resize(100, 30)
}

// restore applies a saved TUI state: last screen and filters. Unknown values are ignored.
func (m appModel) restore(st *config.TUIState) appModel {
	if st == nil {
		return m
	}
	if s, ok := app.ParseScreen(st.View); ok {
		m.state.Screen = s
	}
	f := app.Filter{Category: st.CategoryFilter}
	if p, err := model.ParsePriority(st.PriorityFilter); err == nil {
		f.Priority = p
	}
	if s, err := model.ParseStatus(st.StatusFilter); err == nil {
		f.Status = s
	}
	m.state.Filter = f
	return m
}

// snapshot is the TUI state persisted on exit.
func (m appModel) snapshot() *config.TUIState {
	return &config.TUIState{
		Version:        1,
		View:           m.state.Screen.String(),
		CategoryFilter: m.state.Filter.Category,
		PriorityFilter: string(m.state.Filter.Priority),
		StatusFilter:   string(m.state.Filter.Status),
	}
}

func (m appModel) Init() tea.Cmd {
	_, cmd := m.dispatch(app.Init{})
	return cmd
}

// dispatch reduces c and turns the resulting effects into commands whose
// completions come back as completedMsg.
func (m appModel) dispatch(c app.Command) (appModel, tea.Cmd) {
	var effs []app.Effect
	m.state, effs = app.Reduce(m.state, c)
	m = m.sync()
	return m, m.runEffects(effs)
}

func (m appModel) runEffects(effs []app.Effect) tea.Cmd {
	if len(effs) == 0 {
		return nil
	}
	runner := m.runner
	cmds := make([]tea.Cmd, 0, len(effs))
	for _, eff := range effs {
		eff := eff
		cmds = append(cmds, func() tea.Msg {
			return completedMsg{cmd: runner.Run(context.Background(), eff)}
		})
	}
	return tea.Batch(cmds...)
}

// sync brings the widgets in line with state after every reduction.
func (m appModel) sync() appModel {
	visible := m.state.VisibleTasks()
	if m.cursor >= len(visible) {
		m.cursor = len(visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m = m.scrollToCursor()

	switch {
	case m.state.Form.Open && !m.form.active:
		fv := app.Render(m.state).Form
		m.form = newTaskForm(*fv, m.width)
	case !m.state.Form.Open && m.form.active:
		m.form = taskForm{}
	}
	if !m.state.Delete.Open {
		m.confirmFocus = confirmFocusConfirm
	}

	sel := m.categories.Index()
	m.categories.SetItems(categoryItems(m.state.Store.Categories, m.state.Store.Tasks))
	if sel < len(m.state.Store.Categories) {
		m.categories.Select(sel)
	}
	if m.catInput.Value() != m.state.CategoryInput {
		m.catInput.SetValue(m.state.CategoryInput)
	}
	return m
}

func (m appModel) rowsHeight() int {
	h := m.height - tasksTop - footerHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (m appModel) scrollToCursor() appModel {
	h := m.rowsHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m
}

func (m appModel) selectedTask() (model.Task, bool) {
	visible := m.state.VisibleTasks()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.cursor], true
}

// follow moves the cursor onto task id, wherever it now sits in the visible list.
func (m appModel) follow(id int) appModel {
	for i, t := range m.state.VisibleTasks() {
		if t.ID == id {
			m.cursor = i
			return m.scrollToCursor()
		}
	}
	return m
}

func (m appModel) resize(w, h int) appModel {
	m.width, m.height = w, h
	m.help.Width = w
	m.categories.SetSize(w, max(1, h-tasksTop-footerHeight-2))
	m.catInput.Width = modalBodyWidth(w) - 2
	return m.scrollToCursor()
}
