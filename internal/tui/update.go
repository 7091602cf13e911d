package tui

import (
	"taskdeck/internal/app"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil
	case completedMsg:
		return m.dispatch(msg.cmd)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (appModel, tea.Cmd) {
	var pre tea.Cmd
	if m.state.Notice != "" {
		m, pre = m.dispatch(app.DismissNotice{})
	}

	var cmd tea.Cmd
	switch {
	case m.state.Delete.Open:
		m, cmd = m.updateConfirm(msg)
	case m.state.Form.Open:
		m, cmd = m.updateForm(msg)
	case m.catInputActive:
		m, cmd = m.updateCategoryInput(msg)
	default:
		m, cmd = m.updateScreen(msg)
	}
	return m, tea.Batch(pre, cmd)
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "y":
		return m.dispatch(app.ConfirmDelete{})
	case "n", "esc", "ctrl+g", "q":
		return m.dispatch(app.CancelDelete{})
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.dispatch(app.ConfirmDelete{})
		}
		return m.dispatch(app.CancelDelete{})
	}
	return m, nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		return m.dispatch(app.CloseTaskForm{})
	case "tab", "down":
		if msg.String() == "down" && m.form.focus == fieldDescription {
			break
		}
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case "shift+tab", "up":
		if msg.String() == "up" && m.form.focus == fieldDescription {
			break
		}
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.form.focus != fieldDescription {
			return m.submitForm()
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m appModel) submitForm() (appModel, tea.Cmd) {
	fields, err := m.form.fields()
	if err != nil {
		m.form.localErr = err.Error()
		return m, nil
	}
	return m.dispatch(app.SubmitTaskForm{Fields: fields})
}

func (m appModel) updateCategoryInput(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.catInputActive = false
		m.catInput.Blur()
		return m, nil
	case "enter":
		return m.dispatch(app.CreateCategory{Name: m.catInput.Value()})
	}
	var cmd tea.Cmd
	m.catInput, cmd = m.catInput.Update(msg)
	if m.catInput.Value() != m.state.CategoryInput {
		var next tea.Cmd
		m, next = m.dispatch(app.SetCategoryInput{Name: m.catInput.Value()})
		cmd = tea.Batch(cmd, next)
	}
	return m, cmd
}

func (m appModel) updateScreen(msg tea.KeyMsg) (appModel, tea.Cmd) {
	k := m.keys
	dragging := m.state.Drag.Phase == app.DragDragging

	// A keyboard drag owns the keys until it is dropped or cancelled.
	if dragging && m.state.Screen == app.ScreenTasks {
		switch {
		case key.Matches(msg, k.Up):
			return m.moveCursor(-1), nil
		case key.Matches(msg, k.Down):
			return m.moveCursor(1), nil
		case key.Matches(msg, k.Grab), msg.String() == "enter":
			return m.drop()
		case key.Matches(msg, k.Cancel):
			m.mouseDrag = false
			return m.dispatch(app.EndDrag{})
		case key.Matches(msg, k.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, k.NextScreen):
		next := app.Screens[(int(m.state.Screen)+1)%len(app.Screens)]
		return m.dispatch(app.SwitchScreen{Screen: next})
	case key.Matches(msg, k.Dashboard):
		return m.dispatch(app.SwitchScreen{Screen: app.ScreenDashboard})
	case key.Matches(msg, k.Tasks):
		return m.dispatch(app.SwitchScreen{Screen: app.ScreenTasks})
	case key.Matches(msg, k.Categories):
		return m.dispatch(app.SwitchScreen{Screen: app.ScreenCategories})
	case key.Matches(msg, k.Reload):
		return m.dispatch(app.Init{})
	}

	switch m.state.Screen {
	case app.ScreenTasks:
		return m.updateTasksKey(msg)
	case app.ScreenCategories:
		if key.Matches(msg, k.NewCategory) {
			m.catInputActive = true
			_ = m.catInput.Focus()
			return m, nil
		}
		var cmd tea.Cmd
		m.categories, cmd = m.categories.Update(msg)
		return m, cmd
	default:
		if key.Matches(msg, k.Add) {
			return m.dispatch(app.OpenNewTask{})
		}
	}
	return m, nil
}

func (m appModel) updateTasksKey(msg tea.KeyMsg) (appModel, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Up):
		return m.moveCursor(-1), nil
	case key.Matches(msg, k.Down):
		return m.moveCursor(1), nil
	case key.Matches(msg, k.MoveUp), key.Matches(msg, k.MoveDown):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		delta := 1
		if key.Matches(msg, k.MoveUp) {
			delta = -1
		}
		var cmd tea.Cmd
		m, cmd = m.dispatch(app.MoveTask{ID: t.ID, Delta: delta})
		return m.follow(t.ID), cmd
	case key.Matches(msg, k.Grab):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m.dispatch(app.StartDrag{ID: t.ID})
	case key.Matches(msg, k.Add):
		return m.dispatch(app.OpenNewTask{})
	case key.Matches(msg, k.Edit):
		if t, ok := m.selectedTask(); ok {
			return m.dispatch(app.EditTask{ID: t.ID})
		}
	case key.Matches(msg, k.Delete):
		if t, ok := m.selectedTask(); ok {
			return m.dispatch(app.DeleteTask{ID: t.ID})
		}
	case key.Matches(msg, k.CycleCategory):
		return m.dispatch(app.CycleFilterValue{Kind: app.FilterCategory})
	case key.Matches(msg, k.CyclePriority):
		return m.dispatch(app.CycleFilterValue{Kind: app.FilterPriority})
	case key.Matches(msg, k.CycleStatus):
		return m.dispatch(app.CycleFilterValue{Kind: app.FilterStatus})
	case key.Matches(msg, k.ClearFilters):
		return m.dispatch(app.ClearFilters{})
	}
	return m, nil
}

func (m appModel) moveCursor(delta int) appModel {
	n := len(m.state.VisibleTasks())
	m.cursor += delta
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m.scrollToCursor()
}

// drop completes a drag on the task under the cursor. Dropping on the dragged
// task itself just ends the gesture.
func (m appModel) drop() (appModel, tea.Cmd) {
	dragged := m.state.Drag.DraggedID
	m.mouseDrag = false
	var cmd tea.Cmd
	if t, ok := m.selectedTask(); ok && t.ID != dragged {
		m, cmd = m.dispatch(app.DropOn{TargetID: t.ID})
	}
	m, _ = m.dispatch(app.EndDrag{})
	return m.follow(dragged), cmd
}
