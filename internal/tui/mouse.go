package tui

import (
	"taskdeck/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

// rowAt maps a screen line to a visible task index on the Tasks screen.
func (m appModel) rowAt(y int) (int, bool) {
	if m.state.Screen != app.ScreenTasks || y < tasksTop || y >= tasksTop+m.rowsHeight() {
		return 0, false
	}
	i := m.offset + y - tasksTop
	if i >= len(m.state.VisibleTasks()) {
		return 0, false
	}
	return i, true
}

// updateMouse drives drag and drop: press on a row grabs it, motion tracks the
// hovered row, release drops onto the hovered row.
func (m appModel) updateMouse(msg tea.MouseMsg) (appModel, tea.Cmd) {
	if m.state.Form.Open || m.state.Delete.Open {
		return m, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return m.moveCursor(-1), nil
	case msg.Button == tea.MouseButtonWheelDown:
		return m.moveCursor(1), nil
	}

	row, onRow := m.rowAt(msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onRow {
			return m, nil
		}
		m.cursor = row
		t, _ := m.selectedTask()
		var cmd tea.Cmd
		m, cmd = m.dispatch(app.StartDrag{ID: t.ID})
		m.mouseDrag = m.state.Drag.Phase == app.DragDragging
		return m, cmd
	case tea.MouseActionMotion:
		if m.mouseDrag && onRow {
			m.cursor = row
		}
		return m, nil
	case tea.MouseActionRelease:
		if !m.mouseDrag {
			return m, nil
		}
		if !onRow {
			m.mouseDrag = false
			return m.dispatch(app.EndDrag{})
		}
		m.cursor = row
		return m.drop()
	}
	return m, nil
}
