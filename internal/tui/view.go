package tui

import (
	"fmt"
	"strconv"
	"strings"

	"taskdeck/internal/app"
	"taskdeck/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	f := app.Render(m.state)

	var body string
	switch f.Screen {
	case app.ScreenTasks:
		body = m.viewTasks(f)
	case app.ScreenCategories:
		body = m.viewCategories(f)
	default:
		body = m.viewDashboard(f)
	}

	bodyH := m.height - footerHeight
	if bodyH < 1 {
		bodyH = 1
	}
	switch {
	case f.Confirm != nil:
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, m.viewConfirm(f.Confirm))
	case f.Form != nil && m.form.active:
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, m.form.view(m.width, f.Form))
	}
	body = normalizePane(body, m.width, bodyH)
	return body + "\n" + m.viewFooter(f)
}

func (m appModel) viewHeader(f app.Frame) string {
	tabActive := lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Bold(true).Padding(0, 1)
	tabIdle := lipgloss.NewStyle().Foreground(colorSurfaceFg).Background(colorControlBg).Padding(0, 1)

	parts := []string{lipgloss.NewStyle().Bold(true).Render("taskdeck"), " "}
	for i, s := range app.Screens {
		label := strconv.Itoa(i+1) + " " + s.Title()
		if s == f.Screen {
			parts = append(parts, tabActive.Render(label))
		} else {
			parts = append(parts, tabIdle.Render(label))
		}
		parts = append(parts, " ")
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	right := styleMuted().Render(m.serverURL)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m appModel) viewDashboard(f app.Frame) string {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Padding(0, 2).
		Width(16)
	stat := func(label string, n int, c lipgloss.AdaptiveColor) string {
		num := lipgloss.NewStyle().Bold(true).Foreground(c).Render(strconv.Itoa(n))
		return card.Render(num + "\n" + styleMuted().Render(label))
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Due Today", f.Stats.DueToday, colorPriorityMed), " ",
		stat("Overdue", f.Stats.Overdue, colorError), " ",
		stat("Completed", f.Stats.Completed, colorDone), " ",
		stat("Pending", f.Stats.Pending, colorSurfaceFg),
	)

	lines := []string{m.viewHeader(f), "", cards, "", lipgloss.NewStyle().Bold(true).Render("Up next")}
	shown := 0
	for _, t := range m.state.Store.Tasks {
		if t.Completed() {
			continue
		}
		lines = append(lines, "  "+taskLine(taskCardOf(t), m.width-4))
		shown++
		if shown == 5 {
			break
		}
	}
	if shown == 0 {
		lines = append(lines, styleMuted().Render("  Nothing pending."))
	}
	return strings.Join(lines, "\n")
}

func taskCardOf(t model.Task) app.TaskCard {
	c := app.TaskCard{ID: t.ID, Title: t.Title, Priority: t.Priority, Category: t.Category, Completed: t.Completed()}
	if t.DueDate != "" {
		c.DueLabel = "Due: " + t.DueDate
	}
	return c
}

func (m appModel) viewFilterBar(f app.Frame) string {
	val := func(v string) string {
		if v == "" {
			return "All"
		}
		return v
	}
	parts := []string{
		"Category: " + val(f.Filter.Category),
		"Priority: " + val(string(f.Filter.Priority)),
		"Status: " + val(string(f.Filter.Status)),
	}
	bar := strings.Join(parts, "   ")
	if f.ReorderPending {
		bar += "   " + styleMuted().Render("saving order…")
	}
	if f.Dragging {
		bar += "   " + lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(fmt.Sprintf("moving #%d", f.DraggedID))
	}
	return bar
}

func (m appModel) viewTasks(f app.Frame) string {
	listW := m.width
	showPreview := m.width >= 100
	if showPreview {
		listW = m.width * 3 / 5
	}

	h := m.rowsHeight()
	rows := make([]string, 0, h)
	if len(f.Tasks) == 0 {
		msg := "No tasks. Press a to add one."
		if f.Filter.Active() {
			msg = "No tasks match the current filters."
		}
		rows = append(rows, styleMuted().Render("  "+msg))
	}
	for i := m.offset; i < len(f.Tasks) && i < m.offset+h; i++ {
		c := f.Tasks[i]
		ln := fitWidth(" "+taskLine(c, listW-2)+" ", listW)
		switch {
		case c.Dragged:
			ln = styleDraggedRow().Render(ln)
		case i == m.cursor:
			ln = styleSelectedRow().Render(ln)
		}
		rows = append(rows, ln)
	}
	list := normalizePane(strings.Join(rows, "\n"), listW, h)

	if showPreview {
		previewW := m.width - listW - 1
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, " ", normalizePane(m.viewPreview(f, previewW), previewW, h))
	}
	return strings.Join([]string{m.viewHeader(f), "", m.viewFilterBar(f), "", list}, "\n")
}

// taskLine is the one-line summary of a task card.
func taskLine(c app.TaskCard, width int) string {
	box := "[ ]"
	title := c.Title
	if c.Completed {
		box = "[x]"
		title = styleMuted().Strikethrough(true).Render(title)
	}
	meta := []string{}
	if b := priorityBadge(c.Priority); b != "" {
		meta = append(meta, b)
	}
	if c.Category != "" {
		meta = append(meta, styleMuted().Render(c.Category))
	}
	if c.DueLabel != "" {
		meta = append(meta, styleMuted().Render(c.DueLabel))
	}
	left := fmt.Sprintf("%s #%d %s", box, c.ID, title)
	right := strings.Join(meta, "  ")
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return fitWidth(left+"  "+right, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m appModel) viewPreview(f app.Frame, width int) string {
	if m.cursor < 0 || m.cursor >= len(f.Tasks) {
		return ""
	}
	c := f.Tasks[m.cursor]
	lines := []string{lipgloss.NewStyle().Bold(true).Render(c.Title)}
	if c.DueLabel != "" {
		lines = append(lines, styleMuted().Render(c.DueLabel))
	}
	lines = append(lines, "")
	if desc := renderMarkdown(c.Description, width); desc != "" {
		lines = append(lines, desc)
	} else {
		lines = append(lines, styleMuted().Render("No description."))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewCategories(f app.Frame) string {
	lines := []string{m.viewHeader(f), ""}
	if len(f.Categories) == 0 {
		lines = append(lines, styleMuted().Render("  No categories yet."))
	} else {
		lines = append(lines, m.categories.View())
	}
	lines = append(lines, "")
	label := styleMuted().Render("Add category (a)")
	if m.catInputActive {
		label = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("Add category (enter to save, esc to leave)")
	}
	lines = append(lines, label, renderInputLine(modalBodyWidth(m.width), m.catInput.View()))
	return strings.Join(lines, "\n")
}

func (m appModel) viewConfirm(c *app.ConfirmView) string {
	body := c.Question
	if c.TaskTitle != "" {
		body = fmt.Sprintf("%s\n\n#%d %s", c.Question, c.TaskID, c.TaskTitle)
	}
	return renderConfirmModal(m.width, "Delete task", body, "Delete", "Cancel", m.confirmFocus)
}

func (m appModel) viewFooter(f app.Frame) string {
	notice := ""
	if f.Notice != "" {
		notice = styleError().Render(f.Notice)
	}
	var helpView string
	if m.help.ShowAll {
		helpView = m.help.FullHelpView(m.keys.fullHelp())
		helpView = strings.ReplaceAll(helpView, "\n", "  ")
	} else {
		helpView = m.help.ShortHelpView(m.keys.helpFor(f.Screen, f.Dragging))
	}
	return fitWidth(notice, m.width) + "\n" + fitWidth(helpView, m.width)
}
