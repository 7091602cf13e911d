package tui

import (
	"fmt"
	"strings"

	"taskdeck/internal/app"
	"taskdeck/internal/model"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldCategory
	fieldDue
	fieldStatus
	fieldCount
)

func (f formField) label() string {
	switch f {
	case fieldTitle:
		return "Title"
	case fieldDescription:
		return "Description"
	case fieldPriority:
		return "Priority"
	case fieldCategory:
		return "Category"
	case fieldDue:
		return "Due date"
	case fieldStatus:
		return "Status"
	}
	return ""
}

// taskForm holds the widgets behind the add/edit modal. app.Form stays the source
// of truth for open/editing/error; the widgets only carry keystrokes.
type taskForm struct {
	active bool
	focus  formField

	title textinput.Model
	desc  textarea.Model
	due   textinput.Model

	priority   model.Priority
	category   string
	status     model.Status
	categories []string

	// localErr reports input rejected before any request is sent.
	localErr string
}

func newTaskForm(fv app.FormView, width int) taskForm {
	bodyW := modalBodyWidth(width)

	title := textinput.New()
	title.Prompt = ""
	title.Placeholder = "What needs doing?"
	title.CharLimit = 200
	title.Width = bodyW - 2
	title.SetValue(fv.Fields.Title)
	_ = title.Cursor.SetMode(cursor.CursorStatic)

	desc := textarea.New()
	desc.Placeholder = "Markdown notes"
	desc.ShowLineNumbers = false
	desc.Prompt = ""
	desc.SetWidth(bodyW)
	desc.SetHeight(4)
	desc.SetValue(fv.Fields.Description)
	_ = desc.Cursor.SetMode(cursor.CursorStatic)

	due := textinput.New()
	due.Prompt = ""
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10
	due.Width = 12
	due.SetValue(fv.Fields.DueDate)
	_ = due.Cursor.SetMode(cursor.CursorStatic)

	cats := append([]string{""}, fv.CategoryChoices...)
	if c := fv.Fields.Category; c != "" && !contains(cats, c) {
		cats = append(cats, c)
	}

	f := taskForm{
		active:     true,
		title:      title,
		desc:       desc,
		due:        due,
		priority:   fv.Fields.Priority,
		category:   fv.Fields.Category,
		status:     fv.Fields.Status,
		categories: cats,
	}
	if f.priority == "" {
		f.priority = model.PriorityMedium
	}
	if f.status == "" {
		f.status = model.StatusPending
	}
	f.setFocus(fieldTitle)
	return f
}

func (f *taskForm) setFocus(ff formField) {
	f.focus = (ff + fieldCount) % fieldCount
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch f.focus {
	case fieldTitle:
		_ = f.title.Focus()
	case fieldDescription:
		_ = f.desc.Focus()
	case fieldDue:
		_ = f.due.Focus()
	}
}

// fields reads the widgets into a request payload.
func (f taskForm) fields() (model.TaskFields, error) {
	due, err := model.ParseDueDate(f.due.Value())
	if err != nil {
		return model.TaskFields{}, err
	}
	return model.TaskFields{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: f.desc.Value(),
		Priority:    f.priority,
		Category:    f.category,
		DueDate:     due,
		Status:      f.status,
	}, nil
}

func (f taskForm) update(msg tea.KeyMsg) (taskForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldDue:
		f.due, cmd = f.due.Update(msg)
	case fieldPriority, fieldCategory, fieldStatus:
		step := 0
		switch msg.String() {
		case "right", "l", " ":
			step = 1
		case "left", "h":
			step = -1
		}
		if step != 0 {
			f.cycle(step)
		}
	}
	f.localErr = ""
	return f, cmd
}

func (f *taskForm) cycle(step int) {
	switch f.focus {
	case fieldPriority:
		opts := make([]string, 0, len(model.Priorities))
		for _, p := range model.Priorities {
			opts = append(opts, string(p))
		}
		f.priority = model.Priority(cycleString(opts, string(f.priority), step))
	case fieldCategory:
		f.category = cycleString(f.categories, f.category, step)
	case fieldStatus:
		opts := make([]string, 0, len(model.Statuses))
		for _, s := range model.Statuses {
			opts = append(opts, string(s))
		}
		f.status = model.Status(cycleString(opts, string(f.status), step))
	}
}

func cycleString(opts []string, cur string, step int) string {
	if len(opts) == 0 {
		return cur
	}
	for i, o := range opts {
		if o == cur {
			return opts[((i+step)%len(opts)+len(opts))%len(opts)]
		}
	}
	return opts[0]
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func (f taskForm) view(width int, fv *app.FormView) string {
	bodyW := modalBodyWidth(width)
	labelStyle := styleMuted()
	focusLabel := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	label := func(ff formField) string {
		if ff == f.focus {
			return focusLabel.Render("› " + ff.label())
		}
		return labelStyle.Render("  " + ff.label())
	}
	selector := func(ff formField, v string) string {
		if v == "" {
			v = "(none)"
		}
		s := "‹ " + v + " ›"
		if ff == f.focus {
			return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Render(s)
		}
		return s
	}

	var b strings.Builder
	b.WriteString(label(fieldTitle) + "\n")
	b.WriteString(renderInputLine(bodyW, f.title.View()) + "\n")
	b.WriteString(label(fieldDescription) + "\n")
	b.WriteString(f.desc.View() + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", label(fieldPriority), selector(fieldPriority, string(f.priority))))
	b.WriteString(fmt.Sprintf("%s  %s\n", label(fieldCategory), selector(fieldCategory, f.category)))
	b.WriteString(label(fieldDue) + "\n")
	b.WriteString(renderInputLine(bodyW, f.due.View()) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", label(fieldStatus), selector(fieldStatus, string(f.status))))

	errText := f.localErr
	if errText == "" && fv != nil {
		errText = fv.Err
	}
	if errText != "" {
		b.WriteString("\n" + styleError().Width(bodyW).Render(errText) + "\n")
	}
	if fv != nil && fv.Submitting {
		b.WriteString("\n" + styleMuted().Render("Saving…") + "\n")
	}
	b.WriteString("\n" + styleMuted().Width(bodyW).Render("tab: next field   ←/→: change   enter/ctrl+s: save   esc: cancel"))

	heading := "Task"
	if fv != nil {
		heading = fv.Heading
	}
	return renderModalBox(width, heading, b.String())
}
