package publish

import (
	"bytes"
	"fmt"
	"strings"

	"taskdeck/internal/model"
)

const uncategorized = "Uncategorized"

// RenderTaskMarkdown renders one task as a standalone page.
func RenderTaskMarkdown(t model.Task) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(t.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn(fmt.Sprintf("- ID: %d", t.ID))
	writeLn("- Status: " + string(t.Status))
	if t.Priority != "" {
		writeLn("- Priority: " + string(t.Priority))
	}
	if c := strings.TrimSpace(t.Category); c != "" {
		writeLn("- Category: " + c)
	}
	if t.DueDate != "" {
		writeLn("- Due: " + t.DueDate)
	}
	writeLn(fmt.Sprintf("- Order: %d", t.Order))
	if t.CreatedAt != "" {
		writeLn("- Created: " + t.CreatedAt)
	}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(desc)
	}
	return buf.String()
}

// RenderIndexMarkdown renders tasks as a checklist grouped by category. Groups
// follow the first appearance of each category; tasks keep their given order.
func RenderIndexMarkdown(title string, tasks []model.Task, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "Tasks"
	}
	writeLn("# " + title)
	writeLn("")
	if len(tasks) == 0 {
		writeLn("_No tasks._")
		return buf.String()
	}

	var order []string
	groups := map[string][]model.Task{}
	for _, t := range tasks {
		c := strings.TrimSpace(t.Category)
		if c == "" {
			c = uncategorized
		}
		if _, ok := groups[c]; !ok && c != uncategorized {
			order = append(order, c)
		}
		groups[c] = append(groups[c], t)
	}
	if len(groups[uncategorized]) > 0 {
		order = append(order, uncategorized)
	}

	for i, c := range order {
		if i > 0 {
			writeLn("")
		}
		writeLn("## " + c)
		writeLn("")
		for _, t := range groups[c] {
			writeLn(checklistLine(t, opt))
		}
	}
	return buf.String()
}

func checklistLine(t model.Task, opt RenderOptions) string {
	box := "[ ]"
	if t.Completed() {
		box = "[x]"
	}
	label := strings.TrimSpace(t.Title)
	if opt.LinkTasks {
		label = fmt.Sprintf("[%s](%s)", label, taskPath(t.ID))
	}
	var meta []string
	if t.Priority != "" {
		meta = append(meta, string(t.Priority))
	}
	if t.DueDate != "" {
		meta = append(meta, "due "+t.DueDate)
	}
	line := fmt.Sprintf("- %s #%d %s", box, t.ID, label)
	if len(meta) > 0 {
		line += " (" + strings.Join(meta, ", ") + ")"
	}
	return line
}

func taskPath(id int) string {
	return fmt.Sprintf("tasks/%d.md", id)
}
