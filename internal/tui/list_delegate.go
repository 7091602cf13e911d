package tui

import (
	"fmt"
	"io"
	"strconv"

	"taskdeck/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// categoryItem is one row of the Categories screen.
type categoryItem struct {
	cat   model.Category
	tasks int
}

func (it categoryItem) FilterValue() string { return it.cat.Name }
func (it categoryItem) Title() string       { return it.cat.Name }

func categoryItems(cats []model.Category, tasks []model.Task) []list.Item {
	counts := map[string]int{}
	for _, t := range tasks {
		counts[t.Category]++
	}
	items := make([]list.Item, 0, len(cats))
	for _, c := range cats {
		items = append(items, categoryItem{cat: c, tasks: counts[c.Name]})
	}
	return items
}

// categoryDelegate renders single-line rows: name on the left, task count on the right.
type categoryDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCategoryDelegate() categoryDelegate {
	return categoryDelegate{
		normal:   lipgloss.NewStyle(),
		selected: styleSelectedRow(),
	}
}

func (d categoryDelegate) Height() int  { return 1 }
func (d categoryDelegate) Spacing() int { return 0 }
func (d categoryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d categoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	it, ok := item.(categoryItem)
	if !ok {
		fmt.Fprint(w, fitWidth(fmt.Sprint(item), contentW))
		return
	}

	count := strconv.Itoa(it.tasks) + " tasks"
	if it.tasks == 1 {
		count = "1 task"
	}
	nameW := contentW - len(count) - 1
	line := fitWidth(" "+it.cat.Name, nameW) + " " + count
	if nameW < 4 {
		line = fitWidth(" "+it.cat.Name, contentW)
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}
	fmt.Fprint(w, style.Render(line))
}
