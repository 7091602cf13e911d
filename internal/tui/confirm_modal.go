package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func (f confirmModalFocus) toggle() confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

// modalWidth is the outer width of a centered modal on a screen of the given width.
func modalWidth(screenW int) int {
	w := screenW - 8
	if w > 72 {
		w = 72
	}
	if w < 24 {
		w = 24
	}
	return w
}

// modalBodyWidth is the usable text width inside renderModalBox.
func modalBodyWidth(screenW int) int {
	return modalWidth(screenW) - 4
}

func renderModalBox(screenW int, title string, content string) string {
	bodyW := modalBodyWidth(screenW)
	head := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Padding(0, 1).
		Width(bodyW + 2)
	return box.Render(head + "\n\n" + content)
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	// Buttons stay borderless: nested borders inside the modal box render badly on
	// some terminals.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   y/n   esc: cancel")

	content := strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW).Render(body),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}
