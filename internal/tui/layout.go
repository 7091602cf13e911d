package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitWidth pads or truncates (with an ellipsis) a possibly styled line to exactly
// width cells.
func fitWidth(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	// Bound the cost of StringWidth on pathological lines.
	if len(ln) > 8192 {
		ln = xansi.Cut(ln, 0, width)
	}
	w := xansi.StringWidth(ln)
	if w > width {
		if width == 1 {
			ln = xansi.Cut(ln, 0, 1)
		} else {
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// normalizePane makes s exactly width columns by height lines so panes line up
// under lipgloss.JoinHorizontal. A height of 0 keeps the line count.
func normalizePane(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}
