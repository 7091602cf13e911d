package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine lays a text input out as one shaded line of exactly bodyW cells.
func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	inputView = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(inputView)

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Reset styling after the cut so the shade does not bleed.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
