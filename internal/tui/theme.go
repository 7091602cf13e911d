package tui

import (
	"os"
	"strconv"
	"strings"

	"taskdeck/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette. Adaptive colors keep the TUI readable on light and dark backgrounds;
// faint styling is only applied on dark ones.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted       = ac("240", "243")
	colorSurfaceFg   = ac("235", "252")
	colorControlBg   = ac("252", "237")
	colorInputBg     = ac("254", "234")
	colorSelectedBg  = ac("#e9e9e9", "#262626")
	colorSelectedFg  = ac("235", "255")
	colorAccent      = ac("27", "62")
	colorAccentFg    = ac("255", "235")
	colorCardBorder  = ac("250", "243")
	colorError       = ac("160", "203")
	colorDone        = ac("28", "78")
	colorPriorityHi  = ac("160", "203")
	colorPriorityMed = ac("130", "214")
	colorPriorityLo  = ac("28", "78")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError).Bold(true)
}

func styleSelectedRow() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
}

func styleDraggedRow() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent).Bold(true)
}

func priorityBadge(p model.Priority) string {
	if p == "" {
		return ""
	}
	c := colorPriorityMed
	switch p {
	case model.PriorityHigh:
		c = colorPriorityHi
	case model.PriorityLow:
		c = colorPriorityLo
	}
	return lipgloss.NewStyle().Foreground(c).Render(string(p))
}

// applyColorProfilePreference picks the Lip Gloss color profile. NO_COLOR and
// the "mono" appearance profile force plain ASCII; otherwise TERM/COLORTERM may
// upgrade termenv's guess, since probing under-reports on some terminals.
func applyColorProfilePreference(profile string) {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" || strings.EqualFold(strings.TrimSpace(profile), "mono") {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	p := termenv.ColorProfile()
	term := strings.ToLower(os.Getenv("TERM"))
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	switch {
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		if p != termenv.Ascii {
			p = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if p == termenv.Ascii || p == termenv.ANSI {
			p = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(p)
}

// applyThemePreference overrides background detection:
// TASKDECK_TUI_THEME=light|dark, then the COLORFGBG "fg;bg" heuristic.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKDECK_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if dark, ok := darkFromColorFGBG(os.Getenv("COLORFGBG")); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

func darkFromColorFGBG(v string) (dark bool, ok bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, false
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || bg < 0 {
		return false, false
	}
	// xterm palette: 0-6 dark, 7-15 light.
	return bg < 7, true
}
