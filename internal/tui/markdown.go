package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdMu sync.Mutex
	// Renderers are cached by style and wrap width. WithAutoStyle is avoided since
	// its terminal queries can block.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders a task description for the preview pane. On any
// renderer error the raw text is returned.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdMu.Unlock()
			return md
		}
		mdRenderers[key] = r
	}
	mdMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if style == "light" {
		cfg = styles.LightStyleConfig
	}
	zero := uint(0)
	cfg.Document.Margin = &zero
	cfg.Paragraph.Margin = &zero

	text := mdColor(colorSurfaceFg, style)
	cfg.Text.Color = text
	cfg.Heading.Color = text
	cfg.H1.Color = text
	cfg.H2.Color = text
	cfg.H3.Color = text
	cfg.Code.Color = text
	cfg.CodeBlock.Color = text

	link := mdColor(colorAccent, style)
	underline := true
	cfg.Link.Color = link
	cfg.Link.Underline = &underline
	cfg.LinkText.Color = link
	return cfg
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKDECK_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if dark, ok := darkFromColorFGBG(os.Getenv("COLORFGBG")); ok {
		if dark {
			return "dark"
		}
		return "light"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func mdColor(c lipgloss.AdaptiveColor, style string) *string {
	s := c.Dark
	if style == "light" {
		s = c.Light
	}
	return &s
}
