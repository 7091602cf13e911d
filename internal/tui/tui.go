// Package tui is the interactive front end: a Bubble Tea program over the app
// reducer with Dashboard, Tasks and Categories screens.
package tui

import (
	"taskdeck/internal/app"
	"taskdeck/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	Backend   app.Backend
	Log       *log.Logger
	ServerURL string
	// Mouse enables cell-motion mouse reporting, which drives drag and drop.
	Mouse   bool
	Profile string
}

func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference(opts.Profile)

	l := opts.Log
	if l == nil {
		l = log.New()
	}

	m := newAppModel(opts.Backend, l, opts.ServerURL)
	if st, err := config.LoadTUIState(); err != nil {
		l.WithError(err).Debug("tui state not restored")
	} else {
		m = m.restore(st)
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(appModel); ok {
		if err := config.SaveTUIState(fm.snapshot()); err != nil {
			l.WithError(err).Warn("tui state not saved")
		}
	}
	return nil
}
