// Package tui implements the terminal preferences dialog.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/indicator-tide/indicator-tide/internal/models"
)

// Run shows the dialog on the terminal until the user saves or cancels.
// It reports whether the preferences were committed. A nil stations leaves
// the seaport as free text.
func Run(cfg models.Configuration, configPath string, commit CommitFunc, stations StationsFunc) (bool, error) {
	m := NewModel(cfg, configPath, commit).WithStations(stations)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.Saved(), nil
}
