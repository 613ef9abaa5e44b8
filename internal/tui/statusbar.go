package tui

import "github.com/charmbracelet/lipgloss"

func renderStatusBar(m Model, width int) string {
	var text string
	switch {
	case m.err != nil:
		text = statusErrorStyle.Render("✗ " + m.err.Error())
	case m.saved:
		text = statusSavedStyle.Render("✓ Saved")
	case m.form.Dirty():
		text = statusDirtyStyle.Render("● Unsaved changes")
	default:
		text = lipgloss.NewStyle().Foreground(colorDim).Render(m.configPath)
	}
	return statusBarStyle.Width(width).Render(" " + text)
}
