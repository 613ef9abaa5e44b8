package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/indicator-tide/indicator-tide/internal/models"
)

// CommitFunc stores validated preferences.
type CommitFunc func(cfg models.Configuration) error

// Model is the preferences dialog.
type Model struct {
	form   *SettingsForm
	help   help.Model
	commit CommitFunc

	stations   StationsFunc
	configPath string
	err        error
	saved      bool
}

// NewModel creates a dialog editing cfg. commit is called on save after the
// values pass validation.
func NewModel(cfg models.Configuration, configPath string, commit CommitFunc) Model {
	form := NewSettingsForm(cfg)
	form.SetWidth(72)
	return Model{
		form:       form,
		help:       help.New(),
		commit:     commit,
		configPath: configPath,
	}
}

// WithStations makes the seaport field a picker over the stations fn lists.
func (m Model) WithStations(fn StationsFunc) Model {
	m.stations = fn
	m.form.stationsPending = fn != nil
	return m
}

// Saved reports whether the preferences were committed.
func (m Model) Saved() bool {
	return m.saved
}

// Err returns the last validation or save error.
func (m Model) Err() error {
	return m.err
}

// Configuration returns the values currently in the form.
func (m Model) Configuration() models.Configuration {
	return m.form.Configuration()
}

func (m Model) Init() tea.Cmd {
	if m.stations == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, loadStations(m.stations))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.form.SetWidth(min(msg.Width-6, 96))
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case stationsMsg:
		m.form.SetStations(msg.stations, msg.err)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.IsEditing() {
		switch msg.Type {
		case tea.KeyEnter:
			m.form.FinishEdit()
			return m, nil
		case tea.KeyEsc:
			m.form.CancelEdit()
			return m, nil
		}
		input := m.form.InputModel()
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, prefsKeys.Save):
		return m.save()
	case key.Matches(msg, prefsKeys.Cancel):
		return m, tea.Quit
	case key.Matches(msg, prefsKeys.Up):
		m.form.MoveUp()
	case key.Matches(msg, prefsKeys.Down):
		m.form.MoveDown()
	case key.Matches(msg, prefsKeys.Toggle):
		m.form.Toggle()
	case key.Matches(msg, prefsKeys.Enter):
		if !m.form.StartEdit() {
			m.form.Toggle()
		}
	case key.Matches(msg, prefsKeys.Decrease):
		m.form.Step(-1)
	case key.Matches(msg, prefsKeys.Increase):
		m.form.Step(1)
	case key.Matches(msg, prefsKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.err = nil
	return m, nil
}

func (m Model) save() (tea.Model, tea.Cmd) {
	cfg := m.form.Configuration()
	if err := cfg.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	if m.commit != nil {
		if err := m.commit(cfg); err != nil {
			m.err = err
			return m, nil
		}
	}
	m.err = nil
	m.saved = true
	return m, tea.Quit
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tide indicator preferences"))
	b.WriteString("\n")
	b.WriteString(m.form.View())
	b.WriteString("\n\n")
	b.WriteString(renderStatusBar(m, m.form.width))
	b.WriteString("\n")
	b.WriteString(m.help.View(prefsKeys))
	return frameStyle.Render(b.String())
}
