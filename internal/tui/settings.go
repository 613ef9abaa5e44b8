package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/indicator-tide/indicator-tide/internal/models"
)

// FieldType defines the type of a settings field.
type FieldType int

const (
	fieldText FieldType = iota
	fieldToggle
	fieldNumber
)

// Field keys.
const (
	keyProviderPath   = "provider_path"
	keyProviderClass  = "provider_class"
	keySeaportID      = "seaport_id"
	keyDurationDays   = "duration_days"
	keySubmenus       = "show_as_submenus"
	keyExceptFirstDay = "except_first_day"
)

// SettingsField is a single field in the settings form.
type SettingsField struct {
	Label     string
	Key       string
	Value     string
	BoolValue bool
	IntValue  int
	Type      FieldType
	// Choices, when set, lets the value be stepped through a list.
	Choices []Station
}

// SettingsForm edits a Configuration.
type SettingsForm struct {
	fields  []SettingsField
	cursor  int
	editing bool
	dirty   bool
	input   textinput.Model
	width   int

	stationsPending bool
}

// NewSettingsForm creates a form holding cfg.
func NewSettingsForm(cfg models.Configuration) *SettingsForm {
	ti := textinput.New()
	ti.CharLimit = 512
	s := &SettingsForm{input: ti}
	s.Load(cfg)
	return s
}

// Load replaces the field values with cfg.
func (s *SettingsForm) Load(cfg models.Configuration) {
	s.fields = []SettingsField{
		{Label: "Provider path and filename", Key: keyProviderPath, Value: cfg.ProviderPathAndFilename, Type: fieldText},
		{Label: "Provider class name", Key: keyProviderClass, Value: cfg.ProviderClassName, Type: fieldText},
		{Label: "Seaport ID", Key: keySeaportID, Value: cfg.SeaportID, Type: fieldText},
		{Label: "Duration (days)", Key: keyDurationDays, IntValue: clampDays(cfg.DurationDays), Type: fieldNumber},
		{Label: "Show as submenus", Key: keySubmenus, BoolValue: cfg.ShowAsSubmenus, Type: fieldToggle},
		{Label: "Except the first day", Key: keyExceptFirstDay, BoolValue: cfg.ShowAsSubmenusExceptFirstDay, Type: fieldToggle},
	}
	s.dirty = false
}

// Configuration returns the edited values.
func (s *SettingsForm) Configuration() models.Configuration {
	cfg := *models.NewConfiguration()
	for _, f := range s.fields {
		switch f.Key {
		case keyProviderPath:
			cfg.ProviderPathAndFilename = strings.TrimSpace(f.Value)
		case keyProviderClass:
			cfg.ProviderClassName = strings.TrimSpace(f.Value)
		case keySeaportID:
			cfg.SeaportID = strings.TrimSpace(f.Value)
		case keyDurationDays:
			cfg.DurationDays = f.IntValue
		case keySubmenus:
			cfg.ShowAsSubmenus = f.BoolValue
		case keyExceptFirstDay:
			cfg.ShowAsSubmenusExceptFirstDay = f.BoolValue
		}
	}
	return cfg
}

// SetWidth updates the rendering width.
func (s *SettingsForm) SetWidth(width int) {
	s.width = width
	s.input.Width = width - 30
}

// Cursor returns the index of the selected field.
func (s *SettingsForm) Cursor() int {
	return s.cursor
}

// Dirty reports whether any value changed since Load.
func (s *SettingsForm) Dirty() bool {
	return s.dirty
}

// MoveUp moves cursor up.
func (s *SettingsForm) MoveUp() {
	if !s.editing && s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves cursor down.
func (s *SettingsForm) MoveDown() {
	if !s.editing && s.cursor < len(s.fields)-1 {
		s.cursor++
	}
}

// Toggle flips the current boolean field. "Except the first day" only applies
// to submenus and cannot be changed while they are off.
func (s *SettingsForm) Toggle() bool {
	f := s.current()
	if f == nil || f.Type != fieldToggle || !s.enabled(*f) {
		return false
	}
	f.BoolValue = !f.BoolValue
	s.dirty = true
	return true
}

// SetStations offers stations for the seaport field. When they could not be
// loaded the current id is the only choice, so the stored value survives.
func (s *SettingsForm) SetStations(stations []Station, err error) {
	s.stationsPending = false
	f := s.field(keySeaportID)
	if f == nil {
		return
	}
	switch {
	case err != nil:
		f.Choices = []Station{unavailableStation(f.Value)}
	case len(stations) > 0:
		f.Choices = stations
	}
}

// Step moves the duration by delta days within the accepted range, or the
// seaport through its station choices.
func (s *SettingsForm) Step(delta int) bool {
	f := s.current()
	if f == nil || s.editing {
		return false
	}
	if len(f.Choices) > 0 {
		return s.stepChoice(f, delta)
	}
	if f.Type != fieldNumber {
		return false
	}
	next := clampDays(f.IntValue + delta)
	if next == f.IntValue {
		return false
	}
	f.IntValue = next
	s.dirty = true
	return true
}

func (s *SettingsForm) stepChoice(f *SettingsField, delta int) bool {
	idx := choiceIndex(f.Choices, f.Value)
	switch {
	case idx < 0 && delta < 0:
		idx = len(f.Choices) - 1
	case idx < 0:
		idx = 0
	default:
		idx = min(max(idx+delta, 0), len(f.Choices)-1)
	}
	if f.Choices[idx].ID == f.Value {
		return false
	}
	f.Value = f.Choices[idx].ID
	s.dirty = true
	return true
}

// StartEdit begins inline editing of the current text or number field.
func (s *SettingsForm) StartEdit() bool {
	f := s.current()
	if f == nil || f.Type == fieldToggle {
		return false
	}
	s.editing = true
	if f.Type == fieldNumber {
		s.input.SetValue(strconv.Itoa(f.IntValue))
	} else {
		s.input.SetValue(f.Value)
	}
	s.input.CursorEnd()
	s.input.Focus()
	return true
}

// FinishEdit confirms the current edit. A number that does not parse is
// discarded; one out of range is clamped.
func (s *SettingsForm) FinishEdit() bool {
	if !s.editing {
		return false
	}
	s.editing = false
	s.input.Blur()

	f := s.current()
	val := s.input.Value()
	if f.Type == fieldNumber {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return false
		}
		n = clampDays(n)
		if n == f.IntValue {
			return false
		}
		f.IntValue = n
		s.dirty = true
		return true
	}

	if val == f.Value {
		return false
	}
	f.Value = val
	s.dirty = true
	return true
}

// CancelEdit cancels the current edit.
func (s *SettingsForm) CancelEdit() {
	s.editing = false
	s.input.Blur()
}

// IsEditing returns whether a field is being edited.
func (s *SettingsForm) IsEditing() bool {
	return s.editing
}

// InputModel returns the text input model for Update forwarding.
func (s *SettingsForm) InputModel() *textinput.Model {
	return &s.input
}

// View renders the settings form.
func (s *SettingsForm) View() string {
	lines := make([]string, 0, len(s.fields))
	for i, f := range s.fields {
		label := settingsLabelStyle.Render(f.Label + ":")

		var val string
		switch {
		case s.editing && i == s.cursor:
			val = s.input.View()
		case f.Type == fieldToggle && !s.enabled(f):
			val = settingsDisabledStyle.Render("[--]")
		case f.Type == fieldToggle && f.BoolValue:
			val = settingsToggleOn.Render("[ON]")
		case f.Type == fieldToggle:
			val = settingsToggleOff.Render("[OFF]")
		case f.Type == fieldNumber:
			val = settingsValueStyle.Render("‹ " + strconv.Itoa(f.IntValue) + " ›")
		case len(f.Choices) > 0:
			val = settingsValueStyle.Render("‹ " + choiceLabel(f.Choices, f.Value) + " ›")
		case f.Value == "":
			val = lipgloss.NewStyle().Foreground(colorDim).Render("(empty)")
		default:
			val = settingsValueStyle.Render(f.Value)
		}

		if f.Key == keySeaportID && s.stationsPending {
			val += " " + settingsDisabledStyle.Render("loading stations…")
		}

		line := label + " " + val
		if i == s.cursor {
			line = settingsCursorStyle.Width(s.width).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (s *SettingsForm) current() *SettingsField {
	if s.cursor < 0 || s.cursor >= len(s.fields) {
		return nil
	}
	return &s.fields[s.cursor]
}

func (s *SettingsForm) field(key string) *SettingsField {
	for i := range s.fields {
		if s.fields[i].Key == key {
			return &s.fields[i]
		}
	}
	return nil
}

func choiceIndex(choices []Station, id string) int {
	for i, c := range choices {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func choiceLabel(choices []Station, id string) string {
	if i := choiceIndex(choices, id); i >= 0 {
		return choices[i].Label
	}
	if id == "" {
		return "(none)"
	}
	return id
}

func (s *SettingsForm) enabled(f SettingsField) bool {
	if f.Key != keyExceptFirstDay {
		return true
	}
	for _, other := range s.fields {
		if other.Key == keySubmenus {
			return other.BoolValue
		}
	}
	return true
}

func clampDays(n int) int {
	switch {
	case n < models.MinDurationDays:
		return models.MinDurationDays
	case n > models.MaxDurationDays:
		return models.MaxDurationDays
	}
	return n
}
