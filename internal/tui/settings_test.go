package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/indicator-tide/indicator-tide/internal/models"
)

func TestSettingsForm_RoundTrip(t *testing.T) {
	cfg := models.Configuration{
		ShowAsSubmenus:               true,
		ShowAsSubmenusExceptFirstDay: true,
		ProviderClassName:            "noaa",
		ProviderPathAndFilename:      "builtin:noaa",
		DurationDays:                 5,
		SeaportID:                    "8443970",
	}
	s := NewSettingsForm(cfg)
	assert.Equal(t, cfg, s.Configuration())
	assert.False(t, s.Dirty())
}

func TestSettingsForm_StepClampsDuration(t *testing.T) {
	s := NewSettingsForm(models.Configuration{DurationDays: models.MaxDurationDays})
	for s.fields[s.Cursor()].Key != keyDurationDays {
		s.MoveDown()
	}

	assert.False(t, s.Step(1))
	assert.True(t, s.Step(-1))
	assert.Equal(t, models.MaxDurationDays-1, s.Configuration().DurationDays)
	assert.True(t, s.Dirty())
}

func TestSettingsForm_EditNumber(t *testing.T) {
	s := NewSettingsForm(*models.NewConfiguration())
	for s.fields[s.Cursor()].Key != keyDurationDays {
		s.MoveDown()
	}

	assert.True(t, s.StartEdit())
	s.InputModel().SetValue("99")
	assert.True(t, s.FinishEdit())
	assert.Equal(t, models.MaxDurationDays, s.Configuration().DurationDays)

	assert.True(t, s.StartEdit())
	s.InputModel().SetValue("many")
	assert.False(t, s.FinishEdit())
	assert.Equal(t, models.MaxDurationDays, s.Configuration().DurationDays)
}

func TestSettingsForm_ExceptFirstDayNeedsSubmenus(t *testing.T) {
	s := NewSettingsForm(*models.NewConfiguration())
	for s.fields[s.Cursor()].Key != keyExceptFirstDay {
		s.MoveDown()
	}
	assert.False(t, s.Toggle())

	s.MoveUp()
	assert.True(t, s.Toggle())
	s.MoveDown()
	assert.True(t, s.Toggle())

	cfg := s.Configuration()
	assert.True(t, cfg.ShowAsSubmenus)
	assert.True(t, cfg.ShowAsSubmenusExceptFirstDay)
}

func TestSettingsForm_CancelEditKeepsValue(t *testing.T) {
	s := NewSettingsForm(models.Configuration{ProviderPathAndFilename: "/tmp/p.go", DurationDays: 7})
	assert.True(t, s.StartEdit())
	s.InputModel().SetValue("/elsewhere.go")
	s.CancelEdit()

	assert.False(t, s.IsEditing())
	assert.Equal(t, "/tmp/p.go", s.Configuration().ProviderPathAndFilename)
}

func TestSettingsForm_CursorBounds(t *testing.T) {
	s := NewSettingsForm(*models.NewConfiguration())
	s.MoveUp()
	assert.Equal(t, 0, s.Cursor())
	for i := 0; i < 20; i++ {
		s.MoveDown()
	}
	assert.Equal(t, len(s.fields)-1, s.Cursor())
}

func moveTo(s *SettingsForm, key string) {
	for s.fields[s.Cursor()].Key != key {
		s.MoveDown()
	}
}

func TestSettingsForm_StationChoices(t *testing.T) {
	s := NewSettingsForm(models.Configuration{SeaportID: "0065", DurationDays: 7})
	s.SetStations([]Station{
		{ID: "0113", Label: "London Bridge (Tower Pier) (0113)"},
		{ID: "0065", Label: "Portsmouth (0065)"},
		{ID: "0001", Label: "St. Mary's (0001)"},
	}, nil)
	moveTo(s, keySeaportID)

	assert.Contains(t, s.View(), "Portsmouth (0065)")
	assert.True(t, s.Step(1))
	assert.Equal(t, "0001", s.Configuration().SeaportID)
	assert.False(t, s.Step(1))
	assert.True(t, s.Step(-2))
	assert.Equal(t, "0113", s.Configuration().SeaportID)
	assert.True(t, s.Dirty())
}

func TestSettingsForm_StationsUnavailableKeepsValue(t *testing.T) {
	s := NewSettingsForm(models.Configuration{SeaportID: "0065", DurationDays: 7})
	s.SetStations(nil, errors.New("401 Unauthorized"))
	moveTo(s, keySeaportID)

	assert.Contains(t, s.View(), "Could not load stations (ID: 0065)")
	assert.False(t, s.Step(1))
	assert.Equal(t, "0065", s.Configuration().SeaportID)
	assert.False(t, s.Dirty())

	assert.True(t, s.StartEdit())
	s.InputModel().SetValue("0113")
	assert.True(t, s.FinishEdit())
	assert.Equal(t, "0113", s.Configuration().SeaportID)
}

func TestSettingsForm_UnknownSeaportStepsIntoList(t *testing.T) {
	s := NewSettingsForm(models.Configuration{SeaportID: "9999", DurationDays: 7})
	s.SetStations([]Station{{ID: "0065", Label: "Portsmouth (0065)"}, {ID: "0001", Label: "St. Mary's (0001)"}}, nil)
	moveTo(s, keySeaportID)

	assert.Contains(t, s.View(), "9999")
	assert.True(t, s.Step(-1))
	assert.Equal(t, "0001", s.Configuration().SeaportID)
}
