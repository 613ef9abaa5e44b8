package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const stationsTimeout = 10 * time.Second

// Station is one choice offered for the seaport field.
type Station struct {
	ID    string
	Label string
}

// StationsFunc lists the stations offered for the seaport field.
type StationsFunc func(ctx context.Context) ([]Station, error)

type stationsMsg struct {
	stations []Station
	err      error
}

func loadStations(fn StationsFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), stationsTimeout)
		defer cancel()
		stations, err := fn(ctx)
		return stationsMsg{stations: stations, err: err}
	}
}

func unavailableStation(id string) Station {
	return Station{ID: id, Label: fmt.Sprintf("Could not load stations (ID: %s)", id)}
}
