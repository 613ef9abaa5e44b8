package models

import "time"

// DaemonInfo describes the running indicator daemon.
// This corresponds to ~/.tide/daemon.yaml.
type DaemonInfo struct {
	Version   int       `yaml:"version"`
	PID       int       `yaml:"pid"`
	Mode      string    `yaml:"mode"` // "tray" | "foreground"
	StartedAt time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values.
func NewDaemonInfo(pid int, mode string) *DaemonInfo {
	return &DaemonInfo{
		Version:   1,
		PID:       pid,
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}
}

// UpdateState records the last release check.
// This corresponds to ~/.tide/update.yaml.
type UpdateState struct {
	LastChecked   time.Time `yaml:"last_checked"`
	LatestVersion string    `yaml:"latest_version,omitempty"`
	ReleaseURL    string    `yaml:"release_url,omitempty"`
}
