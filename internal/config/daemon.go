package config

import (
	"os"
	"syscall"

	"github.com/indicator-tide/indicator-tide/internal/models"
)

// LoadDaemonInfo loads the daemon info from ~/.tide/daemon.yaml.
// Returns nil if the file doesn't exist.
func LoadDaemonInfo() (*models.DaemonInfo, error) {
	path, err := GlobalDaemonFile()
	if err != nil {
		return nil, err
	}

	if !FileExists(path) {
		return nil, nil
	}

	var info models.DaemonInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveDaemonInfo saves the daemon info to ~/.tide/daemon.yaml.
func SaveDaemonInfo(info *models.DaemonInfo) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}

	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveDaemonInfo removes the daemon.yaml file.
func RemoveDaemonInfo() error {
	path, err := GlobalDaemonFile()
	if err != nil {
		return err
	}

	if !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// IsDaemonRunning checks if the indicator daemon is still running.
// Returns true if daemon.yaml exists and the PID is alive.
func IsDaemonRunning() (bool, *models.DaemonInfo, error) {
	info, err := LoadDaemonInfo()
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		return false, info, nil
	}

	// Signal 0 only checks for existence
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = RemoveDaemonInfo()
		return false, info, nil
	}

	return true, info, nil
}

// LoadUpdateState loads ~/.tide/update.yaml. A missing file yields a zero state.
func LoadUpdateState() (*models.UpdateState, error) {
	path, err := UpdateStateFile()
	if err != nil {
		return nil, err
	}

	var state models.UpdateState
	if !FileExists(path) {
		return &state, nil
	}
	if err := LoadYAML(path, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveUpdateState saves ~/.tide/update.yaml.
func SaveUpdateState(state *models.UpdateState) error {
	path, err := UpdateStateFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, state)
}
