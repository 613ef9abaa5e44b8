// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the per-user indicator directory.
	GlobalDirName = ".tide"

	// LogsDirName is the name of the logs directory.
	LogsDirName = "logs"

	// HomeEnvVar overrides the location of the per-user directory.
	HomeEnvVar = "TIDE_HOME"
)

// File names
const (
	ConfigFileName = "tide.json"
	DaemonFileName = "daemon.yaml"
	UpdateFileName = "update.yaml"
	EnvFileName    = ".env"
	LogFileName    = "indicator-tide.log"
)

// GlobalDir returns the path to the per-user directory (~/.tide/).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// ConfigFile returns the path to the tide.json file.
func ConfigFile() (string, error) {
	return globalFile(ConfigFileName)
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) {
	return globalFile(DaemonFileName)
}

// UpdateStateFile returns the path to the update.yaml file.
func UpdateStateFile() (string, error) {
	return globalFile(UpdateFileName)
}

// EnvFile returns the path to the .env file handed to providers.
func EnvFile() (string, error) {
	return globalFile(EnvFileName)
}

// GlobalLogsDir returns the path to the logs directory.
func GlobalLogsDir() (string, error) {
	return globalFile(LogsDirName)
}

// LogFile returns the path to the daemon log file.
func LogFile() (string, error) {
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

func globalFile(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureGlobalDir creates the per-user directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// EnsureGlobalLogsDir creates the global logs directory if it doesn't exist.
func EnsureGlobalLogsDir() error {
	dir, err := GlobalLogsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
