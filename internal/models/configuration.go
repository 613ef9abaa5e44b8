// Package models holds the plain data types persisted by indicator-tide.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors returned by Configuration.Validate.
var (
	ErrProviderPathEmpty  = errors.New("the provider path/filename cannot be empty")
	ErrProviderClassEmpty = errors.New("the provider class name cannot be empty")
	ErrDurationOutOfRange = fmt.Errorf("duration must be between %d and %d days", MinDurationDays, MaxDurationDays)
)

// Duration bounds accepted by the preferences.
const (
	MinDurationDays     = 1
	MaxDurationDays     = 30
	DefaultDurationDays = 7
)

// Configuration is the applet configuration.
// This corresponds to ~/.tide/tide.json.
type Configuration struct {
	ShowAsSubmenus               bool   `json:"showAsSubmenus" yaml:"show_as_submenus"`
	ShowAsSubmenusExceptFirstDay bool   `json:"showAsSubmenusExceptFirstDay" yaml:"show_as_submenus_except_first_day"`
	ProviderClassName            string `json:"providerClassName" yaml:"provider_class_name"`
	ProviderPathAndFilename      string `json:"providerPathAndFilename" yaml:"provider_path_and_filename"`
	DurationDays                 int    `json:"durationDays" yaml:"duration_days"`
	SeaportID                    string `json:"seaportId" yaml:"seaport_id"`
}

// NewConfiguration creates a configuration with default values.
func NewConfiguration() *Configuration {
	return &Configuration{
		DurationDays: DefaultDurationDays,
	}
}

// ValidDurationDays reports whether days is within the accepted range.
func ValidDurationDays(days int) bool {
	return days >= MinDurationDays && days <= MaxDurationDays
}

// ProviderChanged reports whether other points at a different provider.
func (c Configuration) ProviderChanged(other Configuration) bool {
	return c.ProviderPathAndFilename != other.ProviderPathAndFilename ||
		c.ProviderClassName != other.ProviderClassName
}

// Validate checks the rules the preferences dialog enforces before a commit.
func (c Configuration) Validate() error {
	switch {
	case strings.TrimSpace(c.ProviderPathAndFilename) == "":
		return ErrProviderPathEmpty
	case strings.TrimSpace(c.ProviderClassName) == "":
		return ErrProviderClassEmpty
	case !ValidDurationDays(c.DurationDays):
		return ErrDurationOutOfRange
	}
	return nil
}
